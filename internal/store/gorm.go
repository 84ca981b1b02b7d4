package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"opportunity_hub/internal/config"
	"opportunity_hub/internal/domain"

	"gorm.io/driver/mysql"    // MySQL driver for GORM
	"gorm.io/driver/postgres" // PostgreSQL driver for GORM
	"gorm.io/gorm"            // GORM ORM library
	"gorm.io/gorm/logger"     // GORM logger levels
)

// GormStore implements Store on a relational database through gorm
type GormStore struct {
	db      *gorm.DB      // Connection pool
	timeout time.Duration // Per-call deadline
}

// Open connects to the store selected by cfg.DBDriver
func Open(cfg *config.Config) (Store, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverMemory:
		return NewMemoryStore(), nil
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.PostgresDSN())
	case config.DriverMySQL, "":
		dialector = mysql.Open(cfg.MySQLDSN())
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	gcfg := &gorm.Config{TranslateError: true} // Map unique violations to gorm.ErrDuplicatedKey
	if cfg.IsProd {
		gcfg.Logger = logger.Default.LogMode(logger.Silent)
	}
	db, err := gorm.Open(dialector, gcfg)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.DBDriver, err)
	}
	return NewGormStore(db, cfg.StoreTimeout), nil
}

// NewGormStore wraps an open gorm handle
func NewGormStore(db *gorm.DB, timeout time.Duration) *GormStore {
	return &GormStore{db: db, timeout: timeout}
}

// Models lists every table managed by the store, in dependency order
func Models() []any {
	return []any{
		&domain.User{},
		&domain.Student{},
		&domain.School{},
		&domain.Employer{},
		&domain.Job{},
		&domain.Program{},
		&ApplicationRecord{},
	}
}

// Migrate creates or updates tables and indexes
func (s *GormStore) Migrate() error {
	return s.db.AutoMigrate(Models()...)
}

// Close releases the connection pool
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// conn returns a handle bound to ctx with the store deadline applied
func (s *GormStore) conn(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	if s.timeout <= 0 {
		return s.db.WithContext(ctx), func() {}
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	return s.db.WithContext(ctx), cancel
}

// translate maps gorm errors onto store errors
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	case errors.Is(err, ErrInvalidEntity), errors.Is(err, ErrNotFound):
		return err
	}
	return err
}

func (s *GormStore) CreateUser(ctx context.Context, u *domain.User) error {
	db, cancel := s.conn(ctx)
	defer cancel()
	return translate(db.Create(u).Error)
}

func (s *GormStore) GetUser(ctx context.Context, id uint) (*domain.User, error) {
	db, cancel := s.conn(ctx)
	defer cancel()
	var u domain.User
	if err := db.First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	db, cancel := s.conn(ctx)
	defer cancel()
	var u domain.User
	if err := db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// DeleteUser cascades inside one transaction so a failure leaves nothing half deleted
func (s *GormStore) DeleteUser(ctx context.Context, id uint) error {
	db, cancel := s.conn(ctx)
	defer cancel()
	err := db.Transaction(func(tx *gorm.DB) error {
		var u domain.User
		if err := tx.First(&u, id).Error; err != nil {
			return err
		}
		var err error
		switch u.Role {
		case domain.RoleStudent:
			err = deleteStudentCascade(tx, u.ID)
		case domain.RoleSchool:
			err = deleteSchoolCascade(tx, u.ID)
		case domain.RoleEmployer:
			err = deleteEmployerCascade(tx, u.ID)
		}
		if err != nil {
			return err
		}
		return tx.Delete(&domain.User{}, u.ID).Error
	})
	return translate(err)
}

func deleteStudentCascade(tx *gorm.DB, userID uint) error {
	var student domain.Student
	err := tx.Where("user_id = ?", userID).First(&student).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	} else if err != nil {
		return err
	}
	if err := tx.Where("student_id = ?", student.ID).Delete(&ApplicationRecord{}).Error; err != nil {
		return err
	}
	return tx.Delete(&student).Error
}

func deleteSchoolCascade(tx *gorm.DB, userID uint) error {
	var school domain.School
	err := tx.Where("user_id = ?", userID).First(&school).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	} else if err != nil {
		return err
	}
	var programIDs []uint
	if err := tx.Model(&domain.Program{}).Where("school_id = ?", school.ID).Pluck("id", &programIDs).Error; err != nil {
		return err
	}
	if len(programIDs) > 0 {
		if err := tx.Where("program_id IN ?", programIDs).Delete(&ApplicationRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", programIDs).Delete(&domain.Program{}).Error; err != nil {
			return err
		}
	}
	return tx.Delete(&school).Error
}

func deleteEmployerCascade(tx *gorm.DB, userID uint) error {
	var employer domain.Employer
	err := tx.Where("user_id = ?", userID).First(&employer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	} else if err != nil {
		return err
	}
	var jobIDs []uint
	if err := tx.Model(&domain.Job{}).Where("employer_id = ?", employer.ID).Pluck("id", &jobIDs).Error; err != nil {
		return err
	}
	if len(jobIDs) > 0 {
		if err := tx.Where("job_id IN ?", jobIDs).Delete(&ApplicationRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", jobIDs).Delete(&domain.Job{}).Error; err != nil {
			return err
		}
	}
	return tx.Delete(&employer).Error
}

func (s *GormStore) GetStudentByUser(ctx context.Context, userID uint) (*domain.Student, error) {
	db, cancel := s.conn(ctx)
	defer cancel()
	var v domain.Student
	if err := db.Where("user_id = ?", userID).First(&v).Error; err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

func (s *GormStore) GetSchoolByUser(ctx context.Context, userID uint) (*domain.School, error) {
	db, cancel := s.conn(ctx)
	defer cancel()
	var v domain.School
	if err := db.Where("user_id = ?", userID).First(&v).Error; err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

func (s *GormStore) GetEmployerByUser(ctx context.Context, userID uint) (*domain.Employer, error) {
	db, cancel := s.conn(ctx)
	defer cancel()
	var v domain.Employer
	if err := db.Where("user_id = ?", userID).First(&v).Error; err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

// saveProfile inserts when the id is zero, otherwise overwrites every
// column except the id and owner
func saveProfile[T any](db *gorm.DB, v *T, id uint) error {
	if id == 0 {
		return translate(db.Create(v).Error)
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		var existing T
		if err := tx.First(&existing, id).Error; err != nil {
			return err
		}
		return tx.Model(&existing).Select("*").Omit("id", "user_id").Updates(v).Error
	})
	return translate(err)
}

func (s *GormStore) SaveStudent(ctx context.Context, v *domain.Student) error {
	db, cancel := s.conn(ctx)
	defer cancel()
	return saveProfile(db, v, v.ID)
}

func (s *GormStore) SaveSchool(ctx context.Context, v *domain.School) error {
	db, cancel := s.conn(ctx)
	defer cancel()
	return saveProfile(db, v, v.ID)
}

func (s *GormStore) SaveEmployer(ctx context.Context, v *domain.Employer) error {
	db, cancel := s.conn(ctx)
	defer cancel()
	return saveProfile(db, v, v.ID)
}

func (s *GormStore) GetSchools(ctx context.Context, ids []uint) (map[uint]domain.School, error) {
	out := make(map[uint]domain.School, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	db, cancel := s.conn(ctx)
	defer cancel()
	var rows []domain.School
	if err := db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, translate(err)
	}
	for _, r := range rows {
		out[r.ID] = r
	}
	return out, nil
}

func (s *GormStore) GetEmployers(ctx context.Context, ids []uint) (map[uint]domain.Employer, error) {
	out := make(map[uint]domain.Employer, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	db, cancel := s.conn(ctx)
	defer cancel()
	var rows []domain.Employer
	if err := db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, translate(err)
	}
	for _, r := range rows {
		out[r.ID] = r
	}
	return out, nil
}

func (s *GormStore) CreateJob(ctx context.Context, j *domain.Job) error {
	db, cancel := s.conn(ctx)
	defer cancel()
	return translate(db.Create(j).Error)
}

func (s *GormStore) GetJob(ctx context.Context, id uint) (*domain.Job, error) {
	db, cancel := s.conn(ctx)
	defer cancel()
	var j domain.Job
	if err := db.First(&j, id).Error; err != nil {
		return nil, translate(err)
	}
	return &j, nil
}

// updateListing overwrites a listing's mutable columns. The existence check
// runs in the same transaction so a concurrent delete surfaces as ErrNotFound.
func updateListing[T any](db *gorm.DB, v *T, id uint, ownerColumn string) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		var existing T
		if err := tx.First(&existing, id).Error; err != nil {
			return err
		}
		return tx.Model(&existing).Select("*").Omit("id", ownerColumn, "created_at").Updates(v).Error
	})
	return translate(err)
}

func (s *GormStore) UpdateJob(ctx context.Context, j *domain.Job) error {
	db, cancel := s.conn(ctx)
	defer cancel()
	return updateListing(db, j, j.ID, "employer_id")
}

func (s *GormStore) DeleteJob(ctx context.Context, id uint) error {
	db, cancel := s.conn(ctx)
	defer cancel()
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", id).Delete(&ApplicationRecord{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Job{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	return translate(err)
}

func (s *GormStore) ListJobs(ctx context.Context) ([]domain.Job, error) {
	db, cancel := s.conn(ctx)
	defer cancel()
	var jobs []domain.Job
	if err := db.Order("created_at desc").Order("id desc").Find(&jobs).Error; err != nil {
		return nil, translate(err)
	}
	return jobs, nil
}

func (s *GormStore) CreateProgram(ctx context.Context, p *domain.Program) error {
	db, cancel := s.conn(ctx)
	defer cancel()
	return translate(db.Create(p).Error)
}

func (s *GormStore) GetProgram(ctx context.Context, id uint) (*domain.Program, error) {
	db, cancel := s.conn(ctx)
	defer cancel()
	var p domain.Program
	if err := db.First(&p, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *GormStore) UpdateProgram(ctx context.Context, p *domain.Program) error {
	db, cancel := s.conn(ctx)
	defer cancel()
	return updateListing(db, p, p.ID, "school_id")
}

func (s *GormStore) DeleteProgram(ctx context.Context, id uint) error {
	db, cancel := s.conn(ctx)
	defer cancel()
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("program_id = ?", id).Delete(&ApplicationRecord{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Program{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	return translate(err)
}

func (s *GormStore) ListPrograms(ctx context.Context) ([]domain.Program, error) {
	db, cancel := s.conn(ctx)
	defer cancel()
	var programs []domain.Program
	if err := db.Order("created_at desc").Order("id desc").Find(&programs).Error; err != nil {
		return nil, translate(err)
	}
	return programs, nil
}

func (s *GormStore) CreateApplication(ctx context.Context, a *domain.Application) error {
	db, cancel := s.conn(ctx)
	defer cancel()
	rec := newApplicationRecord(a)
	if err := db.Create(&rec).Error; err != nil {
		return translate(err)
	}
	a.ID = rec.ID
	return nil
}

func (s *GormStore) FindApplication(ctx context.Context, studentID uint, target domain.ApplicationTarget) (*domain.Application, error) {
	db, cancel := s.conn(ctx)
	defer cancel()
	column, id := targetColumn(target)
	var rec ApplicationRecord
	if err := db.Where("student_id = ? AND "+column+" = ?", studentID, id).First(&rec).Error; err != nil {
		return nil, translate(err)
	}
	a := rec.toDomain()
	return &a, nil
}

func (s *GormStore) GetApplication(ctx context.Context, id uint) (*domain.Application, error) {
	db, cancel := s.conn(ctx)
	defer cancel()
	var rec ApplicationRecord
	if err := db.First(&rec, id).Error; err != nil {
		return nil, translate(err)
	}
	a := rec.toDomain()
	return &a, nil
}

func (s *GormStore) UpdateApplication(ctx context.Context, a *domain.Application) error {
	db, cancel := s.conn(ctx)
	defer cancel()
	rec := newApplicationRecord(a)
	res := db.Model(&rec).Select("status", "notes", "updated_at").Updates(&rec)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) ListApplicationsByStudent(ctx context.Context, studentID uint) ([]domain.Application, error) {
	db, cancel := s.conn(ctx)
	defer cancel()
	return findApplications(db.Where("student_id = ?", studentID))
}

func (s *GormStore) ListApplicationsByTarget(ctx context.Context, target domain.ApplicationTarget) ([]domain.Application, error) {
	db, cancel := s.conn(ctx)
	defer cancel()
	column, id := targetColumn(target)
	return findApplications(db.Where(column+" = ?", id))
}

func findApplications(q *gorm.DB) ([]domain.Application, error) {
	var recs []ApplicationRecord
	if err := q.Order("applied_at desc").Order("id desc").Find(&recs).Error; err != nil {
		return nil, translate(err)
	}
	out := make([]domain.Application, 0, len(recs))
	for i := range recs {
		out = append(out, recs[i].toDomain())
	}
	return out, nil
}
