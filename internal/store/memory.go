package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"opportunity_hub/internal/domain"
)

// MemoryStore implements Store in process memory. A single lock serialises
// writes, which makes every cascade atomic and the uniqueness check race free.
type MemoryStore struct {
	mu sync.RWMutex

	nextID       uint
	users        map[uint]domain.User
	students     map[uint]domain.Student
	schools      map[uint]domain.School
	employers    map[uint]domain.Employer
	jobs         map[uint]domain.Job
	programs     map[uint]domain.Program
	applications map[uint]ApplicationRecord
}

// NewMemoryStore returns an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:        map[uint]domain.User{},
		students:     map[uint]domain.Student{},
		schools:      map[uint]domain.School{},
		employers:    map[uint]domain.Employer{},
		jobs:         map[uint]domain.Job{},
		programs:     map[uint]domain.Program{},
		applications: map[uint]ApplicationRecord{},
	}
}

func (m *MemoryStore) id() uint {
	m.nextID++
	return m.nextID
}

// Close is a no-op
func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) CreateUser(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return fmt.Errorf("%w: email", ErrDuplicate)
		}
	}
	u.ID = m.id()
	m.users[u.ID] = *u
	return nil
}

func (m *MemoryStore) GetUser(_ context.Context, id uint) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *MemoryStore) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) DeleteUser(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return ErrNotFound
	}
	for sid, s := range m.students {
		if s.UserID == id {
			m.deleteApplicationsWhere(func(r ApplicationRecord) bool { return r.StudentID == sid })
			delete(m.students, sid)
		}
	}
	for sid, s := range m.schools {
		if s.UserID != id {
			continue
		}
		for pid, p := range m.programs {
			if p.SchoolID == sid {
				m.deleteProgram(pid)
			}
		}
		delete(m.schools, sid)
	}
	for eid, e := range m.employers {
		if e.UserID != id {
			continue
		}
		for jid, j := range m.jobs {
			if j.EmployerID == eid {
				m.deleteJob(jid)
			}
		}
		delete(m.employers, eid)
	}
	delete(m.users, id)
	return nil
}

func (m *MemoryStore) GetStudentByUser(_ context.Context, userID uint) (*domain.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.students {
		if s.UserID == userID {
			return &s, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) GetSchoolByUser(_ context.Context, userID uint) (*domain.School, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.schools {
		if s.UserID == userID {
			return &s, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) GetEmployerByUser(_ context.Context, userID uint) (*domain.Employer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.employers {
		if e.UserID == userID {
			return &e, nil
		}
	}
	return nil, ErrNotFound
}

// saveByUser implements the insert-or-update contract shared by the profiles
func saveByUser[T any](m *MemoryStore, rows map[uint]T, v *T, id *uint, userID func(T) uint) error {
	if *id == 0 {
		for _, existing := range rows {
			if userID(existing) == userID(*v) {
				return fmt.Errorf("%w: profile for user", ErrDuplicate)
			}
		}
		*id = m.id()
		rows[*id] = *v
		return nil
	}
	existing, ok := rows[*id]
	if !ok {
		return ErrNotFound
	}
	if userID(existing) != userID(*v) {
		return fmt.Errorf("%w: profile owner cannot change", ErrInvalidEntity)
	}
	rows[*id] = *v
	return nil
}

func (m *MemoryStore) SaveStudent(_ context.Context, s *domain.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return saveByUser(m, m.students, s, &s.ID, func(v domain.Student) uint { return v.UserID })
}

func (m *MemoryStore) SaveSchool(_ context.Context, s *domain.School) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return saveByUser(m, m.schools, s, &s.ID, func(v domain.School) uint { return v.UserID })
}

func (m *MemoryStore) SaveEmployer(_ context.Context, e *domain.Employer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return saveByUser(m, m.employers, e, &e.ID, func(v domain.Employer) uint { return v.UserID })
}

func (m *MemoryStore) GetSchools(_ context.Context, ids []uint) (map[uint]domain.School, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[uint]domain.School, len(ids))
	for _, id := range ids {
		if s, ok := m.schools[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

func (m *MemoryStore) GetEmployers(_ context.Context, ids []uint) (map[uint]domain.Employer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[uint]domain.Employer, len(ids))
	for _, id := range ids {
		if e, ok := m.employers[id]; ok {
			out[id] = e
		}
	}
	return out, nil
}

func (m *MemoryStore) CreateJob(_ context.Context, j *domain.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.employers[j.EmployerID]; !ok {
		return fmt.Errorf("%w: unknown employer %d", ErrInvalidEntity, j.EmployerID)
	}
	j.ID = m.id()
	m.jobs[j.ID] = *j
	return nil
}

func (m *MemoryStore) GetJob(_ context.Context, id uint) (*domain.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &j, nil
}

func (m *MemoryStore) UpdateJob(_ context.Context, j *domain.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.jobs[j.ID]
	if !ok {
		return ErrNotFound
	}
	updated := *j
	updated.EmployerID = existing.EmployerID
	updated.CreatedAt = existing.CreatedAt
	m.jobs[j.ID] = updated
	return nil
}

func (m *MemoryStore) DeleteJob(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[id]; !ok {
		return ErrNotFound
	}
	m.deleteJob(id)
	return nil
}

// deleteJob removes a job and its applications. Callers hold the lock.
func (m *MemoryStore) deleteJob(id uint) {
	m.deleteApplicationsWhere(func(r ApplicationRecord) bool { return r.JobID != nil && *r.JobID == id })
	delete(m.jobs, id)
}

func (m *MemoryStore) ListJobs(_ context.Context) ([]domain.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Job, 0, len(m.jobs))
	for _, j := range m.jobs {
		out = append(out, j)
	}
	sort.Slice(out, func(a, b int) bool {
		if !out[a].CreatedAt.Equal(out[b].CreatedAt) {
			return out[a].CreatedAt.After(out[b].CreatedAt)
		}
		return out[a].ID > out[b].ID
	})
	return out, nil
}

func (m *MemoryStore) CreateProgram(_ context.Context, p *domain.Program) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.schools[p.SchoolID]; !ok {
		return fmt.Errorf("%w: unknown school %d", ErrInvalidEntity, p.SchoolID)
	}
	p.ID = m.id()
	m.programs[p.ID] = *p
	return nil
}

func (m *MemoryStore) GetProgram(_ context.Context, id uint) (*domain.Program, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.programs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *MemoryStore) UpdateProgram(_ context.Context, p *domain.Program) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.programs[p.ID]
	if !ok {
		return ErrNotFound
	}
	updated := *p
	updated.SchoolID = existing.SchoolID
	updated.CreatedAt = existing.CreatedAt
	m.programs[p.ID] = updated
	return nil
}

func (m *MemoryStore) DeleteProgram(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.programs[id]; !ok {
		return ErrNotFound
	}
	m.deleteProgram(id)
	return nil
}

// deleteProgram removes a program and its applications. Callers hold the lock.
func (m *MemoryStore) deleteProgram(id uint) {
	m.deleteApplicationsWhere(func(r ApplicationRecord) bool { return r.ProgramID != nil && *r.ProgramID == id })
	delete(m.programs, id)
}

func (m *MemoryStore) ListPrograms(_ context.Context) ([]domain.Program, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Program, 0, len(m.programs))
	for _, p := range m.programs {
		out = append(out, p)
	}
	sort.Slice(out, func(a, b int) bool {
		if !out[a].CreatedAt.Equal(out[b].CreatedAt) {
			return out[a].CreatedAt.After(out[b].CreatedAt)
		}
		return out[a].ID > out[b].ID
	})
	return out, nil
}

func (m *MemoryStore) CreateApplication(_ context.Context, a *domain.Application) error {
	rec := newApplicationRecord(a)
	return m.insertApplication(&rec, a)
}

// insertApplication validates and stores a row, enforcing the same unique
// keys as the SQL schema
func (m *MemoryStore) insertApplication(rec *ApplicationRecord, a *domain.Application) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.applications {
		if existing.StudentID != rec.StudentID {
			continue
		}
		if sameID(existing.JobID, rec.JobID) || sameID(existing.ProgramID, rec.ProgramID) {
			return fmt.Errorf("%w: application", ErrDuplicate)
		}
	}
	rec.ID = m.id()
	m.applications[rec.ID] = *rec
	if a != nil {
		a.ID = rec.ID
	}
	return nil
}

func sameID(a, b *uint) bool {
	return a != nil && b != nil && *a == *b
}

func (m *MemoryStore) FindApplication(_ context.Context, studentID uint, target domain.ApplicationTarget) (*domain.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.applications {
		if r.StudentID == studentID && recordTargets(r, target) {
			a := r.toDomain()
			return &a, nil
		}
	}
	return nil, ErrNotFound
}

func recordTargets(r ApplicationRecord, target domain.ApplicationTarget) bool {
	if id, ok := target.JobID(); ok {
		return r.JobID != nil && *r.JobID == id
	}
	if id, ok := target.ProgramID(); ok {
		return r.ProgramID != nil && *r.ProgramID == id
	}
	return false
}

func (m *MemoryStore) GetApplication(_ context.Context, id uint) (*domain.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.applications[id]
	if !ok {
		return nil, ErrNotFound
	}
	a := r.toDomain()
	return &a, nil
}

func (m *MemoryStore) UpdateApplication(_ context.Context, a *domain.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.applications[a.ID]
	if !ok {
		return ErrNotFound
	}
	r.Status = string(a.Status)
	r.Notes = a.Notes
	r.UpdatedAt = a.UpdatedAt
	m.applications[a.ID] = r
	return nil
}

func (m *MemoryStore) ListApplicationsByStudent(_ context.Context, studentID uint) ([]domain.Application, error) {
	return m.listApplications(func(r ApplicationRecord) bool { return r.StudentID == studentID }), nil
}

func (m *MemoryStore) ListApplicationsByTarget(_ context.Context, target domain.ApplicationTarget) ([]domain.Application, error) {
	return m.listApplications(func(r ApplicationRecord) bool { return recordTargets(r, target) }), nil
}

func (m *MemoryStore) listApplications(match func(ApplicationRecord) bool) []domain.Application {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []domain.Application{}
	for _, r := range m.applications {
		if match(r) {
			out = append(out, r.toDomain())
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if !out[a].AppliedAt.Equal(out[b].AppliedAt) {
			return out[a].AppliedAt.After(out[b].AppliedAt)
		}
		return out[a].ID > out[b].ID
	})
	return out
}

// deleteApplicationsWhere removes matching rows. Callers hold the lock.
func (m *MemoryStore) deleteApplicationsWhere(match func(ApplicationRecord) bool) {
	for id, r := range m.applications {
		if match(r) {
			delete(m.applications, id)
		}
	}
}
