// Package store persists users, profiles, listings and applications.
//
// Two implementations share one contract: GormStore (MySQL or PostgreSQL)
// and MemoryStore. Both enforce the (student, listing) uniqueness of
// applications and the job-xor-program rule at write time, and both run
// cascading deletes as a single unit.
package store

import (
	"context"
	"errors"

	"opportunity_hub/internal/domain"
)

// Store errors. Services translate them into domain errors.
var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicate     = errors.New("duplicate record")
	ErrInvalidEntity = errors.New("invalid entity")
)

// Store is the persistence contract used by the services
type Store interface {
	CreateUser(ctx context.Context, u *domain.User) error
	GetUser(ctx context.Context, id uint) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	// DeleteUser removes the user, its profile and everything the profile owns.
	DeleteUser(ctx context.Context, id uint) error

	GetStudentByUser(ctx context.Context, userID uint) (*domain.Student, error)
	GetSchoolByUser(ctx context.Context, userID uint) (*domain.School, error)
	GetEmployerByUser(ctx context.Context, userID uint) (*domain.Employer, error)
	// Save* insert when ID is zero and update in place otherwise.
	SaveStudent(ctx context.Context, s *domain.Student) error
	SaveSchool(ctx context.Context, s *domain.School) error
	SaveEmployer(ctx context.Context, e *domain.Employer) error
	GetSchools(ctx context.Context, ids []uint) (map[uint]domain.School, error)
	GetEmployers(ctx context.Context, ids []uint) (map[uint]domain.Employer, error)

	CreateJob(ctx context.Context, j *domain.Job) error
	GetJob(ctx context.Context, id uint) (*domain.Job, error)
	UpdateJob(ctx context.Context, j *domain.Job) error
	// DeleteJob removes the job and its applications.
	DeleteJob(ctx context.Context, id uint) error
	// ListJobs returns every job, newest first.
	ListJobs(ctx context.Context) ([]domain.Job, error)

	CreateProgram(ctx context.Context, p *domain.Program) error
	GetProgram(ctx context.Context, id uint) (*domain.Program, error)
	UpdateProgram(ctx context.Context, p *domain.Program) error
	DeleteProgram(ctx context.Context, id uint) error
	ListPrograms(ctx context.Context) ([]domain.Program, error)

	// CreateApplication returns ErrDuplicate when the student already applied
	// to the target and ErrInvalidEntity when the row targets both or neither.
	CreateApplication(ctx context.Context, a *domain.Application) error
	FindApplication(ctx context.Context, studentID uint, target domain.ApplicationTarget) (*domain.Application, error)
	GetApplication(ctx context.Context, id uint) (*domain.Application, error)
	UpdateApplication(ctx context.Context, a *domain.Application) error
	ListApplicationsByStudent(ctx context.Context, studentID uint) ([]domain.Application, error)
	ListApplicationsByTarget(ctx context.Context, target domain.ApplicationTarget) ([]domain.Application, error)

	Close() error
}

var (
	_ Store = (*GormStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
