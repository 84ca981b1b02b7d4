package store

import (
	"fmt"
	"time"

	"opportunity_hub/internal/domain"

	"gorm.io/gorm"
)

// ApplicationRecord is the persisted form of an application. JobID and
// ProgramID are both nullable; exactly one must be set.
type ApplicationRecord struct {
	ID          uint              `gorm:"primaryKey"`                                                           // Primary key
	StudentID   uint              `gorm:"not null;uniqueIndex:idx_student_job;uniqueIndex:idx_student_program"` // Applicant
	JobID       *uint             `gorm:"uniqueIndex:idx_student_job"`                                          // Target job
	ProgramID   *uint             `gorm:"uniqueIndex:idx_student_program"`                                      // Target program
	Status      string            `gorm:"size:16;not null;default:submitted"`                                   // Review stage
	Documents   []domain.Document `gorm:"serializer:json"`                                                      // Attached documents
	CoverLetter string            `gorm:"type:text"`                                                            // Optional cover letter
	Notes       string            `gorm:"type:text"`                                                            // Reviewer notes
	AppliedAt   time.Time         `gorm:"index"`                                                                // Submission time
	UpdatedAt   time.Time         // Last status change
}

// TableName keeps the table name stable
func (ApplicationRecord) TableName() string { return "applications" }

// Validate rejects rows targeting both a job and a program, or neither
func (r *ApplicationRecord) Validate() error {
	hasJob := r.JobID != nil && *r.JobID != 0
	hasProgram := r.ProgramID != nil && *r.ProgramID != 0
	switch {
	case hasJob && hasProgram:
		return fmt.Errorf("%w: cannot apply to both job and program simultaneously", ErrInvalidEntity)
	case !hasJob && !hasProgram:
		return fmt.Errorf("%w: must apply to either a job or program", ErrInvalidEntity)
	case r.StudentID == 0:
		return fmt.Errorf("%w: student is required", ErrInvalidEntity)
	}
	return nil
}

// BeforeSave runs Validate on every gorm create and update
func (r *ApplicationRecord) BeforeSave(*gorm.DB) error { return r.Validate() }

func newApplicationRecord(a *domain.Application) ApplicationRecord {
	rec := ApplicationRecord{
		ID:          a.ID,
		StudentID:   a.StudentID,
		Status:      string(a.Status),
		Documents:   a.Documents,
		CoverLetter: a.CoverLetter,
		Notes:       a.Notes,
		AppliedAt:   a.AppliedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	if id, ok := a.Target.JobID(); ok {
		rec.JobID = &id
	}
	if id, ok := a.Target.ProgramID(); ok {
		rec.ProgramID = &id
	}
	return rec
}

func (r *ApplicationRecord) toDomain() domain.Application {
	a := domain.Application{
		ID:          r.ID,
		StudentID:   r.StudentID,
		Status:      domain.ApplicationStatus(r.Status),
		Documents:   r.Documents,
		CoverLetter: r.CoverLetter,
		Notes:       r.Notes,
		AppliedAt:   r.AppliedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	switch {
	case r.JobID != nil:
		a.Target = domain.JobTarget(*r.JobID)
	case r.ProgramID != nil:
		a.Target = domain.ProgramTarget(*r.ProgramID)
	}
	return a
}

// targetColumn returns the column and value matching target
func targetColumn(target domain.ApplicationTarget) (string, uint) {
	if id, ok := target.ProgramID(); ok {
		return "program_id", id
	}
	return "job_id", target.ID()
}
