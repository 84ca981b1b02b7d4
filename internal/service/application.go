package service

import (
	"context"
	"errors"
	"time"

	"opportunity_hub/internal/domain"
	"opportunity_hub/internal/store"

	"github.com/sirupsen/logrus"
)

// ApplicationService submits applications and moves them through review
type ApplicationService struct {
	store store.Store
	now   func() time.Time
}

// NewApplicationService returns an ApplicationService
func NewApplicationService(st store.Store) *ApplicationService {
	return &ApplicationService{store: st, now: time.Now}
}

// ApplyInput is the request body of an application
type ApplyInput struct {
	Documents   []domain.Document `json:"documents"`
	CoverLetter string            `json:"coverLetter"`
}

// ownerProfileID returns the id of the profile that owns target
func (s *ApplicationService) ownerProfileID(ctx context.Context, target domain.ApplicationTarget) (uint, error) {
	switch target.Kind() {
	case domain.KindJob:
		j, err := s.store.GetJob(ctx, target.ID())
		if err != nil {
			return 0, notFoundOr(err, "Job", "load job")
		}
		return j.EmployerID, nil
	case domain.KindProgram:
		p, err := s.store.GetProgram(ctx, target.ID())
		if err != nil {
			return 0, notFoundOr(err, "Program", "load program")
		}
		return p.SchoolID, nil
	}
	return 0, domain.NotFound("Listing")
}

// callerProfileID returns the id of the caller's profile of the role that
// owns listings of kind. Zero means the caller has none.
func (s *ApplicationService) callerProfileID(ctx context.Context, kind domain.ListingKind, userID uint) (uint, error) {
	var (
		id  uint
		err error
	)
	switch kind {
	case domain.KindJob:
		var e *domain.Employer
		if e, err = s.store.GetEmployerByUser(ctx, userID); err == nil {
			id = e.ID
		}
	case domain.KindProgram:
		var sc *domain.School
		if sc, err = s.store.GetSchoolByUser(ctx, userID); err == nil {
			id = sc.ID
		}
	}
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return 0, storeFailure("load profile", err)
	}
	return id, nil
}

// Apply submits the caller's application to target
func (s *ApplicationService) Apply(ctx context.Context, userID uint, target domain.ApplicationTarget, in ApplyInput) (*domain.Application, error) {
	if target.IsZero() {
		return nil, domain.NotFound("Listing")
	}
	if _, err := s.ownerProfileID(ctx, target); err != nil {
		return nil, err
	}

	student, err := s.store.GetStudentByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domain.ProfileRequired(domain.RoleStudent)
		}
		return nil, storeFailure("load student", err)
	}

	_, err = s.store.FindApplication(ctx, student.ID, target)
	if err == nil {
		return nil, domain.DuplicateApplication(target.Kind())
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, storeFailure("find application", err)
	}

	if len(in.Documents) == 0 {
		return nil, domain.Invalid("documents", "At least one document is required")
	}
	for _, d := range in.Documents {
		if d.Name == "" {
			return nil, domain.Invalid("documents", "Document name is required")
		}
	}

	now := s.now().UTC()
	app := &domain.Application{
		StudentID:   student.ID,
		Target:      target,
		Status:      domain.StatusSubmitted,
		Documents:   in.Documents,
		CoverLetter: in.CoverLetter,
		AppliedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateApplication(ctx, app); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, domain.DuplicateApplication(target.Kind()) // Lost a concurrent race
		}
		return nil, storeFailure("create application", err)
	}
	logrus.WithFields(logrus.Fields{
		"application_id": app.ID,        // New application
		"student_id":     student.ID,    // Applicant profile
		"target":         target.Kind(), // job or program
		"target_id":      target.ID(),   // Listing id
	}).Info("Application submitted")
	return app, nil
}

// TransitionInput is the request body of a status change
type TransitionInput struct {
	Status domain.ApplicationStatus `json:"status"`
	Notes  *string                  `json:"notes"`
}

// Transition moves an application to a new status. Only the owner of the
// targeted listing may do so.
func (s *ApplicationService) Transition(ctx context.Context, userID, appID uint, in TransitionInput) (*domain.Application, error) {
	if !in.Status.Valid() {
		return nil, domain.Invalid("status", "Invalid status")
	}
	app, err := s.store.GetApplication(ctx, appID)
	if err != nil {
		return nil, notFoundOr(err, "Application", "load application")
	}
	ownerID, err := s.ownerProfileID(ctx, app.Target)
	if err != nil {
		return nil, err
	}
	callerID, err := s.callerProfileID(ctx, app.Target.Kind(), userID)
	if err != nil {
		return nil, err
	}
	if callerID == 0 || callerID != ownerID {
		return nil, domain.Forbidden("Not authorized to review this application")
	}
	if !app.Status.CanTransition(in.Status) {
		return nil, domain.Invalid("status", "Cannot move application from "+string(app.Status)+" to "+string(in.Status))
	}

	from := app.Status
	app.Status = in.Status
	if in.Notes != nil {
		app.Notes = *in.Notes
	}
	app.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateApplication(ctx, app); err != nil {
		return nil, notFoundOr(err, "Application", "update application")
	}
	logrus.WithFields(logrus.Fields{
		"application_id": app.ID,
		"from":           from,
		"to":             app.Status,
		"user_id":        userID,
	}).Info("Application status changed")
	return app, nil
}

// ListForStudent returns the caller's applications, newest first
func (s *ApplicationService) ListForStudent(ctx context.Context, userID uint) ([]domain.Application, error) {
	student, err := s.store.GetStudentByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domain.ProfileRequired(domain.RoleStudent)
		}
		return nil, storeFailure("load student", err)
	}
	apps, err := s.store.ListApplicationsByStudent(ctx, student.ID)
	if err != nil {
		return nil, storeFailure("list applications", err)
	}
	return apps, nil
}

// ListForListing returns the applications of a listing the caller owns,
// newest first
func (s *ApplicationService) ListForListing(ctx context.Context, userID uint, target domain.ApplicationTarget) ([]domain.Application, error) {
	if target.IsZero() {
		return nil, domain.NotFound("Listing")
	}
	ownerID, err := s.ownerProfileID(ctx, target)
	if err != nil {
		return nil, err
	}
	callerID, err := s.callerProfileID(ctx, target.Kind(), userID)
	if err != nil {
		return nil, err
	}
	if callerID == 0 || callerID != ownerID {
		return nil, domain.Forbidden("Not authorized to view these applications")
	}
	apps, err := s.store.ListApplicationsByTarget(ctx, target)
	if err != nil {
		return nil, storeFailure("list applications", err)
	}
	return apps, nil
}
