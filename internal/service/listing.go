package service

import (
	"context"
	"errors"
	"time"

	"opportunity_hub/internal/domain"
	"opportunity_hub/internal/store"

	"github.com/sirupsen/logrus"
)

// JobInput is the request shape of a job
type JobInput struct {
	Title            string                 `json:"title"`
	Description      string                 `json:"description"`
	Responsibilities []string               `json:"responsibilities"`
	Requirements     domain.JobRequirements `json:"requirements"`
	JobType          string                 `json:"jobType"`
	Location         domain.JobLocation     `json:"location"`
	Salary           domain.Salary          `json:"salary"`
	Deadline         string                 `json:"deadline"`
}

// job converts the input and validates it
func (in JobInput) job() (domain.Job, error) {
	var errs []domain.FieldError
	j := domain.Job{
		Title:            in.Title,
		Description:      in.Description,
		Responsibilities: in.Responsibilities,
		Requirements:     in.Requirements,
		JobType:          in.JobType,
		Location:         in.Location,
		Salary:           in.Salary,
		Deadline:         dateField("deadline", in.Deadline, &errs),
	}
	return j, validateWith(&j, errs)
}

func jobInputOf(j *domain.Job) JobInput {
	return JobInput{
		Title:            j.Title,
		Description:      j.Description,
		Responsibilities: j.Responsibilities,
		Requirements:     j.Requirements,
		JobType:          j.JobType,
		Location:         j.Location,
		Salary:           j.Salary,
		Deadline:         formatDate(j.Deadline),
	}
}

// ProgramInput is the request shape of a program
type ProgramInput struct {
	Title        string                     `json:"title"`
	Description  string                     `json:"description"`
	DegreeType   string                     `json:"degreeType"`
	FieldOfStudy string                     `json:"fieldOfStudy"`
	Duration     domain.Duration            `json:"duration"`
	StudyMode    string                     `json:"studyMode"`
	Tuition      domain.Tuition             `json:"tuition"`
	Scholarships domain.Scholarships        `json:"scholarships"`
	Requirements domain.ProgramRequirements `json:"requirements"`
	Deadline     string                     `json:"deadline"`
	StartDate    string                     `json:"startDate"`
}

// program converts the input and validates it
func (in ProgramInput) program() (domain.Program, error) {
	var errs []domain.FieldError
	p := domain.Program{
		Title:        in.Title,
		Description:  in.Description,
		DegreeType:   in.DegreeType,
		FieldOfStudy: in.FieldOfStudy,
		Duration:     in.Duration,
		StudyMode:    in.StudyMode,
		Tuition:      in.Tuition,
		Scholarships: in.Scholarships,
		Requirements: in.Requirements,
		Deadline:     dateField("deadline", in.Deadline, &errs),
		StartDate:    dateField("startDate", in.StartDate, &errs),
	}
	return p, validateWith(&p, errs)
}

func programInputOf(p *domain.Program) ProgramInput {
	return ProgramInput{
		Title:        p.Title,
		Description:  p.Description,
		DegreeType:   p.DegreeType,
		FieldOfStudy: p.FieldOfStudy,
		Duration:     p.Duration,
		StudyMode:    p.StudyMode,
		Tuition:      p.Tuition,
		Scholarships: p.Scholarships,
		Requirements: p.Requirements,
		Deadline:     formatDate(p.Deadline),
		StartDate:    formatDate(p.StartDate),
	}
}

// ListingService manages jobs and programs. Both kinds follow the same
// rules: only the owning profile's user may change or delete a listing, and
// deleting a listing removes its applications.
type ListingService struct {
	store store.Store
	cache Cache
	now   func() time.Time
}

// NewListingService returns a ListingService
func NewListingService(st store.Store, c Cache) *ListingService {
	return &ListingService{store: st, cache: orNoCache(c), now: time.Now}
}

// employerOf resolves the caller's employer profile
func (s *ListingService) employerOf(ctx context.Context, userID uint) (*domain.Employer, error) {
	e, err := s.store.GetEmployerByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domain.ProfileRequired(domain.RoleEmployer)
		}
		return nil, storeFailure("load employer", err)
	}
	return e, nil
}

// schoolOf resolves the caller's school profile
func (s *ListingService) schoolOf(ctx context.Context, userID uint) (*domain.School, error) {
	sc, err := s.store.GetSchoolByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domain.ProfileRequired(domain.RoleSchool)
		}
		return nil, storeFailure("load school", err)
	}
	return sc, nil
}

// requireOwner fails with Forbidden unless the caller's profile owns the
// listing. A caller without a profile owns nothing.
func requireOwner(profileErr error, profileID, ownerID uint, action string, kind domain.ListingKind) error {
	if profileErr != nil && !errors.Is(profileErr, domain.ErrProfileRequired) {
		return profileErr
	}
	if profileErr != nil || profileID != ownerID {
		return domain.Forbidden("Not authorized to " + action + " this " + string(kind))
	}
	return nil
}

// CreateJob posts a job owned by the caller's employer profile
func (s *ListingService) CreateJob(ctx context.Context, userID uint, in JobInput) (*domain.Job, error) {
	employer, err := s.employerOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	job, err := in.job()
	if err != nil {
		return nil, err
	}
	job.EmployerID = employer.ID
	job.CreatedAt = s.now().UTC()
	if err := s.store.CreateJob(ctx, &job); err != nil {
		return nil, storeFailure("create job", err)
	}
	invalidate(ctx, s.cache, jobsListKey)
	logrus.WithFields(logrus.Fields{
		"job_id":      job.ID,      // New job
		"employer_id": employer.ID, // Owner profile
	}).Info("Job created")
	return &job, nil
}

// UpdateJob applies patch to a job the caller owns
func (s *ListingService) UpdateJob(ctx context.Context, id, userID uint, patch Patch) (*domain.Job, error) {
	existing, err := s.store.GetJob(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Job", "load job")
	}
	employer, perr := s.employerOf(ctx, userID)
	var employerID uint
	if employer != nil {
		employerID = employer.ID
	}
	if err := requireOwner(perr, employerID, existing.EmployerID, "update", domain.KindJob); err != nil {
		return nil, err
	}
	var in JobInput
	if err := applyPatch(jobInputOf(existing), patch, &in); err != nil {
		return nil, err
	}
	job, err := in.job()
	if err != nil {
		return nil, err
	}
	job.ID = existing.ID
	job.EmployerID = existing.EmployerID
	job.CreatedAt = existing.CreatedAt
	if err := s.store.UpdateJob(ctx, &job); err != nil {
		return nil, notFoundOr(err, "Job", "update job")
	}
	invalidate(ctx, s.cache, jobsListKey)
	logrus.WithFields(logrus.Fields{"job_id": job.ID, "user_id": userID}).Info("Job updated")
	return &job, nil
}

// DeleteJob removes a job the caller owns, together with its applications
func (s *ListingService) DeleteJob(ctx context.Context, id, userID uint) error {
	existing, err := s.store.GetJob(ctx, id)
	if err != nil {
		return notFoundOr(err, "Job", "load job")
	}
	employer, perr := s.employerOf(ctx, userID)
	var employerID uint
	if employer != nil {
		employerID = employer.ID
	}
	if err := requireOwner(perr, employerID, existing.EmployerID, "delete", domain.KindJob); err != nil {
		return err
	}
	if err := s.store.DeleteJob(ctx, id); err != nil {
		return notFoundOr(err, "Job", "delete job")
	}
	invalidate(ctx, s.cache, jobsListKey)
	logrus.WithFields(logrus.Fields{"job_id": id, "user_id": userID}).Info("Job deleted")
	return nil
}

// GetJob returns a job with its employer's public profile
func (s *ListingService) GetJob(ctx context.Context, id uint) (*domain.JobDetail, error) {
	job, err := s.store.GetJob(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Job", "load job")
	}
	owners, err := s.store.GetEmployers(ctx, []uint{job.EmployerID})
	if err != nil {
		return nil, storeFailure("load employer", err)
	}
	detail := &domain.JobDetail{Job: *job}
	if e, ok := owners[job.EmployerID]; ok {
		public := e.Public()
		detail.Employer = &public
	}
	return detail, nil
}

// ListJobs returns every job, newest first, with employer summaries
func (s *ListingService) ListJobs(ctx context.Context) ([]domain.JobListItem, error) {
	var cached []domain.JobListItem
	if found, err := s.cache.Get(ctx, jobsListKey, &cached); err == nil && found {
		return cached, nil
	}
	jobs, err := s.store.ListJobs(ctx)
	if err != nil {
		return nil, storeFailure("list jobs", err)
	}
	ids := make([]uint, 0, len(jobs))
	for _, j := range jobs {
		ids = append(ids, j.EmployerID)
	}
	owners, err := s.store.GetEmployers(ctx, ids)
	if err != nil {
		return nil, storeFailure("load employers", err)
	}
	items := make([]domain.JobListItem, 0, len(jobs))
	for _, j := range jobs {
		item := domain.JobListItem{Job: j}
		if e, ok := owners[j.EmployerID]; ok {
			summary := e.Summary()
			item.Employer = &summary
		}
		items = append(items, item)
	}
	if err := s.cache.Set(ctx, jobsListKey, items); err != nil {
		logrus.WithField("error", err.Error()).Warn("Failed to cache job list")
	}
	return items, nil
}

// CreateProgram posts a program owned by the caller's school profile
func (s *ListingService) CreateProgram(ctx context.Context, userID uint, in ProgramInput) (*domain.Program, error) {
	school, err := s.schoolOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	program, err := in.program()
	if err != nil {
		return nil, err
	}
	program.SchoolID = school.ID
	program.CreatedAt = s.now().UTC()
	if err := s.store.CreateProgram(ctx, &program); err != nil {
		return nil, storeFailure("create program", err)
	}
	invalidate(ctx, s.cache, programsListKey)
	logrus.WithFields(logrus.Fields{
		"program_id": program.ID, // New program
		"school_id":  school.ID,  // Owner profile
	}).Info("Program created")
	return &program, nil
}

// UpdateProgram applies patch to a program the caller owns
func (s *ListingService) UpdateProgram(ctx context.Context, id, userID uint, patch Patch) (*domain.Program, error) {
	existing, err := s.store.GetProgram(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Program", "load program")
	}
	school, perr := s.schoolOf(ctx, userID)
	var schoolID uint
	if school != nil {
		schoolID = school.ID
	}
	if err := requireOwner(perr, schoolID, existing.SchoolID, "update", domain.KindProgram); err != nil {
		return nil, err
	}
	var in ProgramInput
	if err := applyPatch(programInputOf(existing), patch, &in); err != nil {
		return nil, err
	}
	program, err := in.program()
	if err != nil {
		return nil, err
	}
	program.ID = existing.ID
	program.SchoolID = existing.SchoolID
	program.CreatedAt = existing.CreatedAt
	if err := s.store.UpdateProgram(ctx, &program); err != nil {
		return nil, notFoundOr(err, "Program", "update program")
	}
	invalidate(ctx, s.cache, programsListKey)
	logrus.WithFields(logrus.Fields{"program_id": program.ID, "user_id": userID}).Info("Program updated")
	return &program, nil
}

// DeleteProgram removes a program the caller owns, together with its applications
func (s *ListingService) DeleteProgram(ctx context.Context, id, userID uint) error {
	existing, err := s.store.GetProgram(ctx, id)
	if err != nil {
		return notFoundOr(err, "Program", "load program")
	}
	school, perr := s.schoolOf(ctx, userID)
	var schoolID uint
	if school != nil {
		schoolID = school.ID
	}
	if err := requireOwner(perr, schoolID, existing.SchoolID, "delete", domain.KindProgram); err != nil {
		return err
	}
	if err := s.store.DeleteProgram(ctx, id); err != nil {
		return notFoundOr(err, "Program", "delete program")
	}
	invalidate(ctx, s.cache, programsListKey)
	logrus.WithFields(logrus.Fields{"program_id": id, "user_id": userID}).Info("Program deleted")
	return nil
}

// GetProgram returns a program with its school's public profile
func (s *ListingService) GetProgram(ctx context.Context, id uint) (*domain.ProgramDetail, error) {
	program, err := s.store.GetProgram(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Program", "load program")
	}
	owners, err := s.store.GetSchools(ctx, []uint{program.SchoolID})
	if err != nil {
		return nil, storeFailure("load school", err)
	}
	detail := &domain.ProgramDetail{Program: *program}
	if sc, ok := owners[program.SchoolID]; ok {
		public := sc.Public()
		detail.School = &public
	}
	return detail, nil
}

// ListPrograms returns every program, newest first, with school summaries
func (s *ListingService) ListPrograms(ctx context.Context) ([]domain.ProgramListItem, error) {
	var cached []domain.ProgramListItem
	if found, err := s.cache.Get(ctx, programsListKey, &cached); err == nil && found {
		return cached, nil
	}
	programs, err := s.store.ListPrograms(ctx)
	if err != nil {
		return nil, storeFailure("list programs", err)
	}
	ids := make([]uint, 0, len(programs))
	for _, p := range programs {
		ids = append(ids, p.SchoolID)
	}
	owners, err := s.store.GetSchools(ctx, ids)
	if err != nil {
		return nil, storeFailure("load schools", err)
	}
	items := make([]domain.ProgramListItem, 0, len(programs))
	for _, p := range programs {
		item := domain.ProgramListItem{Program: p}
		if sc, ok := owners[p.SchoolID]; ok {
			summary := sc.Summary()
			item.School = &summary
		}
		items = append(items, item)
	}
	if err := s.cache.Set(ctx, programsListKey, items); err != nil {
		logrus.WithField("error", err.Error()).Warn("Failed to cache program list")
	}
	return items, nil
}
