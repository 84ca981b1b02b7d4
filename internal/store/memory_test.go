package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"opportunity_hub/internal/domain"
	"opportunity_hub/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seeded struct {
	student  *domain.Student
	school   *domain.School
	employer *domain.Employer
	users    map[domain.Role]uint
}

func seed(t *testing.T, m *MemoryStore) seeded {
	t.Helper()
	ctx := context.Background()
	out := seeded{users: map[domain.Role]uint{}}
	for _, role := range []domain.Role{domain.RoleStudent, domain.RoleSchool, domain.RoleEmployer} {
		u := &domain.User{Email: string(role) + "@example.test", Role: role}
		require.NoError(t, m.CreateUser(ctx, u))
		out.users[role] = u.ID
	}
	out.student = testutil.Student(out.users[domain.RoleStudent])
	require.NoError(t, m.SaveStudent(ctx, out.student))
	out.school = testutil.School(out.users[domain.RoleSchool])
	require.NoError(t, m.SaveSchool(ctx, out.school))
	out.employer = testutil.Employer(out.users[domain.RoleEmployer])
	require.NoError(t, m.SaveEmployer(ctx, out.employer))
	return out
}

func TestMemoryStoreCreateUserRejectsDuplicateEmail(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, m.CreateUser(ctx, &domain.User{Email: "a@b.c", Role: domain.RoleStudent}))
	err := m.CreateUser(ctx, &domain.User{Email: "a@b.c", Role: domain.RoleSchool})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestMemoryStoreSaveProfileUpdatesInPlace(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	s := seed(t, m)

	updated := *s.student
	updated.Phone = "+1 555"
	require.NoError(t, m.SaveStudent(ctx, &updated))

	got, err := m.GetStudentByUser(ctx, s.student.UserID)
	require.NoError(t, err)
	assert.Equal(t, s.student.ID, got.ID)
	assert.Equal(t, "+1 555", got.Phone)

	second := testutil.Student(s.student.UserID)
	assert.ErrorIs(t, m.SaveStudent(ctx, second), ErrDuplicate)
}

func TestMemoryStoreListJobsNewestFirst(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	s := seed(t, m)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, title := range []string{"t1", "t2", "t3"} {
		j := testutil.Job(s.employer.ID, title)
		j.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, m.CreateJob(ctx, j))
	}
	jobs, err := m.ListJobs(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 3)
	assert.Equal(t, []string{"t3", "t2", "t1"}, []string{jobs[0].Title, jobs[1].Title, jobs[2].Title})
}

func TestMemoryStoreApplicationUniqueness(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	s := seed(t, m)
	job := testutil.Job(s.employer.ID, "backend")
	require.NoError(t, m.CreateJob(ctx, job))
	program := testutil.Program(s.school.ID, "msc")
	require.NoError(t, m.CreateProgram(ctx, program))

	var wg sync.WaitGroup
	var ok, dup atomic.Int32
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := m.CreateApplication(ctx, &domain.Application{
				StudentID: s.student.ID,
				Target:    domain.JobTarget(job.ID),
				Status:    domain.StatusSubmitted,
				Documents: []domain.Document{{Name: "cv.pdf", URL: "cv.pdf"}},
			})
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, ErrDuplicate):
				dup.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), ok.Load())
	assert.Equal(t, int32(7), dup.Load())

	// the same student may still apply to a program
	require.NoError(t, m.CreateApplication(ctx, &domain.Application{
		StudentID: s.student.ID,
		Target:    domain.ProgramTarget(program.ID),
		Status:    domain.StatusSubmitted,
	}))
}

func TestMemoryStoreRejectsTargetlessApplication(t *testing.T) {
	m := NewMemoryStore()
	err := m.CreateApplication(context.Background(), &domain.Application{StudentID: 1, Status: domain.StatusSubmitted})
	assert.ErrorIs(t, err, ErrInvalidEntity)
}

func TestMemoryStoreRejectsApplicationWithBothTargets(t *testing.T) {
	m := NewMemoryStore()
	jobID, programID := uint(1), uint(2)
	err := m.insertApplication(&ApplicationRecord{StudentID: 1, JobID: &jobID, ProgramID: &programID}, nil)
	assert.ErrorIs(t, err, ErrInvalidEntity)
	assert.Empty(t, m.applications)
}

func TestMemoryStoreDeleteJobCascades(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	s := seed(t, m)
	job := testutil.Job(s.employer.ID, "backend")
	require.NoError(t, m.CreateJob(ctx, job))
	app := &domain.Application{StudentID: s.student.ID, Target: domain.JobTarget(job.ID), Status: domain.StatusSubmitted}
	require.NoError(t, m.CreateApplication(ctx, app))

	require.NoError(t, m.DeleteJob(ctx, job.ID))
	_, err := m.GetApplication(ctx, app.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, m.DeleteJob(ctx, job.ID), ErrNotFound)
}

func TestMemoryStoreDeleteSchoolUserCascades(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	s := seed(t, m)
	p1 := testutil.Program(s.school.ID, "msc")
	p2 := testutil.Program(s.school.ID, "phd")
	require.NoError(t, m.CreateProgram(ctx, p1))
	require.NoError(t, m.CreateProgram(ctx, p2))
	job := testutil.Job(s.employer.ID, "kept")
	require.NoError(t, m.CreateJob(ctx, job))
	a1 := &domain.Application{StudentID: s.student.ID, Target: domain.ProgramTarget(p1.ID), Status: domain.StatusSubmitted}
	a2 := &domain.Application{StudentID: s.student.ID, Target: domain.JobTarget(job.ID), Status: domain.StatusSubmitted}
	require.NoError(t, m.CreateApplication(ctx, a1))
	require.NoError(t, m.CreateApplication(ctx, a2))

	require.NoError(t, m.DeleteUser(ctx, s.users[domain.RoleSchool]))

	_, err := m.GetSchoolByUser(ctx, s.users[domain.RoleSchool])
	assert.ErrorIs(t, err, ErrNotFound)
	programs, err := m.ListPrograms(ctx)
	require.NoError(t, err)
	assert.Empty(t, programs)
	_, err = m.GetApplication(ctx, a1.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.GetApplication(ctx, a2.ID)
	assert.NoError(t, err)
}

func TestMemoryStoreDeleteStudentUserCascades(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	s := seed(t, m)
	job := testutil.Job(s.employer.ID, "backend")
	require.NoError(t, m.CreateJob(ctx, job))
	app := &domain.Application{StudentID: s.student.ID, Target: domain.JobTarget(job.ID), Status: domain.StatusSubmitted}
	require.NoError(t, m.CreateApplication(ctx, app))

	require.NoError(t, m.DeleteUser(ctx, s.users[domain.RoleStudent]))
	apps, err := m.ListApplicationsByTarget(ctx, domain.JobTarget(job.ID))
	require.NoError(t, err)
	assert.Empty(t, apps)
	_, err = m.GetJob(ctx, job.ID)
	assert.NoError(t, err)
}

func TestMemoryStoreUpdateJobKeepsOwner(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	s := seed(t, m)
	job := testutil.Job(s.employer.ID, "backend")
	job.CreatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, m.CreateJob(ctx, job))

	patched := *job
	patched.Title = "platform"
	patched.EmployerID = 999
	patched.CreatedAt = time.Time{}
	require.NoError(t, m.UpdateJob(ctx, &patched))

	got, err := m.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "platform", got.Title)
	assert.Equal(t, s.employer.ID, got.EmployerID)
	assert.Equal(t, job.CreatedAt, got.CreatedAt)

	patched.ID = 4242
	assert.ErrorIs(t, m.UpdateJob(ctx, &patched), ErrNotFound)
}
