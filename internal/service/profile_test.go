package service

import (
	"context"
	"encoding/json"
	"testing"

	"opportunity_hub/internal/domain"
	"opportunity_hub/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertCreatesThenUpdatesInPlace(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	id := e.user(t, "s@uni.test", domain.RoleStudent)

	created, err := e.profiles.Upsert(ctx, id, domain.StudentProfile(testutil.Student(0)))
	require.NoError(t, err)
	first, _ := created.Student()
	assert.Equal(t, id.UserID, first.UserID)

	changed := testutil.Student(0)
	changed.Phone = "+1 555 0100"
	updated, err := e.profiles.Upsert(ctx, id, domain.StudentProfile(changed))
	require.NoError(t, err)
	second, _ := updated.Student()
	assert.Equal(t, first.ID, second.ID)

	stored, err := e.store.GetStudentByUser(ctx, id.UserID)
	require.NoError(t, err)
	assert.Equal(t, "+1 555 0100", stored.Phone)
}

func TestUpsertRejectsRoleMismatch(t *testing.T) {
	e := newEnv(t)
	id := e.user(t, "s@uni.test", domain.RoleStudent)
	_, err := e.profiles.Upsert(context.Background(), id, domain.EmployerProfile(testutil.Employer(0)))
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpsertValidatesStudent(t *testing.T) {
	e := newEnv(t)
	id := e.user(t, "s@uni.test", domain.RoleStudent)
	bad := testutil.Student(0)
	bad.Interests = nil
	bad.Availability = "someday"

	_, err := e.profiles.Upsert(context.Background(), id, domain.StudentProfile(bad))
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	params := map[string]bool{}
	for _, fe := range verr.Errors {
		params[fe.Param] = true
	}
	assert.True(t, params["interests"])
	assert.True(t, params["availability"])
}

func TestEmployerUpsertInvalidatesJobList(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	emp := e.employer(t, "e@acme.test")
	_, err := e.listings.ListJobs(ctx)
	require.NoError(t, err)
	require.True(t, e.cache.has(jobsListKey))

	_, err = e.profiles.Upsert(ctx, emp, domain.EmployerProfile(testutil.Employer(0)))
	require.NoError(t, err)
	assert.False(t, e.cache.has(jobsListKey))
}

func TestMeReturnsProfileWithUser(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	sch := e.school(t, "s@school.test")

	view, err := e.profiles.Me(ctx, sch)
	require.NoError(t, err)
	raw, err := json.Marshal(view)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "Ecole Polytechnique", body["name"])
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "s@school.test", user["email"])
	assert.Equal(t, "school", user["role"])
}

func TestMeWithoutProfile(t *testing.T) {
	e := newEnv(t)
	id := e.user(t, "bare@uni.test", domain.RoleStudent)
	_, err := e.profiles.Me(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrProfileRequired)
	assert.EqualError(t, err, "There is no profile for this user")
}
