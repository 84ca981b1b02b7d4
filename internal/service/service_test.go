package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"opportunity_hub/internal/domain"
	"opportunity_hub/internal/store"
	"opportunity_hub/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memCache is a Cache kept in a map, recording deletions
type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	deleted []string
}

func newMemCache() *memCache { return &memCache{entries: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memCache) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = raw
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
		c.deleted = append(c.deleted, k)
	}
	return nil
}

func (c *memCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

// env wires every service over one MemoryStore
type env struct {
	store    *store.MemoryStore
	cache    *memCache
	profiles *ProfileService
	listings *ListingService
	apps     *ApplicationService
	accounts *AccountService
	clock    time.Time
}

func newEnv(t *testing.T) *env {
	t.Helper()
	st := store.NewMemoryStore()
	c := newMemCache()
	e := &env{
		store:    st,
		cache:    c,
		profiles: NewProfileService(st, c),
		listings: NewListingService(st, c),
		apps:     NewApplicationService(st),
		accounts: NewAccountService(st, c, stubIssuer{}),
		clock:    time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
	}
	// Each call advances one minute so creation order is observable
	var mu sync.Mutex
	tick := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		e.clock = e.clock.Add(time.Minute)
		return e.clock
	}
	e.listings.now = tick
	e.apps.now = tick
	return e
}

type stubIssuer struct{}

func (stubIssuer) Issue(userID uint, role domain.Role) (string, error) {
	return string(role) + "-token", nil
}

// user creates an account and returns its identity
func (e *env) user(t *testing.T, email string, role domain.Role) domain.Identity {
	t.Helper()
	u := &domain.User{Email: email, Password: "x", Role: role}
	require.NoError(t, e.store.CreateUser(context.Background(), u))
	return domain.Identity{UserID: u.ID, Role: role}
}

func (e *env) employer(t *testing.T, email string) domain.Identity {
	t.Helper()
	id := e.user(t, email, domain.RoleEmployer)
	_, err := e.profiles.Upsert(context.Background(), id, domain.EmployerProfile(testutil.Employer(id.UserID)))
	require.NoError(t, err)
	return id
}

func (e *env) school(t *testing.T, email string) domain.Identity {
	t.Helper()
	id := e.user(t, email, domain.RoleSchool)
	_, err := e.profiles.Upsert(context.Background(), id, domain.SchoolProfile(testutil.School(id.UserID)))
	require.NoError(t, err)
	return id
}

func (e *env) student(t *testing.T, email string) domain.Identity {
	t.Helper()
	id := e.user(t, email, domain.RoleStudent)
	_, err := e.profiles.Upsert(context.Background(), id, domain.StudentProfile(testutil.Student(id.UserID)))
	require.NoError(t, err)
	return id
}

func jobInput(title string) JobInput {
	in := jobInputOf(testutil.Job(0, title))
	in.Deadline = "2025-12-01"
	return in
}

func programInput(title string) ProgramInput {
	in := programInputOf(testutil.Program(0, title))
	in.Deadline = "2025-12-01"
	in.StartDate = "2026-09-01"
	return in
}

func TestApplyPatchIgnoresProtectedKeys(t *testing.T) {
	base := map[string]any{"id": 1, "title": "old", "owner": 5}
	patch := Patch{
		"title": json.RawMessage(`"new"`),
		"owner": json.RawMessage(`9`),
	}
	var out map[string]any
	require.NoError(t, applyPatch(base, patch, &out, "owner"))
	assert.Equal(t, "new", out["title"])
	assert.EqualValues(t, 5, out["owner"])
	assert.EqualValues(t, 1, out["id"])
}

func TestApplyPatchRejectsMismatchedTypes(t *testing.T) {
	var in JobInput
	err := applyPatch(jobInput("Backend"), Patch{"title": json.RawMessage(`42`)}, &in)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "body", verr.Errors[0].Param)
}

func TestValidateWithKeepsDateErrorOverStructError(t *testing.T) {
	var errs []domain.FieldError
	j := domain.Job{Deadline: dateField("deadline", "not a date", &errs)}
	err := validateWith(&j, errs)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	var deadline []string
	for _, fe := range verr.Errors {
		if fe.Param == "deadline" {
			deadline = append(deadline, fe.Msg)
		}
	}
	assert.Equal(t, []string{"deadline must be a valid date"}, deadline)
}
