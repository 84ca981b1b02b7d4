package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func params(t *testing.T, err error) []string {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected *ValidationError, got %v", err)
	out := make([]string, 0, len(verr.Errors))
	for _, fe := range verr.Errors {
		out = append(out, fe.Param)
	}
	return out
}

func TestValidateStudent(t *testing.T) {
	s := Student{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Phone:        "+44 20 0000",
		Country:      "UK",
		Nationality:  "British",
		Interests:    []string{"math"},
		Languages:    []string{"en"},
		Availability: AvailabilityImmediate,
		Education:    []Education{{Degree: "BSc", Institution: "UCL", Year: 1835}},
	}
	require.NoError(t, Validate(&s))

	s.FirstName = ""
	s.Interests = nil
	s.Availability = "someday"
	s.Education[0].Year = 0
	got := params(t, Validate(&s))
	assert.ElementsMatch(t, []string{"firstName", "interests", "availability", "education[0].year"}, got)
}

func TestValidateEmployerContactEmail(t *testing.T) {
	e := Employer{
		CompanyName: "Acme",
		Description: "Widgets",
		Industry:    []string{"manufacturing"},
		JobTypes:    []string{"CDI", "Gig"},
		Contact:     EmployerContact{Name: "Bo", Position: "HR", Email: "not-an-email", Phone: "1"},
	}
	got := params(t, Validate(&e))
	assert.ElementsMatch(t, []string{"jobTypes[1]", "contact.email"}, got)
}

func TestValidationMessages(t *testing.T) {
	err := Validate(&Job{})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	msgs := map[string]string{}
	for _, fe := range verr.Errors {
		msgs[fe.Param] = fe.Msg
	}
	assert.Equal(t, "title is required", msgs["title"])
	assert.Equal(t, "requirements.education is required", msgs["requirements.education"])
	assert.Contains(t, msgs["jobType"], "must be one of: CDI, CDD")
	assert.Contains(t, msgs, "deadline")
	assert.Contains(t, msgs, "responsibilities")
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-12-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2025-12-01T10:30:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 12, 1, 8, 30, 0, 0, time.UTC), d)

	_, err = ParseDate("01/12/2025")
	assert.Error(t, err)
}

func TestErrorKinds(t *testing.T) {
	err := NotFound("Job")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "Job not found", err.Error())

	err = ProfileRequired(RoleEmployer)
	assert.True(t, errors.Is(err, ErrProfileRequired))
	assert.Equal(t, "Employer profile not found", err.Error())

	err = DuplicateApplication(KindProgram)
	assert.True(t, errors.Is(err, ErrDuplicateApplication))
	assert.False(t, errors.Is(err, ErrNotFound))

	cause := errors.New("connection reset")
	serr := &StoreError{Op: "create job", Err: cause}
	assert.ErrorIs(t, serr, cause)
}
