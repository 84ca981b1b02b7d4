package store

import (
	"testing"

	"opportunity_hub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v uint) *uint { return &v }

func TestApplicationRecordValidate(t *testing.T) {
	tests := []struct {
		name    string
		rec     ApplicationRecord
		wantErr bool
	}{
		{"job only", ApplicationRecord{StudentID: 1, JobID: ptr(2)}, false},
		{"program only", ApplicationRecord{StudentID: 1, ProgramID: ptr(3)}, false},
		{"both", ApplicationRecord{StudentID: 1, JobID: ptr(2), ProgramID: ptr(3)}, true},
		{"neither", ApplicationRecord{StudentID: 1}, true},
		{"zero ids count as unset", ApplicationRecord{StudentID: 1, JobID: ptr(0)}, true},
		{"no student", ApplicationRecord{JobID: ptr(2)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rec.BeforeSave(nil)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidEntity)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestApplicationRecordRoundTrip(t *testing.T) {
	a := domain.Application{
		ID:        5,
		StudentID: 1,
		Target:    domain.ProgramTarget(9),
		Status:    domain.StatusInterview,
		Documents: []domain.Document{{Name: "cv", URL: "https://cv"}},
		Notes:     "strong",
	}
	rec := newApplicationRecord(&a)
	assert.Nil(t, rec.JobID)
	require.NotNil(t, rec.ProgramID)
	assert.Equal(t, uint(9), *rec.ProgramID)
	assert.Equal(t, a, rec.toDomain())
}

func TestTargetColumn(t *testing.T) {
	col, id := targetColumn(domain.JobTarget(4))
	assert.Equal(t, "job_id", col)
	assert.Equal(t, uint(4), id)
	col, id = targetColumn(domain.ProgramTarget(6))
	assert.Equal(t, "program_id", col)
	assert.Equal(t, uint(6), id)
}
