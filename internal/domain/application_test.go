package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicationStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to ApplicationStatus
		allowed  bool
	}{
		{StatusSubmitted, StatusUnderReview, true},
		{StatusSubmitted, StatusRejected, true},
		{StatusSubmitted, StatusInterview, false},
		{StatusSubmitted, StatusAccepted, false},
		{StatusUnderReview, StatusInterview, true},
		{StatusUnderReview, StatusSubmitted, false},
		{StatusInterview, StatusAccepted, true},
		{StatusInterview, StatusRejected, true},
		{StatusAccepted, StatusRejected, false},
		{StatusRejected, StatusUnderReview, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransition(tt.to))
		})
	}
	assert.True(t, StatusAccepted.Terminal())
	assert.True(t, StatusRejected.Terminal())
	assert.False(t, StatusInterview.Terminal())
	assert.False(t, ApplicationStatus("hired").Valid())
}

func TestApplicationTarget(t *testing.T) {
	job := JobTarget(7)
	id, ok := job.JobID()
	assert.True(t, ok)
	assert.Equal(t, uint(7), id)
	_, ok = job.ProgramID()
	assert.False(t, ok)

	program := TargetOf(KindProgram, 3)
	assert.Equal(t, KindProgram, program.Kind())
	_, ok = program.JobID()
	assert.False(t, ok)

	assert.True(t, ApplicationTarget{}.IsZero())
	assert.True(t, JobTarget(0).IsZero())
}

func TestDocumentUnmarshal(t *testing.T) {
	var docs []Document
	require.NoError(t, json.Unmarshal([]byte(`["cv.pdf", {"name": "Transcript", "url": "https://files/t.pdf"}]`), &docs))
	require.Len(t, docs, 2)
	assert.Equal(t, Document{Name: "cv.pdf", URL: "cv.pdf"}, docs[0])
	assert.Equal(t, Document{Name: "Transcript", URL: "https://files/t.pdf"}, docs[1])

	var bad Document
	assert.Error(t, json.Unmarshal([]byte(`42`), &bad))
}

func TestApplicationMarshalSetsOneTarget(t *testing.T) {
	b, err := json.Marshal(Application{ID: 1, StudentID: 2, Target: ProgramTarget(9), Status: StatusSubmitted})
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, float64(9), out["program"])
	assert.NotContains(t, out, "job")
	assert.Equal(t, "submitted", out["status"])
}
