package domain

import (
	"encoding/json"
	"time"
)

// ApplicationStatus is the review stage of an application
type ApplicationStatus string

// Application statuses, in review order
const (
	StatusSubmitted   ApplicationStatus = "submitted"
	StatusUnderReview ApplicationStatus = "under_review"
	StatusInterview   ApplicationStatus = "interview"
	StatusAccepted    ApplicationStatus = "accepted"
	StatusRejected    ApplicationStatus = "rejected"
)

// transitions lists the statuses reachable from each non-terminal status
var transitions = map[ApplicationStatus][]ApplicationStatus{
	StatusSubmitted:   {StatusUnderReview, StatusRejected},
	StatusUnderReview: {StatusInterview, StatusRejected},
	StatusInterview:   {StatusAccepted, StatusRejected},
}

// Valid reports whether s is a known status
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusSubmitted, StatusUnderReview, StatusInterview, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible
func (s ApplicationStatus) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// CanTransition reports whether an application may move from s to next
func (s ApplicationStatus) CanTransition(next ApplicationStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ApplicationTarget is the single listing an application refers to.
// Build it with JobTarget or ProgramTarget; the zero value targets nothing.
type ApplicationTarget struct {
	kind ListingKind
	id   uint
}

// JobTarget targets a job
func JobTarget(id uint) ApplicationTarget { return ApplicationTarget{kind: KindJob, id: id} }

// ProgramTarget targets a program
func ProgramTarget(id uint) ApplicationTarget { return ApplicationTarget{kind: KindProgram, id: id} }

// TargetOf builds the target for a listing kind
func TargetOf(kind ListingKind, id uint) ApplicationTarget {
	if kind == KindProgram {
		return ProgramTarget(id)
	}
	return JobTarget(id)
}

// Kind returns job or program
func (t ApplicationTarget) Kind() ListingKind { return t.kind }

// ID returns the listing id
func (t ApplicationTarget) ID() uint { return t.id }

// IsZero reports whether the target is unset
func (t ApplicationTarget) IsZero() bool { return t.kind == "" || t.id == 0 }

// JobID returns the job id when the target is a job
func (t ApplicationTarget) JobID() (uint, bool) {
	return t.id, t.kind == KindJob && t.id != 0
}

// ProgramID returns the program id when the target is a program
func (t ApplicationTarget) ProgramID() (uint, bool) {
	return t.id, t.kind == KindProgram && t.id != 0
}

// Document is a file attached to an application. URLs are opaque.
type Document struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// UnmarshalJSON accepts either {"name","url"} or a bare string, which is used
// as both name and url.
func (d *Document) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*d = Document{Name: s, URL: s}
		return nil
	}
	type plain Document
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*d = Document(p)
	return nil
}

// Application is a student's application to one job or program
type Application struct {
	ID          uint
	StudentID   uint
	Target      ApplicationTarget
	Status      ApplicationStatus
	Documents   []Document
	CoverLetter string
	Notes       string
	AppliedAt   time.Time
	UpdatedAt   time.Time
}

// MarshalJSON sets exactly one of job or program
func (a Application) MarshalJSON() ([]byte, error) {
	out := struct {
		ID          uint              `json:"id"`
		StudentID   uint              `json:"student"`
		JobID       *uint             `json:"job,omitempty"`
		ProgramID   *uint             `json:"program,omitempty"`
		Status      ApplicationStatus `json:"status"`
		Documents   []Document        `json:"documents"`
		CoverLetter string            `json:"coverLetter,omitempty"`
		Notes       string            `json:"notes,omitempty"`
		AppliedAt   time.Time         `json:"appliedAt"`
		UpdatedAt   time.Time         `json:"updatedAt"`
	}{
		ID:          a.ID,
		StudentID:   a.StudentID,
		Status:      a.Status,
		Documents:   a.Documents,
		CoverLetter: a.CoverLetter,
		Notes:       a.Notes,
		AppliedAt:   a.AppliedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	if id, ok := a.Target.JobID(); ok {
		out.JobID = &id
	}
	if id, ok := a.Target.ProgramID(); ok {
		out.ProgramID = &id
	}
	return json.Marshal(out)
}
