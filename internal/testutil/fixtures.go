// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"time"

	"opportunity_hub/internal/domain"
)

// Deadline used by job and program fixtures
var Deadline = time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)

// Student returns a student profile that passes validation
func Student(userID uint) *domain.Student {
	return &domain.Student{
		UserID:       userID,
		FirstName:    "Amina",
		LastName:     "Diallo",
		Phone:        "+33 6 00 00 00 00",
		Country:      "France",
		Nationality:  "Senegalese",
		Education:    []domain.Education{{Degree: "BSc Computer Science", Institution: "Sorbonne", Year: 2024}},
		Interests:    []string{"software", "data"},
		Languages:    []string{"fr", "en"},
		Availability: domain.AvailabilityImmediate,
	}
}

// School returns a school profile that passes validation
func School(userID uint) *domain.School {
	return &domain.School{
		UserID:      userID,
		Name:        "Ecole Polytechnique",
		Description: "Engineering school",
		Location:    domain.SchoolLocation{Country: "France", City: "Palaiseau", Address: "Route de Saclay"},
		Programs:    []string{"Engineering"},
		Contact:     domain.SchoolContact{Name: "Admissions", Email: "admissions@example.edu", Phone: "+33 1 00 00 00 00"},
	}
}

// Employer returns an employer profile that passes validation
func Employer(userID uint) *domain.Employer {
	return &domain.Employer{
		UserID:      userID,
		CompanyName: "Acme",
		Description: "We build things",
		Industry:    []string{"software"},
		JobTypes:    []string{"CDI", "Internship"},
		Contact:     domain.EmployerContact{Name: "Jo", Position: "Recruiter", Email: "jobs@acme.test", Phone: "+33 1 11 11 11 11"},
	}
}

// Job returns a job owned by employerID that passes validation
func Job(employerID uint, title string) *domain.Job {
	return &domain.Job{
		EmployerID:       employerID,
		Title:            title,
		Description:      "Build backend services",
		Responsibilities: []string{"write Go"},
		Requirements:     domain.JobRequirements{Education: "Master", Experience: "2 years", Skills: []string{"go"}},
		JobType:          "CDI",
		Location:         domain.JobLocation{Country: "France", City: "Paris"},
		Deadline:         Deadline,
	}
}

// Program returns a program owned by schoolID that passes validation
func Program(schoolID uint, title string) *domain.Program {
	return &domain.Program{
		SchoolID:     schoolID,
		Title:        title,
		Description:  "Two year master",
		DegreeType:   "Master",
		FieldOfStudy: "Computer Science",
		Duration:     domain.Duration{Value: 2, Unit: "years"},
		StudyMode:    "On-campus",
		Requirements: domain.ProgramRequirements{
			Academic:  []string{"Bachelor"},
			Language:  []string{"English B2"},
			Documents: []string{"Transcript"},
		},
		Deadline:  Deadline,
		StartDate: Deadline.AddDate(0, 9, 0),
	}
}
