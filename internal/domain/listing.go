package domain

import "time"

// ListingKind names the two kinds of postable opportunity
type ListingKind string

// Listing kinds
const (
	KindJob     ListingKind = "job"
	KindProgram ListingKind = "program"
)

// Resource returns the capitalised name used in messages
func (k ListingKind) Resource() string {
	if k == KindProgram {
		return "Program"
	}
	return "Job"
}

// OwnerRole is the role allowed to post listings of this kind
func (k ListingKind) OwnerRole() Role {
	if k == KindProgram {
		return RoleSchool
	}
	return RoleEmployer
}

// JobRequirements lists what a candidate needs
type JobRequirements struct {
	Education  string   `json:"education" validate:"required"`
	Experience string   `json:"experience" validate:"required"`
	Skills     []string `gorm:"serializer:json" json:"skills" validate:"min=1,dive,required"`
}

// JobLocation is where the job takes place
type JobLocation struct {
	Country string `json:"country" validate:"required"`
	City    string `json:"city" validate:"required"`
	Remote  bool   `json:"remote"`
}

// Salary range, all optional
type Salary struct {
	Min      float64 `json:"min,omitempty"`
	Max      float64 `json:"max,omitempty"`
	Currency string  `json:"currency,omitempty"`
}

// Job Model
type Job struct {
	ID               uint            `gorm:"primaryKey" json:"id"`                                                                // Primary key
	EmployerID       uint            `gorm:"index;not null" json:"employer"`                                                      // Owning employer profile
	Title            string          `json:"title" validate:"required"`                                                           // Title
	Description      string          `gorm:"type:text" json:"description" validate:"required"`                                    // Description
	Responsibilities []string        `gorm:"serializer:json" json:"responsibilities" validate:"min=1,dive,required"`              // Responsibilities
	Requirements     JobRequirements `gorm:"embedded;embeddedPrefix:req_" json:"requirements"`                                    // Requirements
	JobType          string          `gorm:"size:32" json:"jobType" validate:"oneof=CDI CDD Internship Apprenticeship Freelance"` // Contract type
	Location         JobLocation     `gorm:"embedded;embeddedPrefix:location_" json:"location"`                                   // Location
	Salary           Salary          `gorm:"embedded;embeddedPrefix:salary_" json:"salary"`                                       // Salary range
	Deadline         time.Time       `json:"deadline" validate:"required"`                                                        // Application deadline
	CreatedAt        time.Time       `gorm:"index" json:"createdAt"`                                                              // Creation time, drives list order
}

// Duration of a program
type Duration struct {
	Value float64 `json:"value" validate:"gt=0"`
	Unit  string  `gorm:"size:16" json:"unit" validate:"oneof=months years"`
}

// Tuition fees, all optional
type Tuition struct {
	Amount   float64 `json:"amount,omitempty"`
	Currency string  `json:"currency,omitempty"`
	Notes    string  `json:"notes,omitempty"`
}

// Scholarships offered with a program
type Scholarships struct {
	Available   bool   `json:"available"`
	Description string `json:"description,omitempty"`
}

// ProgramRequirements lists admission requirements
type ProgramRequirements struct {
	Academic  []string `gorm:"serializer:json" json:"academic" validate:"min=1,dive,required"`
	Language  []string `gorm:"serializer:json" json:"language" validate:"min=1,dive,required"`
	Documents []string `gorm:"serializer:json" json:"documents" validate:"min=1,dive,required"`
}

// Program Model
type Program struct {
	ID           uint                `gorm:"primaryKey" json:"id"`                                                               // Primary key
	SchoolID     uint                `gorm:"index;not null" json:"school"`                                                       // Owning school profile
	Title        string              `json:"title" validate:"required"`                                                          // Title
	Description  string              `gorm:"type:text" json:"description" validate:"required"`                                   // Description
	DegreeType   string              `gorm:"size:32" json:"degreeType" validate:"oneof=Bachelor Master PhD Certificate Diploma"` // Degree awarded
	FieldOfStudy string              `json:"fieldOfStudy" validate:"required"`                                                   // Field of study
	Duration     Duration            `gorm:"embedded;embeddedPrefix:duration_" json:"duration"`                                  // Length
	StudyMode    string              `gorm:"size:16" json:"studyMode" validate:"oneof=On-campus Online Hybrid"`                  // Delivery mode
	Tuition      Tuition             `gorm:"embedded;embeddedPrefix:tuition_" json:"tuition"`                                    // Fees
	Scholarships Scholarships        `gorm:"embedded;embeddedPrefix:scholarship_" json:"scholarships"`                           // Scholarships
	Requirements ProgramRequirements `gorm:"embedded;embeddedPrefix:req_" json:"requirements"`                                   // Admission requirements
	Deadline     time.Time           `json:"deadline" validate:"required"`                                                       // Application deadline
	StartDate    time.Time           `json:"startDate" validate:"required"`                                                      // First day
	CreatedAt    time.Time           `gorm:"index" json:"createdAt"`                                                             // Creation time, drives list order
}

// EmployerSummary is the employer projection shown in job lists
type EmployerSummary struct {
	ID          uint     `json:"id"`
	CompanyName string   `json:"companyName"`
	Logo        string   `json:"logo,omitempty"`
	Industry    []string `json:"industry"`
}

// EmployerPublic is the employer projection shown on a job page
type EmployerPublic struct {
	ID          uint            `json:"id"`
	CompanyName string          `json:"companyName"`
	Description string          `json:"description"`
	Logo        string          `json:"logo,omitempty"`
	Industry    []string        `json:"industry"`
	Locations   []Address       `json:"locations,omitempty"`
	Website     string          `json:"website,omitempty"`
	SocialMedia SocialMedia     `json:"socialMedia"`
	Contact     EmployerContact `json:"contact"`
}

// SchoolSummary is the school projection shown in program lists
type SchoolSummary struct {
	ID       uint           `json:"id"`
	Name     string         `json:"name"`
	Logo     string         `json:"logo,omitempty"`
	Location SchoolLocation `json:"location"`
}

// SchoolPublic is the school projection shown on a program page
type SchoolPublic struct {
	ID          uint           `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Logo        string         `json:"logo,omitempty"`
	Location    SchoolLocation `json:"location"`
	Website     string         `json:"website,omitempty"`
	SocialMedia SocialMedia    `json:"socialMedia"`
	Contact     SchoolContact  `json:"contact"`
}

// Summary projects the employer for list views
func (e *Employer) Summary() EmployerSummary {
	return EmployerSummary{ID: e.ID, CompanyName: e.CompanyName, Logo: e.Logo, Industry: e.Industry}
}

// Public projects the employer for the job detail view
func (e *Employer) Public() EmployerPublic {
	return EmployerPublic{
		ID:          e.ID,
		CompanyName: e.CompanyName,
		Description: e.Description,
		Logo:        e.Logo,
		Industry:    e.Industry,
		Locations:   e.Locations,
		Website:     e.Website,
		SocialMedia: e.SocialMedia,
		Contact:     e.Contact,
	}
}

// Summary projects the school for list views
func (s *School) Summary() SchoolSummary {
	return SchoolSummary{ID: s.ID, Name: s.Name, Logo: s.Logo, Location: s.Location}
}

// Public projects the school for the program detail view
func (s *School) Public() SchoolPublic {
	return SchoolPublic{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Logo:        s.Logo,
		Location:    s.Location,
		Website:     s.Website,
		SocialMedia: s.SocialMedia,
		Contact:     s.Contact,
	}
}

// JobListItem is a job joined with its employer summary
type JobListItem struct {
	Job
	Employer *EmployerSummary `json:"employer"`
}

// JobDetail is a job joined with its public employer profile
type JobDetail struct {
	Job
	Employer *EmployerPublic `json:"employer"`
}

// ProgramListItem is a program joined with its school summary
type ProgramListItem struct {
	Program
	School *SchoolSummary `json:"school"`
}

// ProgramDetail is a program joined with its public school profile
type ProgramDetail struct {
	Program
	School *SchoolPublic `json:"school"`
}
