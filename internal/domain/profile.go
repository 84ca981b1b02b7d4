package domain

import "encoding/json"

// Availability values for students
const (
	AvailabilityImmediate = "immediate"
	AvailabilityFuture    = "future"
)

// Education is one entry of a student's academic history
type Education struct {
	Degree      string `json:"degree" validate:"required"`
	Institution string `json:"institution" validate:"required"`
	Year        int    `json:"year" validate:"required,gt=0"`
}

// Student Model
type Student struct {
	ID           uint        `gorm:"primaryKey" json:"id"`                                            // Primary key
	UserID       uint        `gorm:"uniqueIndex;not null" json:"user"`                                // Owning user, one profile per user
	FirstName    string      `json:"firstName" validate:"required"`                                   // First name
	LastName     string      `json:"lastName" validate:"required"`                                    // Last name
	Phone        string      `json:"phone" validate:"required"`                                       // Phone number
	Country      string      `json:"country" validate:"required"`                                     // Country of residence
	Nationality  string      `json:"nationality" validate:"required"`                                 // Nationality
	Education    []Education `gorm:"serializer:json" json:"education" validate:"dive"`                // Academic history
	Interests    []string    `gorm:"serializer:json" json:"interests" validate:"min=1,dive,required"` // Fields of interest
	CV           string      `json:"cv,omitempty"`                                                    // Opaque CV URL
	Languages    []string    `gorm:"serializer:json" json:"languages" validate:"min=1,dive,required"` // Spoken languages
	Availability string      `gorm:"size:16" json:"availability" validate:"oneof=immediate future"`   // immediate or future
}

// Address is a postal location
type Address struct {
	Country string `json:"country"`
	City    string `json:"city"`
	Address string `json:"address"`
}

// SchoolLocation is the campus address, fully required
type SchoolLocation struct {
	Country string `json:"country" validate:"required"`
	City    string `json:"city" validate:"required"`
	Address string `json:"address" validate:"required"`
}

// SocialMedia links of a school or employer
type SocialMedia struct {
	Facebook  string `json:"facebook,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

// SchoolContact is the admissions contact of a school
type SchoolContact struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required"`
}

// School Model
type School struct {
	ID           uint           `gorm:"primaryKey" json:"id"`                                           // Primary key
	UserID       uint           `gorm:"uniqueIndex;not null" json:"user"`                               // Owning user
	Name         string         `json:"name" validate:"required"`                                       // School name
	Description  string         `gorm:"type:text" json:"description" validate:"required"`               // Description
	Logo         string         `json:"logo,omitempty"`                                                 // Logo URL
	Banner       string         `json:"banner,omitempty"`                                               // Banner URL
	Location     SchoolLocation `gorm:"embedded;embeddedPrefix:location_" json:"location"`              // Campus address
	Programs     []string       `gorm:"serializer:json" json:"programs" validate:"min=1,dive,required"` // Offered program areas
	Scholarships bool           `json:"scholarships"`                                                   // Offers scholarships
	Website      string         `json:"website,omitempty"`                                              // Website URL
	SocialMedia  SocialMedia    `gorm:"embedded;embeddedPrefix:social_" json:"socialMedia"`             // Social links
	Contact      SchoolContact  `gorm:"embedded;embeddedPrefix:contact_" json:"contact"`                // Admissions contact
}

// EmployerContact is the recruiting contact of an employer
type EmployerContact struct {
	Name     string `json:"name" validate:"required"`
	Position string `json:"position" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
}

// Employer Model
type Employer struct {
	ID          uint            `gorm:"primaryKey" json:"id"`                                                                                    // Primary key
	UserID      uint            `gorm:"uniqueIndex;not null" json:"user"`                                                                        // Owning user
	CompanyName string          `json:"companyName" validate:"required"`                                                                         // Company name
	Description string          `gorm:"type:text" json:"description" validate:"required"`                                                        // Description
	Logo        string          `json:"logo,omitempty"`                                                                                          // Logo URL
	Industry    []string        `gorm:"serializer:json" json:"industry" validate:"min=1,dive,required"`                                          // Industries
	Locations   []Address       `gorm:"serializer:json" json:"locations,omitempty"`                                                              // Offices
	JobTypes    []string        `gorm:"serializer:json" json:"jobTypes" validate:"min=1,dive,oneof=CDI CDD Internship Apprenticeship Freelance"` // Contract types offered
	Website     string          `json:"website,omitempty"`                                                                                       // Website URL
	SocialMedia SocialMedia     `gorm:"embedded;embeddedPrefix:social_" json:"socialMedia"`                                                      // Social links
	Contact     EmployerContact `gorm:"embedded;embeddedPrefix:contact_" json:"contact"`                                                         // Recruiting contact
}

// Profile is exactly one of Student, School or Employer
type Profile struct {
	student  *Student
	school   *School
	employer *Employer
}

// StudentProfile wraps a student
func StudentProfile(s *Student) Profile { return Profile{student: s} }

// SchoolProfile wraps a school
func SchoolProfile(s *School) Profile { return Profile{school: s} }

// EmployerProfile wraps an employer
func EmployerProfile(e *Employer) Profile { return Profile{employer: e} }

// Role returns the role the profile belongs to, or "" for the zero Profile
func (p Profile) Role() Role {
	switch {
	case p.student != nil:
		return RoleStudent
	case p.school != nil:
		return RoleSchool
	case p.employer != nil:
		return RoleEmployer
	}
	return ""
}

// Student returns the student variant
func (p Profile) Student() (*Student, bool) { return p.student, p.student != nil }

// School returns the school variant
func (p Profile) School() (*School, bool) { return p.school, p.school != nil }

// Employer returns the employer variant
func (p Profile) Employer() (*Employer, bool) { return p.employer, p.employer != nil }

// Value returns the wrapped profile record
func (p Profile) Value() any {
	switch {
	case p.student != nil:
		return p.student
	case p.school != nil:
		return p.school
	case p.employer != nil:
		return p.employer
	}
	return nil
}

// MarshalJSON encodes the wrapped record
func (p Profile) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Value())
}
