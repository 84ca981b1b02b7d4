package domain

import "time" // Timestamps

// Role identifies which kind of account a user holds
type Role string

// Supported roles
const (
	RoleStudent  Role = "student"  // Applies to jobs and programs
	RoleSchool   Role = "school"   // Posts programs
	RoleEmployer Role = "employer" // Posts jobs
)

// Valid reports whether r is one of the supported roles
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleSchool, RoleEmployer:
		return true
	}
	return false
}

// User Model
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                       // Primary key
	Email     string    `gorm:"size:191;uniqueIndex;not null" json:"email"` // Unique, lower-cased email
	Password  string    `gorm:"not null" json:"-"`                          // Hashed password
	Role      Role      `gorm:"size:16;not null" json:"role"`               // student, school or employer
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`            // Registration time
}

// Identity is the caller resolved from a bearer token
type Identity struct {
	UserID uint // Authenticated user
	Role   Role // Role carried by the token
}
