package api

import (
	"net/http" // HTTP status codes

	"opportunity_hub/internal/domain"  // Profiles
	"opportunity_hub/internal/service" // Profile rules

	"github.com/gin-gonic/gin" // Gin web framework
)

// MeHandler returns the caller's profile joined with the account
func MeHandler(profiles *service.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := identity(c)
		if err != nil {
			respondError(c, err)
			return
		}
		view, err := profiles.Me(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

// UpsertStudentHandler creates or updates the caller's student profile
func UpsertStudentHandler(profiles *service.ProfileService) gin.HandlerFunc {
	return upsertHandler(profiles, func(c *gin.Context) (domain.Profile, error) {
		var s domain.Student
		err := bindJSON(c, &s)
		return domain.StudentProfile(&s), err
	})
}

// UpsertSchoolHandler creates or updates the caller's school profile
func UpsertSchoolHandler(profiles *service.ProfileService) gin.HandlerFunc {
	return upsertHandler(profiles, func(c *gin.Context) (domain.Profile, error) {
		var s domain.School
		err := bindJSON(c, &s)
		return domain.SchoolProfile(&s), err
	})
}

// UpsertEmployerHandler creates or updates the caller's employer profile
func UpsertEmployerHandler(profiles *service.ProfileService) gin.HandlerFunc {
	return upsertHandler(profiles, func(c *gin.Context) (domain.Profile, error) {
		var e domain.Employer
		err := bindJSON(c, &e)
		return domain.EmployerProfile(&e), err
	})
}

func upsertHandler(profiles *service.ProfileService, bind func(*gin.Context) (domain.Profile, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := identity(c)
		if err != nil {
			respondError(c, err)
			return
		}
		p, err := bind(c) // Decode the role specific body
		if err != nil {
			respondError(c, err)
			return
		}
		saved, err := profiles.Upsert(c.Request.Context(), id, p)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, saved)
	}
}
