package api

import (
	"net/http" // HTTP status codes

	"opportunity_hub/internal/service" // Listing rules

	"github.com/gin-gonic/gin" // Gin web framework
)

// ListJobsHandler returns every job, newest first
func ListJobsHandler(listings *service.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobs, err := listings.ListJobs(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, jobs)
	}
}

// GetJobHandler returns one job with its employer
func GetJobHandler(listings *service.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c, "Job")
		if err != nil {
			respondError(c, err)
			return
		}
		job, err := listings.GetJob(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, job)
	}
}

// CreateJobHandler posts a job for the caller's employer profile
func CreateJobHandler(listings *service.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, err := identity(c)
		if err != nil {
			respondError(c, err)
			return
		}
		var req service.JobInput // Bind JSON request to struct
		if err := bindJSON(c, &req); err != nil {
			respondError(c, err)
			return
		}
		job, err := listings.CreateJob(c.Request.Context(), caller.UserID, req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, job)
	}
}

// UpdateJobHandler patches a job the caller owns
func UpdateJobHandler(listings *service.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, err := identity(c)
		if err != nil {
			respondError(c, err)
			return
		}
		id, err := pathID(c, "Job")
		if err != nil {
			respondError(c, err)
			return
		}
		var patch service.Patch // Top level fields to replace
		if err := bindJSON(c, &patch); err != nil {
			respondError(c, err)
			return
		}
		job, err := listings.UpdateJob(c.Request.Context(), id, caller.UserID, patch)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, job)
	}
}

// DeleteJobHandler removes a job the caller owns
func DeleteJobHandler(listings *service.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, err := identity(c)
		if err != nil {
			respondError(c, err)
			return
		}
		id, err := pathID(c, "Job")
		if err != nil {
			respondError(c, err)
			return
		}
		if err := listings.DeleteJob(c.Request.Context(), id, caller.UserID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"msg": "Job removed"})
	}
}

// ListProgramsHandler returns every program, newest first
func ListProgramsHandler(listings *service.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		programs, err := listings.ListPrograms(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, programs)
	}
}

// GetProgramHandler returns one program with its school
func GetProgramHandler(listings *service.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c, "Program")
		if err != nil {
			respondError(c, err)
			return
		}
		program, err := listings.GetProgram(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, program)
	}
}

// CreateProgramHandler posts a program for the caller's school profile
func CreateProgramHandler(listings *service.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, err := identity(c)
		if err != nil {
			respondError(c, err)
			return
		}
		var req service.ProgramInput // Bind JSON request to struct
		if err := bindJSON(c, &req); err != nil {
			respondError(c, err)
			return
		}
		program, err := listings.CreateProgram(c.Request.Context(), caller.UserID, req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, program)
	}
}

// UpdateProgramHandler patches a program the caller owns
func UpdateProgramHandler(listings *service.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, err := identity(c)
		if err != nil {
			respondError(c, err)
			return
		}
		id, err := pathID(c, "Program")
		if err != nil {
			respondError(c, err)
			return
		}
		var patch service.Patch
		if err := bindJSON(c, &patch); err != nil {
			respondError(c, err)
			return
		}
		program, err := listings.UpdateProgram(c.Request.Context(), id, caller.UserID, patch)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, program)
	}
}

// DeleteProgramHandler removes a program the caller owns
func DeleteProgramHandler(listings *service.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, err := identity(c)
		if err != nil {
			respondError(c, err)
			return
		}
		id, err := pathID(c, "Program")
		if err != nil {
			respondError(c, err)
			return
		}
		if err := listings.DeleteProgram(c.Request.Context(), id, caller.UserID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"msg": "Program removed"})
	}
}
