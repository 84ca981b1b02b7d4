package api

import (
	"net/http" // HTTP status codes

	"opportunity_hub/internal/domain"  // Application targets
	"opportunity_hub/internal/service" // Application rules

	"github.com/gin-gonic/gin" // Gin web framework
)

// ApplyHandler submits the caller's application to the listing in the path
func ApplyHandler(apps *service.ApplicationService, kind domain.ListingKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, err := identity(c)
		if err != nil {
			respondError(c, err)
			return
		}
		id, err := pathID(c, kind.Resource())
		if err != nil {
			respondError(c, err)
			return
		}
		var req service.ApplyInput // Bind JSON request to struct
		if err := bindJSON(c, &req); err != nil {
			respondError(c, err)
			return
		}
		app, err := apps.Apply(c.Request.Context(), caller.UserID, domain.TargetOf(kind, id), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, app)
	}
}

// ListingApplicationsHandler lists the applications of a listing the caller owns
func ListingApplicationsHandler(apps *service.ApplicationService, kind domain.ListingKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, err := identity(c)
		if err != nil {
			respondError(c, err)
			return
		}
		id, err := pathID(c, kind.Resource())
		if err != nil {
			respondError(c, err)
			return
		}
		list, err := apps.ListForListing(c.Request.Context(), caller.UserID, domain.TargetOf(kind, id))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// MyApplicationsHandler lists the caller's own applications
func MyApplicationsHandler(apps *service.ApplicationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, err := identity(c)
		if err != nil {
			respondError(c, err)
			return
		}
		list, err := apps.ListForStudent(c.Request.Context(), caller.UserID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// TransitionHandler changes the status of an application
func TransitionHandler(apps *service.ApplicationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, err := identity(c)
		if err != nil {
			respondError(c, err)
			return
		}
		id, err := pathID(c, "Application")
		if err != nil {
			respondError(c, err)
			return
		}
		var req service.TransitionInput
		if err := bindJSON(c, &req); err != nil {
			respondError(c, err)
			return
		}
		app, err := apps.Transition(c.Request.Context(), caller.UserID, id, req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, app)
	}
}
