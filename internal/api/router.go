package api

import (
	"net/http" // HTTP status codes
	"time"     // Rate limit windows

	"opportunity_hub/internal/domain"     // Roles and listing kinds
	"opportunity_hub/internal/middleware" // Auth, rate limiting, request ids
	"opportunity_hub/internal/service"    // Business rules

	"github.com/gin-gonic/gin" // Gin web framework
)

// Deps is everything the router needs
type Deps struct {
	Accounts     *service.AccountService
	Profiles     *service.ProfileService
	Listings     *service.ListingService
	Applications *service.ApplicationService
	Verifier     middleware.TokenVerifier // Bearer token check
	Limiter      middleware.Limiter       // nil disables rate limiting
	RateWindow   time.Duration            // Rate limit window
	ApplyLimit   int                      // Applications per window per student
	LoginLimit   int                      // Login attempts per window per client
	TrustedProxy []string                 // Proxies allowed to set X-Forwarded-For
}

// NewRouter builds the gin engine with every route
func NewRouter(d Deps) (*gin.Engine, error) {
	r := gin.New()                                                        // Gin router instance
	r.Use(middleware.RequestID(), middleware.AccessLog(), gin.Recovery()) // Correlation, access log, panic guard
	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies(d.TrustedProxy); err != nil {
		return nil, err
	}

	auth := middleware.Authenticate(d.Verifier)
	employer := middleware.RequireRole(domain.RoleEmployer)
	school := middleware.RequireRole(domain.RoleSchool)
	student := middleware.RequireRole(domain.RoleStudent)
	applyLimit := middleware.RateLimit(d.Limiter, "apply", d.ApplyLimit, d.RateWindow)

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Auth routes
	authGroup := r.Group("/auth")
	authGroup.POST("/register", RegisterHandler(d.Accounts))                                                                 // Registration endpoint
	authGroup.POST("/login", middleware.RateLimit(d.Limiter, "login", d.LoginLimit, d.RateWindow), LoginHandler(d.Accounts)) // Login endpoint

	// Job routes, public reads and employer writes
	jobs := r.Group("/jobs")
	jobs.GET("", ListJobsHandler(d.Listings))
	jobs.GET("/:id", GetJobHandler(d.Listings))
	jobs.POST("", auth, employer, CreateJobHandler(d.Listings))
	jobs.PUT("/:id", auth, employer, UpdateJobHandler(d.Listings))
	jobs.DELETE("/:id", auth, employer, DeleteJobHandler(d.Listings))
	jobs.POST("/:id/apply", auth, student, applyLimit, ApplyHandler(d.Applications, domain.KindJob))
	jobs.GET("/:id/applications", auth, employer, ListingApplicationsHandler(d.Applications, domain.KindJob))

	// Program routes, public reads and school writes
	programs := r.Group("/programs")
	programs.GET("", ListProgramsHandler(d.Listings))
	programs.GET("/:id", GetProgramHandler(d.Listings))
	programs.POST("", auth, school, CreateProgramHandler(d.Listings))
	programs.PUT("/:id", auth, school, UpdateProgramHandler(d.Listings))
	programs.DELETE("/:id", auth, school, DeleteProgramHandler(d.Listings))
	programs.POST("/:id/apply", auth, student, applyLimit, ApplyHandler(d.Applications, domain.KindProgram))
	programs.GET("/:id/applications", auth, school, ListingApplicationsHandler(d.Applications, domain.KindProgram))

	// User routes (protected by JWT)
	users := r.Group("/users", auth)
	users.GET("/me", MeHandler(d.Profiles))
	users.DELETE("/me", DeleteAccountHandler(d.Accounts))
	users.POST("/student", student, UpsertStudentHandler(d.Profiles))
	users.POST("/school", school, UpsertSchoolHandler(d.Profiles))
	users.POST("/employer", employer, UpsertEmployerHandler(d.Profiles))

	// Application routes
	apps := r.Group("/applications", auth)
	apps.GET("", student, MyApplicationsHandler(d.Applications))
	apps.PUT("/:id/status", middleware.RequireRole(domain.RoleEmployer, domain.RoleSchool), TransitionHandler(d.Applications))

	return r, nil
}
