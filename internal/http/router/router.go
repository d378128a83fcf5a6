package router

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/ulule/limiter/v3"

	"github.com/ignatzorin/freelance-marketplace/internal/config"
	"github.com/ignatzorin/freelance-marketplace/internal/http/middleware"
	"github.com/ignatzorin/freelance-marketplace/internal/interface/http/handler"
)

// Handlers собирает все HTTP-обработчики приложения.
type Handlers struct {
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Job      *handler.JobHandler
	Proposal *handler.ProposalHandler
	Project  *handler.ProjectHandler
	Health   *handler.HealthHandler
}

func SetupRouter(cfg *config.Config, h Handlers, tokens middleware.TokenParser, rateStore limiter.Store) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// тела запросов с лишними полями (например freelancer_id) отклоняются
	binding.EnableDecoderDisallowUnknownFields = true

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.RequestTimeout(cfg.RequestTimeout))

	r.GET("/health", h.Health.Health)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(rateStore, cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
	}

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(tokens))

	users := protected.Group("/users")
	{
		users.GET("", h.User.ListUsers)
		users.GET("/:id", middleware.UUIDValidator("id"), h.User.GetUser)
		users.PUT("/:id", middleware.UUIDValidator("id"), h.User.UpdateProfile)
	}

	jobs := protected.Group("/jobs")
	{
		jobs.GET("", h.Job.ListJobs)
		jobs.POST("", h.Job.CreateJob)
		jobs.GET("/:id", middleware.UUIDValidator("id"), h.Job.GetJob)
		jobs.PUT("/:id", middleware.UUIDValidator("id"), h.Job.UpdateJob)
		jobs.DELETE("/:id", middleware.UUIDValidator("id"), h.Job.DeleteJob)
		jobs.GET("/:id/proposals", middleware.UUIDValidator("id"), h.Proposal.ListJobProposals)
		jobs.POST("/:id/proposals", middleware.UUIDValidator("id"), h.Proposal.CreateProposal)
	}

	proposals := protected.Group("/proposals")
	{
		proposals.GET("/my", h.Proposal.ListMyProposals)
		proposals.PUT("/:proposalId", middleware.UUIDValidator("proposalId"), h.Proposal.UpdateProposalStatus)
	}

	projects := protected.Group("/projects")
	{
		projects.GET("/user", h.Project.ListMyProjects)
		projects.PUT("/:id/status", middleware.UUIDValidator("id"), h.Project.MarkCompleted)
		projects.PUT("/:id/payment", middleware.UUIDValidator("id"), h.Project.MarkPaid)
	}

	return r
}
