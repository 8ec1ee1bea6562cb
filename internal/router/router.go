package router

import (
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"

	"github.com/laptev-dv/diploma-backend/internal/handlers"
	"github.com/laptev-dv/diploma-backend/internal/services"
)

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func rateLimitExceeded(c *gin.Context, info ratelimit.Info) {
	c.String(429, "Too many requests. Try again later.")
}

func Setup(log *zap.Logger) *gin.Engine {
	// Set up a new Gin router, add recovery middleware and request logging.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(RequestLogger(log))

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
	})
	router.Use(func(c *gin.Context) {
		err := secureMiddleware.Process(c.Writer, c.Request)
		if err != nil {
			c.Abort()
			return
		}
	})

	// Handlers
	emailService := services.NewEmailService(log)
	sessionService := services.NewSessionService(log)

	authHandler := handlers.NewAuthHandler(log, emailService)
	experimentHandler := handlers.NewExperimentHandler(log)
	taskHandler := handlers.NewTaskHandler(log)
	sessionHandler := handlers.NewSessionHandler(log, sessionService)
	reportHandler := handlers.NewReportHandler(log, sessionService)
	folderHandler := handlers.NewFolderHandler(log)
	userHandler := handlers.NewUserHandler(log)

	// Credential endpoints get a per-IP rate limit.
	rateLimitStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: 5,
	})
	limiter := ratelimit.RateLimiter(rateLimitStore, &ratelimit.Options{
		ErrorHandler: rateLimitExceeded,
		KeyFunc:      keyFunc,
	})

	// Auth routes
	auth := router.Group("/auth")
	{
		auth.POST("/register", limiter, authHandler.Register)
		auth.POST("/login", limiter, authHandler.Login)
		auth.POST("/request-password-reset", limiter, authHandler.RequestPasswordReset)
		auth.POST("/reset-password", authHandler.ResetPassword)
		auth.POST("/logout", AuthRequired(log), authHandler.Logout)
	}

	// Experiments are publicly readable; everything else needs a caller.
	router.GET("/experiments/:id", experimentHandler.Get)
	router.GET("/experiments/:id/tasks", taskHandler.ListByExperiment)

	authorized := router.Group("/")
	authorized.Use(AuthRequired(log))
	{
		authorized.GET("/experiments", experimentHandler.List)
		authorized.POST("/experiments", experimentHandler.Create)
		authorized.PUT("/experiments/:id", experimentHandler.Update)
		authorized.DELETE("/experiments/:id", experimentHandler.Delete)
		authorized.POST("/experiments/:id/tasks", taskHandler.Create)
		authorized.GET("/experiments/:id/sessions", sessionHandler.ListByExperiment)

		authorized.POST("/sessions", sessionHandler.Create)
		authorized.GET("/sessions/:id", sessionHandler.Get)
		authorized.DELETE("/sessions/:id", sessionHandler.Delete)
		authorized.GET("/sessions/:id/report", reportHandler.SessionReport)

		authorized.GET("/folders", folderHandler.List)
		authorized.POST("/folders", folderHandler.Create)
		authorized.GET("/folders/:id", folderHandler.Get)
		authorized.PUT("/folders/:id", folderHandler.Update)
		authorized.DELETE("/folders/:id", folderHandler.Delete)
		authorized.PUT("/folders/:id/experiments", folderHandler.SetExperiments)

		authorized.GET("/user/me", userHandler.Me)
		authorized.PUT("/user/change-password", userHandler.ChangePassword)
		authorized.DELETE("/user", userHandler.DeleteAccount)
	}

	return router
}
