package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	types "github.com/bundasehat/screening-backend/internal/domain"
	httpH "github.com/bundasehat/screening-backend/internal/http/handlers"
	httpMW "github.com/bundasehat/screening-backend/internal/http/middleware"
	"github.com/bundasehat/screening-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler        *httpH.HealthHandler
	AuthHandler          *httpH.AuthHandler
	UserHandler          *httpH.UserHandler
	QuestionHandler      *httpH.QuestionHandler
	NewsHandler          *httpH.NewsHandler
	VideoHandler         *httpH.VideoHandler
	PatientHandler       *httpH.PatientHandler
	AnswerSessionHandler *httpH.AnswerSessionHandler
	MediaHandler         *httpH.MediaHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")

	// Auth (public)
	if cfg.AuthHandler != nil {
		api.POST("/auth/register", cfg.AuthHandler.Register)
		api.POST("/auth/login", cfg.AuthHandler.Login)
	}

	if cfg.AuthMiddleware == nil {
		return r
	}
	authed := api.Group("/", cfg.AuthMiddleware.RequireAuth())
	admin := api.Group("/", cfg.AuthMiddleware.RequireAuth(), cfg.AuthMiddleware.RequireRole(types.RoleAdmin))

	// Users
	if h := cfg.UserHandler; h != nil {
		admin.GET("/user", h.List)
		admin.POST("/user", h.Create)
		admin.GET("/user/:id", h.Get)
		admin.PUT("/user/:id", h.Update)
		admin.DELETE("/user/:id", h.Delete)
		admin.PUT("/user/:id/avatar", h.UploadAvatar)
	}

	// Question bank
	if h := cfg.QuestionHandler; h != nil {
		authed.GET("/question", h.List)
		authed.GET("/question/:id", h.Get)
		admin.POST("/question", h.Create)
		admin.PUT("/question/:id", h.Update)
		admin.DELETE("/question/:id", h.Delete)
	}

	// Content
	if h := cfg.NewsHandler; h != nil {
		authed.GET("/news", h.List)
		authed.GET("/news/:id", h.Get)
		admin.POST("/news", h.Create)
		admin.PUT("/news/:id", h.Update)
		admin.DELETE("/news/:id", h.Delete)
	}
	if h := cfg.VideoHandler; h != nil {
		authed.GET("/video-information", h.List)
		authed.GET("/video-information/:id", h.Get)
		admin.POST("/video-information", h.Create)
		admin.PUT("/video-information/:id", h.Update)
		admin.DELETE("/video-information/:id", h.Delete)
	}

	// Screening
	if h := cfg.PatientHandler; h != nil {
		authed.POST("/pasien-information", h.Create)
		authed.GET("/pasien-information/:id", h.Get)
	}
	if h := cfg.AnswerSessionHandler; h != nil {
		authed.POST("/answer-session", h.Create)
		authed.GET("/answer-session", h.List)
		authed.GET("/answer-session/:id", h.Get)
		admin.POST("/answer-session/:id/evaluate", h.Evaluate)
	}

	// Media (only when a bucket is configured)
	if h := cfg.MediaHandler; h != nil {
		admin.POST("/media/upload", h.Upload)
		admin.DELETE("/media", h.Delete)
	}

	return r
}
