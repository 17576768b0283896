package app

import (
	httpserver "github.com/bundasehat/screening-backend/internal/http"
	httpH "github.com/bundasehat/screening-backend/internal/http/handlers"
	httpMW "github.com/bundasehat/screening-backend/internal/http/middleware"
	"github.com/bundasehat/screening-backend/internal/platform/logger"
)

func wireRouterConfig(log *logger.Logger, cfg Config, serviceName string, health httpH.Pinger, s Services) httpserver.RouterConfig {
	rc := httpserver.RouterConfig{
		Log:                  log,
		ServiceName:          serviceName,
		CORSOrigins:          cfg.CORSOrigins,
		AuthMiddleware:       httpMW.NewAuthMiddleware(log, s.Auth),
		HealthHandler:        httpH.NewHealthHandler(health),
		AuthHandler:          httpH.NewAuthHandler(s.Auth),
		UserHandler:          httpH.NewUserHandler(s.User),
		QuestionHandler:      httpH.NewQuestionHandler(s.Question),
		NewsHandler:          httpH.NewNewsHandler(s.News),
		VideoHandler:         httpH.NewVideoHandler(s.Video),
		PatientHandler:       httpH.NewPatientHandler(s.Patient),
		AnswerSessionHandler: httpH.NewAnswerSessionHandler(s.AnswerSession),
	}
	if s.Media != nil {
		rc.MediaHandler = httpH.NewMediaHandler(s.Media)
	}
	return rc
}
