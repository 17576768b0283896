package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/bundasehat/screening-backend/internal/data/db"
	"github.com/bundasehat/screening-backend/internal/modules/screening"
	"github.com/bundasehat/screening-backend/internal/platform/gcp"
	"github.com/bundasehat/screening-backend/internal/platform/logger"
	"github.com/bundasehat/screening-backend/internal/services"
)

type Services struct {
	Auth          services.AuthService
	User          services.UserService
	Question      services.QuestionService
	News          services.NewsService
	Video         services.VideoService
	Patient       services.PatientService
	AnswerSession services.AnswerSessionService
	// Media is nil when no news or video bucket is configured.
	Media     services.MediaService
	Evaluator *screening.Evaluator
}

func wireServices(gdb *gorm.DB, log *logger.Logger, cfg Config, r Repos, c Clients) (Services, error) {
	log.Info("Wiring services...")

	var avatars services.AvatarService
	if c.Bucket != nil && c.Bucket.HasCategory(gcp.BucketCategoryAvatar) {
		a, err := services.NewAvatarService(log, r.User, c.Bucket)
		if err != nil {
			return Services{}, fmt.Errorf("init avatar service: %w", err)
		}
		avatars = a
	}
	users := services.NewUserService(log, r.User, avatars, c.Bucket)
	auth, err := services.NewAuthService(log, r.User, users, cfg.JWTSecretKey, cfg.AccessTokenTTL)
	if err != nil {
		return Services{}, fmt.Errorf("init auth service: %w", err)
	}

	evaluator := screening.NewEvaluator(log, screening.EvaluatorDeps{
		Sessions: r.AnswerSession,
		CallLogs: r.AICallLog,
		Model:    c.Model,
		Locker:   c.Locker,
		LockTTL:  cfg.evaluationLockTTL(),
	})

	var media services.MediaService
	if c.Bucket != nil && (c.Bucket.HasCategory(gcp.BucketCategoryNews) || c.Bucket.HasCategory(gcp.BucketCategoryVideo)) {
		media = services.NewMediaService(log, c.Bucket)
	}

	return Services{
		Auth:          auth,
		User:          users,
		Question:      services.NewQuestionService(log, r.Question, db.NewGormTxRunner(gdb)),
		News:          services.NewNewsService(log, r.News),
		Video:         services.NewVideoService(log, r.Video),
		Patient:       services.NewPatientService(log, r.Patient),
		AnswerSession: services.NewAnswerSessionService(log, r.AnswerSession, r.Question, r.Patient, evaluator),
		Media:         media,
		Evaluator:     evaluator,
	}, nil
}
