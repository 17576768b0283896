package app

import (
	"gorm.io/gorm"

	"github.com/bundasehat/screening-backend/internal/data/repos"
	"github.com/bundasehat/screening-backend/internal/platform/logger"
)

type Repos struct {
	User          repos.UserRepo
	Patient       repos.PatientRepo
	Question      repos.QuestionRepo
	AnswerSession repos.AnswerSessionRepo
	AICallLog     repos.AICallLogRepo
	News          repos.NewsRepo
	Video         repos.VideoRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:          repos.NewUserRepo(db, log),
		Patient:       repos.NewPatientRepo(db, log),
		Question:      repos.NewQuestionRepo(db, log),
		AnswerSession: repos.NewAnswerSessionRepo(db, log),
		AICallLog:     repos.NewAICallLogRepo(db, log),
		News:          repos.NewNewsRepo(db, log),
		Video:         repos.NewVideoRepo(db, log),
	}
}
