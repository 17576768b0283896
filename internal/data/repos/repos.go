package repos

import (
	"gorm.io/gorm"

	"github.com/bundasehat/screening-backend/internal/data/repos/content"
	"github.com/bundasehat/screening-backend/internal/data/repos/screening"
	"github.com/bundasehat/screening-backend/internal/data/repos/user"
	"github.com/bundasehat/screening-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type PatientRepo = user.PatientRepo

type QuestionRepo = screening.QuestionRepo
type AnswerSessionRepo = screening.AnswerSessionRepo
type AICallLogRepo = screening.AICallLogRepo

type NewsRepo = content.NewsRepo
type VideoRepo = content.VideoRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return user.NewUserRepo(db, baseLog)
}

func NewPatientRepo(db *gorm.DB, baseLog *logger.Logger) PatientRepo {
	return user.NewPatientRepo(db, baseLog)
}

func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	return screening.NewQuestionRepo(db, baseLog)
}

func NewAnswerSessionRepo(db *gorm.DB, baseLog *logger.Logger) AnswerSessionRepo {
	return screening.NewAnswerSessionRepo(db, baseLog)
}

func NewAICallLogRepo(db *gorm.DB, baseLog *logger.Logger) AICallLogRepo {
	return screening.NewAICallLogRepo(db, baseLog)
}

func NewNewsRepo(db *gorm.DB, baseLog *logger.Logger) NewsRepo {
	return content.NewNewsRepo(db, baseLog)
}

func NewVideoRepo(db *gorm.DB, baseLog *logger.Logger) VideoRepo {
	return content.NewVideoRepo(db, baseLog)
}
