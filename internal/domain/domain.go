package domain

import (
	"github.com/bundasehat/screening-backend/internal/domain/content"
	"github.com/bundasehat/screening-backend/internal/domain/screening"
	"github.com/bundasehat/screening-backend/internal/domain/user"
)

const (
	RoleAdmin = user.RoleAdmin
	RoleUser  = user.RoleUser

	CallTypeEvaluateSession = screening.CallTypeEvaluateSession

	MaxQuestionLength  = screening.MaxQuestionLength
	MaxOptionLength    = screening.MaxOptionLength
	MaxNewsTitleLength = content.MaxNewsTitleLength
)

// ValidRole reports whether role is admin or user.
func ValidRole(role string) bool { return user.ValidRole(role) }

type (
	User               = user.User
	PatientInformation = user.PatientInformation

	Question       = screening.Question
	QuestionOption = screening.QuestionOption
	AnswerSession  = screening.AnswerSession
	Answer         = screening.Answer
	AICallLog      = screening.AICallLog

	News             = content.News
	VideoInformation = content.VideoInformation
)

// Models lists every persisted type in migration order.
func Models() []any {
	return []any{
		&User{},
		&PatientInformation{},
		&Question{},
		&QuestionOption{},
		&AnswerSession{},
		&Answer{},
		&AICallLog{},
		&News{},
		&VideoInformation{},
	}
}
