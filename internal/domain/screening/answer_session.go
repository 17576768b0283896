package screening

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bundasehat/screening-backend/internal/domain/user"
)

// AnswerSession is one pass through the questionnaire for one patient.
// SubmittedAt, Percentage and Summary are nil until the session is evaluated
// and are always written together.
type AnswerSession struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	PatientID   *uuid.UUID `gorm:"type:uuid;index;column:patient_id" json:"patient_id"`
	StartedAt   time.Time  `gorm:"not null;column:started_at" json:"started_at"`
	SubmittedAt *time.Time `gorm:"column:submitted_at" json:"submitted_at"`
	Percentage  *int       `gorm:"column:percentage" json:"percentage"`
	Summary     *string    `gorm:"column:summary" json:"summary"`

	Patient *user.PatientInformation `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Answers []Answer                 `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"answers,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (AnswerSession) TableName() string { return "answer_session" }

func (s *AnswerSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.StartedAt.IsZero() {
		s.StartedAt = time.Now().UTC()
	}
	return nil
}

func (s *AnswerSession) Evaluated() bool { return s != nil && s.SubmittedAt != nil }

type Answer struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID        uuid.UUID `gorm:"type:uuid;not null;index;column:session_id" json:"session_id"`
	QuestionID       uuid.UUID `gorm:"type:uuid;not null;index;column:question_id" json:"question_id"`
	SelectedOptionID uuid.UUID `gorm:"type:uuid;not null;column:selected_option_id" json:"selected_option_id"`
	// Position keeps submission order; rows created in one insert share created_at.
	Position int `gorm:"not null;default:0;column:position" json:"position"`

	Question       *Question       `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
	SelectedOption *QuestionOption `gorm:"foreignKey:SelectedOptionID" json:"selected_option,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
}

func (Answer) TableName() string { return "answer" }

func (a *Answer) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
