package screening

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MaxQuestionLength = 255
	MaxOptionLength   = 100
)

type Question struct {
	ID       uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Question string           `gorm:"not null;column:question" json:"question"`
	Options  []QuestionOption `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"options"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Question) TableName() string { return "question" }

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

type QuestionOption struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;index;column:question_id" json:"question_id"`
	Value      string    `gorm:"not null;column:value" json:"value"`
	Position   int       `gorm:"not null;default:0;column:position" json:"position"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (QuestionOption) TableName() string { return "question_option" }

func (o *QuestionOption) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
