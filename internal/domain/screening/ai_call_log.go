package screening

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const CallTypeEvaluateSession = "evaluate_session"

// AICallLog records one model call made while evaluating a session.
type AICallLog struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID *uuid.UUID     `gorm:"type:uuid;index;column:session_id" json:"session_id,omitempty"`
	CallType  string         `gorm:"column:call_type;not null" json:"call_type"`
	Model     string         `gorm:"column:model;not null" json:"model"`
	Prompt    string         `gorm:"column:prompt" json:"prompt"`
	Response  string         `gorm:"column:response" json:"response"`
	Success   bool           `gorm:"column:success;not null" json:"success"`
	ErrorKind string         `gorm:"column:error_kind" json:"error_kind,omitempty"`
	Error     string         `gorm:"column:error" json:"error,omitempty"`
	Attempts  int            `gorm:"column:attempts;not null;default:0" json:"attempts"`
	LatencyMS int64          `gorm:"column:latency_ms;not null;default:0" json:"latency_ms"`
	Usage     datatypes.JSON `gorm:"column:usage" json:"usage,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
}

func (AICallLog) TableName() string { return "ai_call_log" }

func (l *AICallLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
