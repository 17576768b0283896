package content

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const MaxNewsTitleLength = 200

type News struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"not null;column:title" json:"title"`
	Thumbnail   string    `gorm:"not null;column:thumbnail" json:"thumbnail"`
	Description string    `gorm:"column:description" json:"description"`
	IsActive    bool      `gorm:"not null;column:is_active" json:"is_active"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (News) TableName() string { return "news" }

func (n *News) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
