package content

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VideoInformation struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"not null;column:name" json:"name"`
	LinkURL     string    `gorm:"not null;column:link_url" json:"link_url"`
	Thumbnail   string    `gorm:"column:thumbnail" json:"thumbnail"`
	Description string    `gorm:"column:description" json:"description"`
	// Duration is display text ("12:30"), not a parsed length.
	Duration string `gorm:"column:duration" json:"duration"`
	IsActive bool   `gorm:"not null;column:is_active" json:"is_active"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (VideoInformation) TableName() string { return "video_information" }

func (v *VideoInformation) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
