package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PatientInformation is the person a screening session is taken for.
// One account may register several patients.
type PatientInformation struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	Name    string    `gorm:"not null;column:name" json:"name"`
	Age     *int      `gorm:"column:age" json:"age,omitempty"`
	Phone   string    `gorm:"column:phone" json:"phone,omitempty"`
	Address string    `gorm:"column:address" json:"address,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (PatientInformation) TableName() string { return "patient_information" }

func (p *PatientInformation) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
