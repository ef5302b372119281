package model

import "time"

// Download is an append-only audit record; rows are never updated.
// swagger:model Download
type Download struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	QuestionnaireID uint      `gorm:"index;not null" json:"questionnaireId"`
	UserID          *uint     `gorm:"index" json:"userId,omitempty"`
	IPAddress       string    `gorm:"size:45" json:"ipAddress"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (Download) TableName() string {
	return "downloads"
}
