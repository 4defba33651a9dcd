package models

import "time"

type Board struct {
	ID          string    `gorm:"type:varchar(32);primarykey" json:"id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Prompt      string    `gorm:"type:text" json:"prompt"`
	CreatedBy   string    `gorm:"type:varchar(64);index" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Sections []Section `gorm:"foreignKey:BoardID" json:"sections,omitempty"`
}
