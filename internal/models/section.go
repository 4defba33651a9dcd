package models

import "time"

type Section struct {
	ID          string    `gorm:"type:varchar(32);primarykey" json:"id"`
	BoardID     string    `gorm:"type:varchar(32);not null;index" json:"board_id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Icon        string    `gorm:"type:varchar(64);not null" json:"icon"`
	SortOrder   int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Items []Item `gorm:"foreignKey:SectionID" json:"items,omitempty"`
}
