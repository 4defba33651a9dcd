package models

import "time"

// MaxSlot bounds volunteer slot positions. Needed counts above this are
// clamped by the UI, so slots never exceed it either.
const MaxSlot = 100

type Volunteer struct {
	ID        string    `gorm:"type:varchar(32);primarykey" json:"id"`
	ItemID    string    `gorm:"type:varchar(32);not null;uniqueIndex:idx_volunteers_item_slot" json:"item_id"`
	Slot      int       `gorm:"not null;uniqueIndex:idx_volunteers_item_slot" json:"slot"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Details   string    `gorm:"type:text" json:"details"`
	Quantity  *float64  `json:"quantity,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
