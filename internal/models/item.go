package models

import "time"

type ItemType string

const (
	// ItemTypeSlots means discrete people bring discrete things.
	ItemTypeSlots ItemType = "slots"
	// ItemTypeTask means discrete people perform a role.
	ItemTypeTask ItemType = "task"
	// ItemTypeCumulative means contributions sum toward a numeric target.
	ItemTypeCumulative ItemType = "cumulative"
)

// ValidItemType reports whether t is one of the known item types.
func ValidItemType(t ItemType) bool {
	switch t {
	case ItemTypeSlots, ItemTypeTask, ItemTypeCumulative:
		return true
	}
	return false
}

type Item struct {
	ID          string    `gorm:"type:varchar(32);primarykey" json:"id"`
	SectionID   string    `gorm:"type:varchar(32);not null;index" json:"section_id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Icon        string    `gorm:"type:varchar(64);not null" json:"icon"`
	Needed      int       `gorm:"not null;default:1" json:"needed"`
	ItemType    ItemType  `gorm:"type:varchar(20);not null;default:'slots'" json:"item_type"`
	Unit        string    `gorm:"type:varchar(32)" json:"unit,omitempty"`
	SortOrder   int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Volunteers []Volunteer `gorm:"foreignKey:ItemID" json:"volunteers,omitempty"`
}

// PledgedTotal sums the contributed quantities of a cumulative item.
func (i *Item) PledgedTotal() float64 {
	var total float64
	for _, v := range i.Volunteers {
		if v.Quantity != nil {
			total += *v.Quantity
		}
	}
	return total
}
