// Package boardsync keeps a client-side mirror of a board aggregate in step
// with the server. Edits apply to the mirror immediately and persist in the
// background: entity saves as single calls, volunteer-slot edits through a
// debounced queue keyed by (item, slot). Entities created locally carry
// temporary ids until their first successful save promotes them to the
// server-issued entity.
package boardsync

import (
	"context"

	"github.com/strathausen/pleeboo/internal/models"
)

// BoardUpdate carries partial board field edits. Nil means unchanged.
type BoardUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Prompt      *string `json:"prompt,omitempty"`
}

// SectionDraft is the payload of a section create.
type SectionDraft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// SectionUpdate carries partial section field edits.
type SectionUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Icon        *string `json:"icon,omitempty"`
}

// ItemDraft is the payload of an item create.
type ItemDraft struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Icon        string          `json:"icon"`
	Needed      int             `json:"needed"`
	ItemType    models.ItemType `json:"item_type"`
	Unit        string          `json:"unit"`
}

// ItemUpdate carries partial item field edits.
type ItemUpdate struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Icon        *string          `json:"icon,omitempty"`
	Needed      *int             `json:"needed,omitempty"`
	ItemType    *models.ItemType `json:"item_type,omitempty"`
	Unit        *string          `json:"unit,omitempty"`
}

// VolunteerFields is the full mutable field-set of one slot, as sent to the
// server. A blank name clears the slot.
type VolunteerFields struct {
	Name     string   `json:"name"`
	Details  string   `json:"details"`
	Quantity *float64 `json:"quantity,omitempty"`
}

// VolunteerEdit is a partial local slot edit. Fields left nil keep their
// last locally known value, so a details-only edit never erases a pending
// name edit.
type VolunteerEdit struct {
	Name     *string
	Details  *string
	Quantity *float64
}

// API is the server surface the mirror persists through. The HTTP client in
// this package implements it; tests substitute fakes.
type API interface {
	GetBoard(ctx context.Context, boardID string) (*models.Board, error)
	UpdateBoard(ctx context.Context, boardID, token string, upd BoardUpdate) error
	AddSection(ctx context.Context, boardID, token string, draft SectionDraft) (*models.Section, error)
	UpdateSection(ctx context.Context, sectionID, token string, upd SectionUpdate) (*models.Section, error)
	DeleteSection(ctx context.Context, sectionID, token string) error
	ReorderSections(ctx context.Context, boardID, token string, orderedIDs []string) error
	AddItem(ctx context.Context, sectionID, token string, draft ItemDraft) (*models.Item, error)
	UpdateItem(ctx context.Context, itemID, token string, upd ItemUpdate) (*models.Item, error)
	DeleteItem(ctx context.Context, itemID, token string) error
	UpsertVolunteer(ctx context.Context, itemID string, slot int, token string, fields VolunteerFields) (*models.Volunteer, error)
}
