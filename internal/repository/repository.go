package repository

import (
	"github.com/strathausen/pleeboo/internal/models"
)

// BoardUpdate holds partial board field updates. Nil means "leave unchanged".
type BoardUpdate struct {
	Title       *string
	Description *string
	Prompt      *string
}

// SectionUpdate holds partial section field updates.
type SectionUpdate struct {
	Title       *string
	Description *string
	Icon        *string
}

// ItemUpdate holds partial item field updates.
type ItemUpdate struct {
	Title       *string
	Description *string
	Icon        *string
	Needed      *int
	ItemType    *models.ItemType
	Unit        *string
}

// VolunteerFields is the full mutable field-set of a volunteer slot, as
// carried by an upsert.
type VolunteerFields struct {
	Name     string
	Details  string
	Quantity *float64
}

// Empty reports whether the update carries no changes at all.
func (u BoardUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Prompt == nil
}

// Empty reports whether the update carries no changes at all.
func (u SectionUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Icon == nil
}

// Empty reports whether the update carries no changes at all.
func (u ItemUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Icon == nil &&
		u.Needed == nil && u.ItemType == nil && u.Unit == nil
}

// BoardRepository defines data access for the board aggregate: the board
// tree, its child entities, and the board's capability tokens.
type BoardRepository interface {
	// CreateBoard persists a board and its token pair in one transaction.
	CreateBoard(board *models.Board, tokens []models.AccessToken) error

	// FindBoard finds a board without loading its tree.
	FindBoard(id string) (*models.Board, error)

	// GetBoardTree returns the full tree in one read: sections ordered by
	// sort_order, items ordered by sort_order, volunteers ordered by slot.
	GetBoardTree(id string) (*models.Board, error)

	// UpdateBoard applies a partial update to a board.
	UpdateBoard(id string, upd BoardUpdate) (*models.Board, error)

	// DeleteBoard deletes a board and cascades to sections, items,
	// volunteers, and access tokens.
	DeleteBoard(id string) error

	// FindSection finds a section by id.
	FindSection(id string) (*models.Section, error)

	// CreateSection appends a section to a board; sort order is computed
	// as max(existing)+1 inside the insert transaction.
	CreateSection(section *models.Section) error

	// UpdateSection applies a partial update to a section.
	UpdateSection(id string, upd SectionUpdate) (*models.Section, error)

	// DeleteSection deletes a section and cascades to its items and their
	// volunteers.
	DeleteSection(id string) error

	// ReorderSections rewrites sort_order to the index of each id in
	// orderedIDs, atomically. Ids not belonging to the board are ignored.
	ReorderSections(boardID string, orderedIDs []string) error

	// CountSections counts a board's sections.
	CountSections(boardID string) (int64, error)

	// CreateSectionsWithItems batch-inserts a validated proposal tree
	// (sections first, then items) in a single transaction.
	CreateSectionsWithItems(sections []models.Section) error

	// FindItem finds an item by id.
	FindItem(id string) (*models.Item, error)

	// CreateItem appends an item to a section; sort order is computed as
	// max(existing)+1 inside the insert transaction.
	CreateItem(item *models.Item) error

	// UpdateItem applies a partial update to an item.
	UpdateItem(id string, upd ItemUpdate) (*models.Item, error)

	// DeleteItem deletes an item and cascades to its volunteers.
	DeleteItem(id string) error

	// UpsertVolunteer writes the full field-set for (itemID, slot),
	// overwriting any existing row for that slot. A blank name deletes the
	// row instead; the returned volunteer is nil in that case.
	UpsertVolunteer(itemID string, slot int, fields VolunteerFields) (*models.Volunteer, error)

	// FindToken finds an access token by its opaque value.
	FindToken(value string) (*models.AccessToken, error)

	// TokensForBoard lists a board's current tokens.
	TokensForBoard(boardID string) ([]models.AccessToken, error)

	// ReplaceTokens deletes a board's tokens and inserts the given ones in
	// a single transaction, so old tokens stop matching atomically.
	ReplaceTokens(boardID string, tokens []models.AccessToken) error
}
