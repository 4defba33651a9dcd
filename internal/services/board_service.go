package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/strathausen/pleeboo/internal/icons"
	"github.com/strathausen/pleeboo/internal/ids"
	"github.com/strathausen/pleeboo/internal/models"
	"github.com/strathausen/pleeboo/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrBoardNotFound   = errors.New("board not found")
	ErrSectionNotFound = errors.New("section not found")
	ErrItemNotFound    = errors.New("item not found")
	ErrTitleRequired   = errors.New("title is required")
	ErrTitleEmpty      = errors.New("title cannot be empty")
	ErrEmptyUpdate     = errors.New("update carries no fields")
	ErrInvalidNeeded   = errors.New("needed must be a positive integer")
	ErrInvalidItemType = errors.New("unknown item type")
	ErrSlotOutOfRange  = errors.New("slot out of range")
)

// BoardService holds the business logic for the board aggregate.
type BoardService struct {
	repo repository.BoardRepository
}

// NewBoardService creates a new BoardService.
func NewBoardService(repo repository.BoardRepository) *BoardService {
	return &BoardService{repo: repo}
}

// CreateBoardInput represents parameters to create a new board.
type CreateBoardInput struct {
	Title       string
	Description string
	Prompt      string
	SessionID   string
}

// CreateBoard creates a board and mints its admin/view token pair in the
// same transaction; a board without tokens is never observable.
func (s *BoardService) CreateBoard(input CreateBoardInput, access *AccessService) (*models.Board, []models.AccessToken, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, nil, ErrTitleRequired
	}

	board := &models.Board{
		ID:          ids.New(ids.KindBoard),
		Title:       input.Title,
		Description: input.Description,
		Prompt:      input.Prompt,
		CreatedBy:   input.SessionID,
	}
	tokens := access.MintTokenPair(board.ID)

	if err := s.repo.CreateBoard(board, tokens); err != nil {
		return nil, nil, fmt.Errorf("failed to create board: %w", err)
	}
	return board, tokens, nil
}

// GetBoard returns the full board tree. The id may carry a slug prefix;
// only the trailing id segment is significant.
func (s *BoardService) GetBoard(idOrSlug string) (*models.Board, error) {
	board, err := s.repo.GetBoardTree(ids.FromSlug(idOrSlug))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, fmt.Errorf("failed to load board: %w", err)
	}
	return board, nil
}

// UpdateBoard applies a partial update to a board.
func (s *BoardService) UpdateBoard(boardID string, upd repository.BoardUpdate) (*models.Board, error) {
	if upd.Empty() {
		return nil, ErrEmptyUpdate
	}
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return nil, ErrTitleEmpty
	}

	board, err := s.repo.UpdateBoard(boardID, upd)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, fmt.Errorf("failed to update board: %w", err)
	}
	return board, nil
}

// DeleteBoard deletes a board and everything under it.
func (s *BoardService) DeleteBoard(boardID string) error {
	if _, err := s.repo.FindBoard(boardID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBoardNotFound
		}
		return fmt.Errorf("failed to find board: %w", err)
	}
	if err := s.repo.DeleteBoard(boardID); err != nil {
		return fmt.Errorf("failed to delete board: %w", err)
	}
	return nil
}

// AddSectionInput represents parameters to append a section to a board.
type AddSectionInput struct {
	Title       string
	Description string
	Icon        string
}

// AddSection appends a section to a board. Sections with an empty title are
// never persisted; the client keeps them local until titled.
func (s *BoardService) AddSection(boardID string, input AddSectionInput) (*models.Section, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}
	if _, err := s.repo.FindBoard(boardID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, fmt.Errorf("failed to find board: %w", err)
	}

	section := &models.Section{
		ID:          ids.New(ids.KindSection),
		BoardID:     boardID,
		Title:       input.Title,
		Description: input.Description,
		Icon:        icons.Normalize(input.Icon),
	}
	if err := s.repo.CreateSection(section); err != nil {
		return nil, fmt.Errorf("failed to create section: %w", err)
	}
	return section, nil
}

// UpdateSection applies a partial update to a section.
func (s *BoardService) UpdateSection(sectionID string, upd repository.SectionUpdate) (*models.Section, error) {
	if upd.Empty() {
		return nil, ErrEmptyUpdate
	}
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return nil, ErrTitleEmpty
	}
	if upd.Icon != nil {
		normalized := icons.Normalize(*upd.Icon)
		upd.Icon = &normalized
	}

	section, err := s.repo.UpdateSection(sectionID, upd)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSectionNotFound
		}
		return nil, fmt.Errorf("failed to update section: %w", err)
	}
	return section, nil
}

// DeleteSection deletes a section, its items, and their volunteers.
func (s *BoardService) DeleteSection(sectionID string) error {
	if _, err := s.repo.FindSection(sectionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSectionNotFound
		}
		return fmt.Errorf("failed to find section: %w", err)
	}
	if err := s.repo.DeleteSection(sectionID); err != nil {
		return fmt.Errorf("failed to delete section: %w", err)
	}
	return nil
}

// ReorderSections rewrites a board's section order to match orderedIDs.
func (s *BoardService) ReorderSections(boardID string, orderedIDs []string) error {
	if _, err := s.repo.FindBoard(boardID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBoardNotFound
		}
		return fmt.Errorf("failed to find board: %w", err)
	}
	if err := s.repo.ReorderSections(boardID, orderedIDs); err != nil {
		return fmt.Errorf("failed to reorder sections: %w", err)
	}
	return nil
}

// AddItemInput represents parameters to append an item to a section.
type AddItemInput struct {
	Title       string
	Description string
	Icon        string
	Needed      int
	ItemType    models.ItemType
	Unit        string
}

// AddItem appends an item to a section.
func (s *BoardService) AddItem(sectionID string, input AddItemInput) (*models.Item, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}
	if input.Needed == 0 {
		input.Needed = 1
	}
	if input.Needed < 0 || input.Needed > models.MaxSlot {
		return nil, ErrInvalidNeeded
	}
	if input.ItemType == "" {
		input.ItemType = models.ItemTypeSlots
	}
	if !models.ValidItemType(input.ItemType) {
		return nil, ErrInvalidItemType
	}
	if input.ItemType != models.ItemTypeCumulative {
		// Units only mean something when contributions sum to a target.
		input.Unit = ""
	}

	if _, err := s.repo.FindSection(sectionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSectionNotFound
		}
		return nil, fmt.Errorf("failed to find section: %w", err)
	}

	item := &models.Item{
		ID:          ids.New(ids.KindItem),
		SectionID:   sectionID,
		Title:       input.Title,
		Description: input.Description,
		Icon:        icons.Normalize(input.Icon),
		Needed:      input.Needed,
		ItemType:    input.ItemType,
		Unit:        input.Unit,
	}
	if err := s.repo.CreateItem(item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	return item, nil
}

// UpdateItem applies a partial update to an item. Decreasing needed below
// the number of filled slots is allowed; existing volunteer rows with
// slot >= needed are kept, truncation is a display concern only.
func (s *BoardService) UpdateItem(itemID string, upd repository.ItemUpdate) (*models.Item, error) {
	if upd.Empty() {
		return nil, ErrEmptyUpdate
	}
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return nil, ErrTitleEmpty
	}
	if upd.Needed != nil && (*upd.Needed < 1 || *upd.Needed > models.MaxSlot) {
		return nil, ErrInvalidNeeded
	}
	if upd.ItemType != nil && !models.ValidItemType(*upd.ItemType) {
		return nil, ErrInvalidItemType
	}
	if upd.Icon != nil {
		normalized := icons.Normalize(*upd.Icon)
		upd.Icon = &normalized
	}

	item, err := s.repo.UpdateItem(itemID, upd)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	return item, nil
}

// DeleteItem deletes an item and its volunteers.
func (s *BoardService) DeleteItem(itemID string) error {
	if _, err := s.repo.FindItem(itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrItemNotFound
		}
		return fmt.Errorf("failed to find item: %w", err)
	}
	if err := s.repo.DeleteItem(itemID); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

// UpsertVolunteer writes the full field-set of a volunteer slot. A blank
// name clears the slot; the returned volunteer is nil in that case.
func (s *BoardService) UpsertVolunteer(itemID string, slot int, fields repository.VolunteerFields) (*models.Volunteer, error) {
	if slot < 0 || slot >= models.MaxSlot {
		return nil, ErrSlotOutOfRange
	}
	if _, err := s.repo.FindItem(itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to find item: %w", err)
	}

	fields.Name = strings.TrimSpace(fields.Name)
	volunteer, err := s.repo.UpsertVolunteer(itemID, slot, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert volunteer: %w", err)
	}
	return volunteer, nil
}

// OwningBoardIDForSection resolves a section id to its board id, for token
// checks on section-scoped operations.
func (s *BoardService) OwningBoardIDForSection(sectionID string) (string, error) {
	section, err := s.repo.FindSection(sectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrSectionNotFound
		}
		return "", fmt.Errorf("failed to find section: %w", err)
	}
	return section.BoardID, nil
}

// OwningBoardIDForItem resolves an item id to its board id.
func (s *BoardService) OwningBoardIDForItem(itemID string) (string, error) {
	item, err := s.repo.FindItem(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrItemNotFound
		}
		return "", fmt.Errorf("failed to find item: %w", err)
	}
	return s.OwningBoardIDForSection(item.SectionID)
}
