package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/strathausen/pleeboo/internal/icons"
	"github.com/strathausen/pleeboo/internal/ids"
	"github.com/strathausen/pleeboo/internal/models"
	"github.com/strathausen/pleeboo/internal/repository"
	"gorm.io/gorm"
)

const (
	maxSuggestedSections        = 10
	maxSuggestedItemsPerSection = 20
)

var (
	ErrSuggestionsNotConfigured = errors.New("suggestion generator is not configured")
	ErrNoSuggestions            = errors.New("no suggestions could be generated")
)

// SuggestionResult reports what the batch-applier did.
type SuggestionResult struct {
	Applied  bool
	Reason   string
	Sections []models.Section
}

// SuggestionService applies AI section/item proposals to empty boards.
// Application is strictly a bootstrap operation, never a merge.
type SuggestionService struct {
	repo      repository.BoardRepository
	generator SuggestionGenerator
}

// NewSuggestionService creates a new SuggestionService. generator may be
// nil when no API key is configured.
func NewSuggestionService(repo repository.BoardRepository, generator SuggestionGenerator) *SuggestionService {
	return &SuggestionService{repo: repo, generator: generator}
}

// Apply requests a proposal for the board and batch-inserts it: sections
// first, then items, in one transaction. A board with existing sections
// yields a no-op result, not an error. A failed or empty generation fails
// before any insert, so no partial tree is ever persisted.
func (s *SuggestionService) Apply(ctx context.Context, boardID string) (*SuggestionResult, error) {
	board, err := s.repo.FindBoard(boardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, fmt.Errorf("failed to find board: %w", err)
	}

	count, err := s.repo.CountSections(boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to count sections: %w", err)
	}
	if count > 0 {
		return &SuggestionResult{Applied: false, Reason: "board already has sections"}, nil
	}

	if s.generator == nil {
		return nil, ErrSuggestionsNotConfigured
	}

	proposed, err := s.generator.GenerateSections(ctx, board.Title, board.Description, board.Prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSuggestions, err)
	}

	sections := s.validate(boardID, proposed)
	if len(sections) == 0 {
		return nil, ErrNoSuggestions
	}

	if err := s.repo.CreateSectionsWithItems(sections); err != nil {
		return nil, fmt.Errorf("failed to apply suggestions: %w", err)
	}

	return &SuggestionResult{Applied: true, Sections: sections}, nil
}

// validate turns a raw proposal into persistable rows: blank titles are
// dropped, icons normalized, counts clamped, sort orders assigned by
// array position.
func (s *SuggestionService) validate(boardID string, proposed []SuggestedSection) []models.Section {
	if len(proposed) > maxSuggestedSections {
		proposed = proposed[:maxSuggestedSections]
	}

	var sections []models.Section
	for _, ps := range proposed {
		title := strings.TrimSpace(ps.Title)
		if title == "" {
			continue
		}

		section := models.Section{
			ID:          ids.New(ids.KindSection),
			BoardID:     boardID,
			Title:       title,
			Description: ps.Description,
			Icon:        icons.Normalize(ps.Icon),
			SortOrder:   len(sections),
		}

		proposedItems := ps.Items
		if len(proposedItems) > maxSuggestedItemsPerSection {
			proposedItems = proposedItems[:maxSuggestedItemsPerSection]
		}
		for _, pi := range proposedItems {
			itemTitle := strings.TrimSpace(pi.Title)
			if itemTitle == "" {
				continue
			}

			itemType := models.ItemType(pi.ItemType)
			if !models.ValidItemType(itemType) {
				itemType = models.ItemTypeSlots
			}
			needed := pi.Needed
			if needed < 1 {
				needed = 1
			}
			if needed > models.MaxSlot {
				needed = models.MaxSlot
			}
			unit := pi.Unit
			if itemType != models.ItemTypeCumulative {
				unit = ""
			}

			section.Items = append(section.Items, models.Item{
				ID:          ids.New(ids.KindItem),
				SectionID:   section.ID,
				Title:       itemTitle,
				Description: pi.Description,
				Icon:        icons.Normalize(pi.Icon),
				Needed:      needed,
				ItemType:    itemType,
				Unit:        unit,
				SortOrder:   len(section.Items),
			})
		}

		sections = append(sections, section)
	}

	return sections
}
