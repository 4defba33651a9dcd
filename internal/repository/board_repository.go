package repository

import (
	"errors"
	"time"

	"github.com/strathausen/pleeboo/internal/ids"
	"github.com/strathausen/pleeboo/internal/models"
	"gorm.io/gorm"
)

// GormBoardRepository is a GORM implementation of BoardRepository
type GormBoardRepository struct {
	db *gorm.DB
}

// NewBoardRepository creates a new BoardRepository
func NewBoardRepository(db *gorm.DB) BoardRepository {
	return &GormBoardRepository{db: db}
}

// CreateBoard persists a board and its token pair atomically. If minting
// fails the board row is rolled back and never observable.
func (r *GormBoardRepository) CreateBoard(board *models.Board, tokens []models.AccessToken) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(board).Error; err != nil {
			return err
		}
		if len(tokens) > 0 {
			if err := tx.Create(&tokens).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindBoard finds a board by id without loading children
func (r *GormBoardRepository) FindBoard(id string) (*models.Board, error) {
	var board models.Board
	if err := r.db.First(&board, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

// GetBoardTree returns the full board aggregate in display order
func (r *GormBoardRepository) GetBoardTree(id string) (*models.Board, error) {
	var board models.Board
	err := r.db.
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("sections.sort_order ASC, sections.id ASC")
		}).
		Preload("Sections.Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("items.sort_order ASC, items.id ASC")
		}).
		Preload("Sections.Items.Volunteers", func(db *gorm.DB) *gorm.DB {
			return db.Order("volunteers.slot ASC")
		}).
		First(&board, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &board, nil
}

// UpdateBoard applies a partial update to a board
func (r *GormBoardRepository) UpdateBoard(id string, upd BoardUpdate) (*models.Board, error) {
	var board models.Board
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&board, "id = ?", id).Error; err != nil {
			return err
		}
		if upd.Title != nil {
			board.Title = *upd.Title
		}
		if upd.Description != nil {
			board.Description = *upd.Description
		}
		if upd.Prompt != nil {
			board.Prompt = *upd.Prompt
		}
		return tx.Save(&board).Error
	})
	if err != nil {
		return nil, err
	}
	return &board, nil
}

// DeleteBoard deletes a board, cascading to all child entities and tokens
func (r *GormBoardRepository) DeleteBoard(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		sectionIDs := tx.Model(&models.Section{}).Select("id").Where("board_id = ?", id)
		itemIDs := tx.Model(&models.Item{}).Select("id").Where("section_id IN (?)", sectionIDs)

		if err := tx.Where("item_id IN (?)", itemIDs).Delete(&models.Volunteer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("section_id IN (?)", sectionIDs).Delete(&models.Item{}).Error; err != nil {
			return err
		}
		if err := tx.Where("board_id = ?", id).Delete(&models.Section{}).Error; err != nil {
			return err
		}
		if err := tx.Where("board_id = ?", id).Delete(&models.AccessToken{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Board{}, "id = ?", id).Error
	})
}

// FindSection finds a section by id
func (r *GormBoardRepository) FindSection(id string) (*models.Section, error) {
	var section models.Section
	if err := r.db.First(&section, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &section, nil
}

// CreateSection inserts a section at the end of its board's order. Reading
// max(sort_order) and inserting race under concurrent creators; duplicate
// sort orders are tolerated and tie-break by id.
func (r *GormBoardRepository) CreateSection(section *models.Section) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		section.SortOrder = nextSortOrder(tx, &models.Section{}, "board_id = ?", section.BoardID)
		return tx.Create(section).Error
	})
}

// UpdateSection applies a partial update to a section
func (r *GormBoardRepository) UpdateSection(id string, upd SectionUpdate) (*models.Section, error) {
	var section models.Section
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&section, "id = ?", id).Error; err != nil {
			return err
		}
		if upd.Title != nil {
			section.Title = *upd.Title
		}
		if upd.Description != nil {
			section.Description = *upd.Description
		}
		if upd.Icon != nil {
			section.Icon = *upd.Icon
		}
		return tx.Save(&section).Error
	})
	if err != nil {
		return nil, err
	}
	return &section, nil
}

// DeleteSection deletes a section, cascading to items and volunteers
func (r *GormBoardRepository) DeleteSection(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		itemIDs := tx.Model(&models.Item{}).Select("id").Where("section_id = ?", id)

		if err := tx.Where("item_id IN (?)", itemIDs).Delete(&models.Volunteer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("section_id = ?", id).Delete(&models.Item{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Section{}, "id = ?", id).Error
	})
}

// ReorderSections rewrites sort_order to match orderedIDs, in one
// transaction so readers never observe a partially-applied order. Ids not
// belonging to the board are skipped; omitted sections keep their order.
func (r *GormBoardRepository) ReorderSections(boardID string, orderedIDs []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing []string
		if err := tx.Model(&models.Section{}).
			Where("board_id = ?", boardID).
			Pluck("id", &existing).Error; err != nil {
			return err
		}

		owned := make(map[string]struct{}, len(existing))
		for _, id := range existing {
			owned[id] = struct{}{}
		}

		for position, id := range orderedIDs {
			if _, ok := owned[id]; !ok {
				continue
			}
			if err := tx.Model(&models.Section{}).
				Where("id = ?", id).
				Update("sort_order", position).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// CountSections counts the sections of a board
func (r *GormBoardRepository) CountSections(boardID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Section{}).Where("board_id = ?", boardID).Count(&count).Error
	return count, err
}

// CreateSectionsWithItems batch-inserts a proposal tree atomically:
// all sections first, then all items addressed by their parent section id.
func (r *GormBoardRepository) CreateSectionsWithItems(sections []models.Section) error {
	if len(sections) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		rows := make([]models.Section, len(sections))
		var items []models.Item
		for i, section := range sections {
			items = append(items, section.Items...)
			section.Items = nil
			rows[i] = section
		}

		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindItem finds an item by id
func (r *GormBoardRepository) FindItem(id string) (*models.Item, error) {
	var item models.Item
	if err := r.db.First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateItem inserts an item at the end of its section's order
func (r *GormBoardRepository) CreateItem(item *models.Item) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		item.SortOrder = nextSortOrder(tx, &models.Item{}, "section_id = ?", item.SectionID)
		return tx.Create(item).Error
	})
}

// UpdateItem applies a partial update to an item
func (r *GormBoardRepository) UpdateItem(id string, upd ItemUpdate) (*models.Item, error) {
	var item models.Item
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, "id = ?", id).Error; err != nil {
			return err
		}
		if upd.Title != nil {
			item.Title = *upd.Title
		}
		if upd.Description != nil {
			item.Description = *upd.Description
		}
		if upd.Icon != nil {
			item.Icon = *upd.Icon
		}
		if upd.Needed != nil {
			item.Needed = *upd.Needed
		}
		if upd.ItemType != nil {
			item.ItemType = *upd.ItemType
		}
		if upd.Unit != nil {
			item.Unit = *upd.Unit
		}
		return tx.Save(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteItem deletes an item, cascading to its volunteers
func (r *GormBoardRepository) DeleteItem(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", id).Delete(&models.Volunteer{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Item{}, "id = ?", id).Error
	})
}

// UpsertVolunteer is a read-modify-write keyed on (item_id, slot). Writing
// to an occupied slot overwrites it; a blank name deletes the row so empty
// slots are never materialized.
func (r *GormBoardRepository) UpsertVolunteer(itemID string, slot int, fields VolunteerFields) (*models.Volunteer, error) {
	var result *models.Volunteer
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Volunteer
		err := tx.Where("item_id = ? AND slot = ?", itemID, slot).First(&existing).Error
		found := err == nil
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if fields.Name == "" {
			if found {
				return tx.Delete(&models.Volunteer{}, "id = ?", existing.ID).Error
			}
			return nil
		}

		if found {
			existing.Name = fields.Name
			existing.Details = fields.Details
			existing.Quantity = fields.Quantity
			existing.UpdatedAt = time.Now()
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			result = &existing
			return nil
		}

		volunteer := models.Volunteer{
			ID:       ids.New(ids.KindVolunteer),
			ItemID:   itemID,
			Slot:     slot,
			Name:     fields.Name,
			Details:  fields.Details,
			Quantity: fields.Quantity,
		}
		if err := tx.Create(&volunteer).Error; err != nil {
			return err
		}
		result = &volunteer
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// FindToken finds an access token by its opaque value
func (r *GormBoardRepository) FindToken(value string) (*models.AccessToken, error) {
	var token models.AccessToken
	if err := r.db.First(&token, "id = ?", value).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

// TokensForBoard lists a board's current tokens
func (r *GormBoardRepository) TokensForBoard(boardID string) ([]models.AccessToken, error) {
	var tokens []models.AccessToken
	if err := r.db.Where("board_id = ?", boardID).Find(&tokens).Error; err != nil {
		return nil, err
	}
	return tokens, nil
}

// ReplaceTokens swaps a board's token rows atomically. Requests in flight
// with the old tokens fail cleanly once the transaction commits.
func (r *GormBoardRepository) ReplaceTokens(boardID string, tokens []models.AccessToken) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("board_id = ?", boardID).Delete(&models.AccessToken{}).Error; err != nil {
			return err
		}
		if len(tokens) > 0 {
			if err := tx.Create(&tokens).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// nextSortOrder computes max(sort_order)+1 for the given parent scope, or 0
// when the scope is empty, so inserts always append.
func nextSortOrder(tx *gorm.DB, model interface{}, query string, args ...interface{}) int {
	var max *int
	tx.Model(model).Where(query, args...).Select("MAX(sort_order)").Scan(&max)
	if max == nil {
		return 0
	}
	return *max + 1
}
