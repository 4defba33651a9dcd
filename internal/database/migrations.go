package database

import (
	"fmt"

	"github.com/strathausen/pleeboo/internal/models"
	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes beyond what AutoMigrate
// derives from struct tags. Tree reads always filter children by parent id
// and sort by display order, so composite indexes cover those scans.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		model   interface{}
		table   string
		name    string
		columns string
	}{
		{&models.Section{}, "sections", "idx_sections_board_sort", "board_id, sort_order"},
		{&models.Item{}, "items", "idx_items_section_sort", "section_id, sort_order"},
		{&models.AccessToken{}, "access_tokens", "idx_access_tokens_board_type", "board_id, type"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.model, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
