package database

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Plan indexes for the dashboard listing
		{"plans", "idx_plans_author_id", "author_id"},
		{"plans", "idx_plans_created_at", "created_at"},

		// Collaborator lookups by plan and by user
		{"plan_collaborators", "idx_plan_collaborators_plan_id", "plan_id"},
		{"plan_collaborators", "idx_plan_collaborators_user_id", "user_id"},

		// Item and comment loads per plan
		{"plan_items", "idx_plan_items_plan_id", "plan_id"},
		{"comments", "idx_comments_plan_id", "plan_id"},

		// Unread notification lookups per recipient
		{"notifications", "idx_notifications_recipient_read", "recipient_id, is_read"},
	}

	for _, idx := range indexes {
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		slog.Info("created index", "index", idx.name, "table", idx.table)
	}

	return nil
}
