package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/aceweb/agencyops/internal/domain/activity"
)

// ActivityRepository implements activity.Repository
type ActivityRepository struct {
	db *DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Log inserts a new activity entry
func (r *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	_, err := r.db.exec(ctx, `
		INSERT INTO activity_log (id, actor, entity_type, entity_id, activity_type, summary, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.Actor, string(entry.EntityType), entry.EntityID, string(entry.ActivityType),
		entry.Summary, entry.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}
	return nil
}

// List returns activity entries matching the given filters, newest first
func (r *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	query := `
		SELECT id, actor, entity_type, entity_id, activity_type, summary, created_at
		FROM activity_log
	`
	var conditions []string
	var args []any

	if opts.EntityType != nil {
		conditions = append(conditions, "entity_type = ?")
		args = append(args, string(*opts.EntityType))
	}
	if opts.EntityID != nil {
		conditions = append(conditions, "entity_id = ?")
		args = append(args, *opts.EntityID)
	}
	if opts.ActivityType != nil {
		conditions = append(conditions, "activity_type = ?")
		args = append(args, string(*opts.ActivityType))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY created_at DESC, id ASC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}
	if opts.Offset > 0 {
		if opts.Limit <= 0 && r.db.dialect == DialectSQLite {
			// SQLite only accepts OFFSET after a LIMIT
			query += " LIMIT -1"
		}
		query += " OFFSET ?"
		args = append(args, opts.Offset)
	}

	rows, err := r.db.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	entries := []activity.ActivityEntry{}
	for rows.Next() {
		var entry activity.ActivityEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.Actor,
			&entry.EntityType,
			&entry.EntityID,
			&entry.ActivityType,
			&entry.Summary,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}

	return entries, nil
}
