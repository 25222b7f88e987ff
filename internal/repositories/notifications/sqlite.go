package notifications

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/housersapp/housers/internal/dbx"
	"github.com/housersapp/housers/internal/models"
)

const insertQuery = `INSERT OR REPLACE INTO notifications
	(id, user_id, triggering_user_id, type, title, message, related_entity_id, is_read, created_at)
	VALUES (:id, :user_id, :triggering_user_id, :type, :title, :message, :related_entity_id, :is_read, :created_at)`

// SQLiteRepository implements Repository on the local database.
type SQLiteRepository struct {
	db *sqlx.DB
}

var _ Repository = (*SQLiteRepository)(nil)

func NewSQLiteRepository(db *sqlx.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Save(ctx context.Context, userID string, list []models.Notification) error {
	rows := make([]models.Notification, len(list))
	for i, n := range list {
		n.RecipientUserID = userID
		n.CreatedAt = n.CreatedAt.UTC()
		rows[i] = n
	}

	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.Ext) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM notifications WHERE user_id = ?`, userID); err != nil {
			return fmt.Errorf("failed to clear snapshot: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if _, err := tx.NamedExecContext(ctx, insertQuery, rows); err != nil {
			return fmt.Errorf("failed to insert snapshot: %w", err)
		}
		return nil
	})
}

func (r *SQLiteRepository) Load(ctx context.Context, userID string) ([]models.Notification, error) {
	query := `SELECT id, user_id, triggering_user_id, type, title, message, related_entity_id, is_read, created_at
		FROM notifications
		WHERE user_id = ?
		ORDER BY created_at DESC`

	var out []models.Notification
	if err := r.db.SelectContext(ctx, &out, query, userID); err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	for i := range out {
		out[i].Kind = models.ParseNotificationKind(string(out[i].Kind))
	}
	return out, nil
}

func (r *SQLiteRepository) MarkRead(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`UPDATE notifications SET is_read = 1 WHERE id IN (?)`, ids)
	if err != nil {
		return fmt.Errorf("failed to build mark read: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to mark read: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) MarkAllRead(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = 1 WHERE user_id = ? AND is_read = 0`, userID); err != nil {
		return fmt.Errorf("failed to mark all read: %w", err)
	}
	return nil
}
