// Package postgres implements the backend data contracts directly against a
// PostgreSQL database holding the profiles and notifications tables. It is
// meant for self-hosted and development backends; authentication still goes
// through the hosted auth API.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	"github.com/housersapp/housers/internal/backend"
	"github.com/housersapp/housers/internal/backend/postgres/migrations"
	"github.com/housersapp/housers/internal/dbx"
	"github.com/housersapp/housers/internal/models"
)

const profileColumns = `id, username, COALESCE(full_name, ''), COALESCE(avatar_key, ''), points, terms_accepted_at`

const notificationColumns = `id, user_id, triggering_user_id, type, title, message, related_entity_id, is_read, created_at`

// Store implements backend.ProfileDirectory and backend.NotificationStore.
type Store struct {
	db dbx.DBTX
}

var _ backend.DataStore = (*Store)(nil)

func NewStore(db dbx.DBTX) *Store {
	return &Store{db: db}
}

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

// Open connects to dsn through the pgx stdlib driver and verifies the
// connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sqlOpen("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping postgres: %v", backend.ErrUnavailable, err)
	}
	return db, nil
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded schema.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(s scanner) (*models.Profile, error) {
	p := &models.Profile{}
	err := s.Scan(&p.ID, &p.Username, &p.FullName, &p.AvatarKey, &p.Points, &p.TermsAcceptedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func scanNotification(s scanner) (*models.Notification, error) {
	n := &models.Notification{}
	var kind string
	err := s.Scan(&n.ID, &n.RecipientUserID, &n.TriggeringUserID, &kind, &n.Title, &n.Message,
		&n.RelatedEntityID, &n.IsRead, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	n.Kind = models.ParseNotificationKind(kind)
	return n, nil
}

func (s *Store) ProfilesByUsernames(ctx context.Context, usernames []string) ([]models.Profile, error) {
	if len(usernames) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT `+profileColumns+` FROM profiles WHERE username IN (?)`, usernames)
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	query = sqlx.Rebind(sqlx.DOLLAR, query)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (s *Store) ProfileByUsername(ctx context.Context, username string) (*models.Profile, error) {
	return s.profileWhere(ctx, `username = $1`, username)
}

func (s *Store) ProfileByID(ctx context.Context, id string) (*models.Profile, error) {
	return s.profileWhere(ctx, `id = $1`, id)
}

func (s *Store) profileWhere(ctx context.Context, cond string, arg any) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE ` + cond

	p, err := scanProfile(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, backend.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (s *Store) AcceptTerms(ctx context.Context, id string) error {
	query := `UPDATE profiles SET terms_accepted_at = now() WHERE id = $1`

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return backend.ErrNotFound
	}
	return nil
}

func (s *Store) ListNotifications(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (s *Store) MarkNotificationRead(ctx context.Context, id string) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1`

	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (s *Store) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`

	if _, err := s.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
