package postgres

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/housersapp/housers/internal/backend"
	"github.com/housersapp/housers/internal/backend/postgres/migrations"
	"github.com/housersapp/housers/internal/models"
)

var profileCols = []string{"id", "username", "full_name", "avatar_key", "points", "terms_accepted_at"}

var notificationCols = []string{"id", "user_id", "triggering_user_id", "type", "title", "message",
	"related_entity_id", "is_read", "created_at"}

func newStoreWithMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewStore(db), mock
}

func TestProfilesByUsernames_Success(t *testing.T) {
	s, mock := newStoreWithMock(t)

	accepted := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(profileCols).
		AddRow("u-1", "alice", "Alice A", "avatars/u-1.png", int64(120), accepted).
		AddRow("u-2", "bob", "", "", int64(0), nil)
	mock.ExpectQuery(`(?s)^SELECT .+ FROM profiles WHERE username IN \(\$1, \$2, \$3\)$`).
		WithArgs("alice", "bob", "ghost").
		WillReturnRows(rows)

	got, err := s.ProfilesByUsernames(context.Background(), []string{"alice", "bob", "ghost"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Alice A", got[0].FullName)
	assert.Equal(t, 120, got[0].Points)
	require.NotNil(t, got[0].TermsAcceptedAt)
	assert.True(t, accepted.Equal(*got[0].TermsAcceptedAt))
	assert.Nil(t, got[1].TermsAcceptedAt)
}

func TestProfilesByUsernames_EmptySkipsQuery(t *testing.T) {
	s, _ := newStoreWithMock(t)

	got, err := s.ProfilesByUsernames(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestProfilesByUsernames_DBError(t *testing.T) {
	s, mock := newStoreWithMock(t)

	mock.ExpectQuery(`FROM profiles WHERE username IN`).
		WithArgs("alice").
		WillReturnError(errors.New("db down"))

	_, err := s.ProfilesByUsernames(context.Background(), []string{"alice"})
	require.ErrorContains(t, err, "db error: db down")
}

func TestProfileByUsername_NotFound(t *testing.T) {
	s, mock := newStoreWithMock(t)

	mock.ExpectQuery(`(?s)^SELECT .+ FROM profiles WHERE username = \$1$`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := s.ProfileByUsername(context.Background(), "ghost")
	require.ErrorIs(t, err, backend.ErrNotFound)
}

func TestProfileByID_Found(t *testing.T) {
	s, mock := newStoreWithMock(t)

	mock.ExpectQuery(`(?s)^SELECT .+ FROM profiles WHERE id = \$1$`).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows(profileCols).AddRow("u-1", "alice", "", "", int64(5), nil))

	p, err := s.ProfileByID(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Username)
}

func TestAcceptTerms(t *testing.T) {
	s, mock := newStoreWithMock(t)
	q := `^UPDATE profiles SET terms_accepted_at = now\(\) WHERE id = \$1$`

	mock.ExpectExec(q).WithArgs("u-1").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.AcceptTerms(context.Background(), "u-1"))

	mock.ExpectExec(q).WithArgs("u-9").WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, s.AcceptTerms(context.Background(), "u-9"), backend.ErrNotFound)
}

func TestListNotifications(t *testing.T) {
	s, mock := newStoreWithMock(t)

	created := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(notificationCols).
		AddRow("n-1", "u-1", "u-2", "like", "New like", "bob liked your listing", "l-1", false, created).
		AddRow("n-2", "u-1", nil, "weird", "Hi", "", nil, true, created.Add(-time.Hour))
	mock.ExpectQuery(`(?s)^SELECT .+ FROM notifications\s+WHERE user_id = \$1\s+ORDER BY created_at DESC\s+LIMIT \$2$`).
		WithArgs("u-1", 50).
		WillReturnRows(rows)

	got, err := s.ListNotifications(context.Background(), "u-1", 50)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, models.KindLike, got[0].Kind)
	require.NotNil(t, got[0].TriggeringUserID)
	assert.Equal(t, "u-2", *got[0].TriggeringUserID)
	assert.Equal(t, models.KindOther, got[1].Kind)
	assert.Nil(t, got[1].RelatedEntityID)
	assert.True(t, got[1].IsRead)
}

func TestListNotifications_ScanError(t *testing.T) {
	s, mock := newStoreWithMock(t)

	rows := sqlmock.NewRows(notificationCols).
		AddRow("n-1", "u-1", nil, "like", "t", "m", nil, "not-a-bool", time.Now())
	mock.ExpectQuery(`FROM notifications`).WithArgs("u-1", 50).WillReturnRows(rows)

	_, err := s.ListNotifications(context.Background(), "u-1", 50)
	require.ErrorContains(t, err, "db error")
}

func TestMarkRead(t *testing.T) {
	s, mock := newStoreWithMock(t)

	mock.ExpectExec(`^UPDATE notifications SET is_read = TRUE WHERE id = \$1$`).
		WithArgs("n-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`^UPDATE notifications SET is_read = TRUE WHERE user_id = \$1 AND is_read = FALSE$`).
		WithArgs("u-1").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`^UPDATE notifications SET is_read = TRUE WHERE id = \$1$`).
		WithArgs("n-2").WillReturnError(errors.New("conn reset"))

	require.NoError(t, s.MarkNotificationRead(context.Background(), "n-1"))
	require.NoError(t, s.MarkAllNotificationsRead(context.Background(), "u-1"))
	require.ErrorContains(t, s.MarkNotificationRead(context.Background(), "n-2"), "db error: conn reset")
}

func TestOpen_PingFailure(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	mock.ExpectPing().WillReturnError(errors.New("refused"))

	orig := sqlOpen
	sqlOpen = func(driver, dsn string) (*sql.DB, error) {
		assert.Equal(t, "pgx", driver)
		return db, nil
	}
	t.Cleanup(func() { sqlOpen = orig })

	_, err = Open(context.Background(), "postgres://x")
	require.ErrorIs(t, err, backend.ErrUnavailable)
}

func TestOpen_Success(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	mock.ExpectPing()

	orig := sqlOpen
	sqlOpen = func(string, string) (*sql.DB, error) { return db, nil }
	t.Cleanup(func() { sqlOpen = orig })

	got, err := Open(context.Background(), "postgres://x")
	require.NoError(t, err)
	assert.Same(t, db, got)
	_ = got.Close()
}

func TestRunMigrations(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if dir != "." {
			return errors.New("unexpected dir")
		}
		return nil
	}
	require.NoError(t, RunMigrations(context.Background(), db))

	gooseUpContext = func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	require.EqualError(t, RunMigrations(context.Background(), db), "boom")
}

func TestMigrationsEmbedded(t *testing.T) {
	names, err := fs.Glob(migrations.Migrations, "*.sql")
	require.NoError(t, err)
	assert.Equal(t, []string{"00001_profiles.sql", "00002_notifications.sql"}, names)
}
