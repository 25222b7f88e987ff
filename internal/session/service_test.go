package session

import (
	"context"
	"testing"

	"github.com/99designs/keyring"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/housersapp/housers/internal/backend"
	"github.com/housersapp/housers/internal/common"
	"github.com/housersapp/housers/internal/localdb"
	"github.com/housersapp/housers/internal/logging"
	"github.com/housersapp/housers/internal/repositories/metadata"
)

type sinkRecorder struct{ tokens []string }

func (s *sinkRecorder) SetAccessToken(t string) { s.tokens = append(s.tokens, t) }

type fixture struct {
	mem   *backend.Memory
	store *KeyringStore
	meta  metadata.Repository
	sink  *sinkRecorder
	svc   Service
	id    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := localdb.Open(context.Background(), localdb.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &fixture{
		mem:   backend.NewMemory(),
		store: NewKeyringStore(keyring.NewArrayKeyring(nil)),
		meta:  metadata.NewSQLiteRepository(db),
		sink:  &sinkRecorder{},
		id:    uuid.NewString(),
	}
	f.mem.AddAccount("ann@example.com", "secret1", f.id)
	f.svc = NewService(f.mem, f.store, f.meta, f.sink, backend.MemorySigningKey, logging.Nop())
	return f
}

func TestService_SignIn(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.CurrentUserID()
	require.ErrorIs(t, err, common.ErrNoSession)

	id, err := f.svc.SignIn(ctx, " ann@example.com ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, f.id, id)

	cur, err := f.svc.CurrentUserID()
	require.NoError(t, err)
	assert.Equal(t, f.id, cur)
	assert.NotEmpty(t, f.svc.AccessToken())
	assert.Equal(t, []string{f.svc.AccessToken()}, f.sink.tokens)

	stored, err := f.store.Load()
	require.NoError(t, err)
	assert.Equal(t, f.svc.AccessToken(), stored.AccessToken)
	assert.Equal(t, f.id, f.svc.LastUserID(ctx))
}

func TestService_SignIn_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SignIn(ctx, "", "x")
	assert.ErrorIs(t, err, common.ErrValidation)
	_, err = f.svc.SignIn(ctx, "ann@example.com", "")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestService_SignIn_WrongPassword(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SignIn(context.Background(), "ann@example.com", "nope")
	require.ErrorIs(t, err, common.ErrUnauthorized)
	assert.Empty(t, f.svc.AccessToken())
	assert.Empty(t, f.sink.tokens)
}

func TestService_RestoreAndSignOut(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.svc.SignIn(ctx, "ann@example.com", "secret1")
	require.NoError(t, err)

	// a fresh process with the same keyring
	next := NewService(f.mem, f.store, f.meta, nil, backend.MemorySigningKey, logging.Nop())
	id, err := next.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, f.id, id)

	require.NoError(t, next.SignOut(ctx))
	_, err = next.CurrentUserID()
	assert.ErrorIs(t, err, common.ErrNoSession)
	_, err = next.Restore(ctx)
	assert.ErrorIs(t, err, common.ErrNoSession)

	// the device still remembers who used it last
	assert.Equal(t, f.id, next.LastUserID(ctx))
}

func TestService_RestoreExpired(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.svc.SignIn(ctx, "ann@example.com", "secret1")
	require.NoError(t, err)

	freezeNow(t, now().Add(2*backend.MemoryTokenTTL))

	_, err = f.svc.Restore(ctx)
	require.ErrorIs(t, err, common.ErrSessionExpired)
	_, err = f.store.Load()
	assert.ErrorIs(t, err, common.ErrNoSession)
}
