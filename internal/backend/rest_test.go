package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/housersapp/housers/internal/common"
)

type recorded struct {
	method string
	path   string
	query  map[string]string
	header http.Header
	body   map[string]any
}

func newTestServer(t *testing.T, status int, respBody string) (*RESTClient, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{
			method: r.Method,
			path:   r.URL.Path,
			query:  map[string]string{},
			header: r.Header.Clone(),
		}
		for k := range r.URL.Query() {
			rec.query[k] = r.URL.Query().Get(k)
		}
		if b, _ := io.ReadAll(r.Body); len(b) > 0 {
			_ = json.Unmarshal(b, &rec.body)
		}
		calls = append(calls, rec)
		w.WriteHeader(status)
		_, _ = io.WriteString(w, respBody)
	}))
	t.Cleanup(srv.Close)

	c, err := NewRESTClient(srv.URL+"/", "anon-key")
	require.NoError(t, err)
	return c, &calls
}

func TestNewRESTClient_InvalidURL(t *testing.T) {
	_, err := NewRESTClient("not a url", "k")
	require.Error(t, err)
}

func TestRESTClient_ProfilesByUsernames(t *testing.T) {
	c, calls := newTestServer(t, http.StatusOK,
		`[{"id":"u-1","username":"alice","points":120},{"id":"u-2","username":"bob","points":0}]`)

	got, err := c.ProfilesByUsernames(context.Background(), []string{"alice", "bob", "ghost"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "u-1", got[0].ID)
	assert.Equal(t, 120, got[0].Points)

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, http.MethodGet, call.method)
	assert.Equal(t, "/rest/v1/profiles", call.path)
	assert.Equal(t, `in.("alice","bob","ghost")`, call.query["username"])
	assert.Equal(t, profileColumns, call.query["select"])
	assert.Equal(t, "anon-key", call.header.Get(common.APIKeyHeaderName))
	assert.Equal(t, "Bearer anon-key", call.header.Get(common.AuthorizationHeaderName))
}

func TestRESTClient_ProfilesByUsernames_EmptyInputSkipsCall(t *testing.T) {
	c, calls := newTestServer(t, http.StatusOK, `[]`)

	got, err := c.ProfilesByUsernames(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, *calls)
}

func TestRESTClient_ProfileByID_NotFound(t *testing.T) {
	c, calls := newTestServer(t, http.StatusOK, `[]`)

	_, err := c.ProfileByID(context.Background(), "u-9")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "eq.u-9", (*calls)[0].query["id"])
	assert.Equal(t, "1", (*calls)[0].query["limit"])
}

func TestRESTClient_ProfileByUsername(t *testing.T) {
	c, calls := newTestServer(t, http.StatusOK, `[{"id":"u-1","username":"alice"}]`)

	p, err := c.ProfileByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "u-1", p.ID)
	assert.Equal(t, "eq.alice", (*calls)[0].query["username"])
}

func TestRESTClient_AcceptTerms(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	old := now
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = old })

	c, calls := newTestServer(t, http.StatusNoContent, "")
	require.NoError(t, c.AcceptTerms(context.Background(), "u-1"))

	call := (*calls)[0]
	assert.Equal(t, http.MethodPatch, call.method)
	assert.Equal(t, "eq.u-1", call.query["id"])
	assert.Equal(t, "2026-03-01T12:00:00Z", call.body["terms_accepted_at"])
	assert.Equal(t, "return=minimal", call.header.Get(common.PreferHeaderName))
}

func TestRESTClient_ListNotifications(t *testing.T) {
	c, calls := newTestServer(t, http.StatusOK, `[
		{"id":"n-1","user_id":"u-1","type":"like","title":"t","message":"m","is_read":false,"created_at":"2026-01-02T00:00:00Z"},
		{"id":"n-2","user_id":"u-1","type":"mystery","title":"t","message":"m","is_read":true,"created_at":"2026-01-01T00:00:00Z"}
	]`)

	got, err := c.ListNotifications(context.Background(), "u-1", 50)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "like", string(got[0].Kind))
	assert.Equal(t, "other", string(got[1].Kind))
	assert.True(t, got[1].IsRead)

	q := (*calls)[0].query
	assert.Equal(t, "eq.u-1", q["user_id"])
	assert.Equal(t, "created_at.desc", q["order"])
	assert.Equal(t, "50", q["limit"])
}

func TestRESTClient_MarkRead(t *testing.T) {
	c, calls := newTestServer(t, http.StatusNoContent, "")

	require.NoError(t, c.MarkNotificationRead(context.Background(), "n-1"))
	require.NoError(t, c.MarkAllNotificationsRead(context.Background(), "u-1"))

	require.Len(t, *calls, 2)
	single, bulk := (*calls)[0], (*calls)[1]
	assert.Equal(t, "eq.n-1", single.query["id"])
	assert.Equal(t, true, single.body["is_read"])
	assert.Equal(t, "eq.u-1", bulk.query["user_id"])
	assert.Equal(t, "eq.false", bulk.query["is_read"])
	assert.Equal(t, true, bulk.body["is_read"])
}

func TestRESTClient_SignInStoresBearer(t *testing.T) {
	c, calls := newTestServer(t, http.StatusOK,
		`{"access_token":"at","refresh_token":"rt","user":{"id":"u-1"}}`)

	tok, err := c.SignIn(context.Background(), "a@b.c", "secret")
	require.NoError(t, err)
	assert.Equal(t, &Tokens{AccessToken: "at", RefreshToken: "rt", UserID: "u-1"}, tok)

	call := (*calls)[0]
	assert.Equal(t, "/auth/v1/token", call.path)
	assert.Equal(t, "password", call.query["grant_type"])
	assert.Equal(t, "a@b.c", call.body["email"])

	require.NoError(t, c.UpdatePassword(context.Background(), "new-secret"))
	upd := (*calls)[1]
	assert.Equal(t, http.MethodPut, upd.method)
	assert.Equal(t, "/auth/v1/user", upd.path)
	assert.Equal(t, "Bearer at", upd.header.Get(common.AuthorizationHeaderName))

	c.SetAccessToken("")
	require.NoError(t, c.RequestPasswordReset(context.Background(), "a@b.c"))
	assert.Equal(t, "/auth/v1/recover", (*calls)[2].path)
	assert.Equal(t, "Bearer anon-key", (*calls)[2].header.Get(common.AuthorizationHeaderName))
}

func TestRESTClient_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, ErrUnauthorized},
		{"forbidden", http.StatusForbidden, ErrUnauthorized},
		{"not found", http.StatusNotFound, ErrNotFound},
		{"server error", http.StatusBadGateway, ErrUnavailable},
		{"bad request", http.StatusBadRequest, ErrUnexpectedStatus},
		{"bad request is a network error", http.StatusBadRequest, common.ErrNetwork},
		{"conflict", http.StatusConflict, common.ErrNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestServer(t, tt.status, `{"message":"nope"}`)
			_, err := c.ListNotifications(context.Background(), "u-1", 50)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRESTClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewRESTClient(url, "k")
	require.NoError(t, err)
	err = c.MarkNotificationRead(context.Background(), "n-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNetwork))
}

func TestRESTClient_DecodeError(t *testing.T) {
	c, _ := newTestServer(t, http.StatusOK, `{not json`)
	_, err := c.ListNotifications(context.Background(), "u-1", 50)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnavailable))
}

func TestQuoteList(t *testing.T) {
	assert.Equal(t, `"a","b\"c","d\\e"`, quoteList([]string{"a", `b"c`, `d\e`}))
}
