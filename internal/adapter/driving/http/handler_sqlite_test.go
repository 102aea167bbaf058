package httphandler_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/credvault/internal/adapter/driven/codec"
	sqliteadapter "github.com/ericfisherdev/credvault/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/credvault/internal/adapter/driving/http"
	"github.com/ericfisherdev/credvault/internal/application"
	"github.com/ericfisherdev/credvault/internal/domain/model"
)

// setupTestDB opens a migrated SQLite database in a per-test temp directory.
func setupTestDB(t *testing.T) *sqliteadapter.DB {
	t.Helper()

	db, err := sqliteadapter.NewDB(context.Background(), filepath.Join(t.TempDir(), "credvault.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, sqliteadapter.RunMigrations(db.Writer.DB))
	return db
}

// setupSQLiteMux wires the full stack over a real database. Log output goes to
// the returned buffer.
func setupSQLiteMux(t *testing.T) (http.Handler, *sqliteadapter.CredentialRepo, *bytes.Buffer) {
	t.Helper()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	repo := sqliteadapter.NewCredentialRepo(setupTestDB(t))
	c := codec.Base64{}
	h := httphandler.NewHandler(
		application.NewCredentialService(repo, c, logger),
		application.NewHealthService(repo, c),
		logger,
	)
	return httphandler.NewServeMux(h, logger), repo, &logs
}

func TestCredentialLifecycle_SQLite(t *testing.T) {
	mux, _, _ := setupSQLiteMux(t)

	rec := do(t, mux, http.MethodPost, "/api/v1/credentials",
		`{"category":"mail","application":"webmail","username":"jo","secret":"pässwörd-🔑"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/api/v1/credentials/1", rec.Header().Get("Location"))

	var created map[string]any
	decodeJSON(t, rec, &created)
	assert.Equal(t, float64(1), created["id"])
	assert.NotEqual(t, "pässwörd-🔑", created["secret"])

	rec = do(t, mux, http.MethodGet, "/api/v1/credentials/1?reveal=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var revealed map[string]any
	decodeJSON(t, rec, &revealed)
	assert.Equal(t, "pässwörd-🔑", revealed["secret"])

	rec = do(t, mux, http.MethodPut, "/api/v1/credentials/1",
		`{"category":"work","application":"vpn","username":"jo2","secret":"new-secret"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, mux, http.MethodPut, "/api/v1/credentials/99",
		`{"category":"work","application":"vpn","username":"jo2","secret":"new-secret"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, mux, http.MethodGet, "/api/v1/credentials/1?reveal=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var updated map[string]any
	decodeJSON(t, rec, &updated)
	assert.Equal(t, "work", updated["category"])
	assert.Equal(t, "vpn", updated["application"])
	assert.Equal(t, "jo2", updated["username"])
	assert.Equal(t, "new-secret", updated["secret"])

	rec = do(t, mux, http.MethodGet, "/api/v1/credentials", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]any
	decodeJSON(t, rec, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "bmV3LXNlY3JldA==", list[0]["secret"])

	rec = do(t, mux, http.MethodDelete, "/api/v1/credentials/1", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, mux, http.MethodDelete, "/api/v1/credentials/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, mux, http.MethodGet, "/api/v1/credentials/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMalformedSecret_SQLite(t *testing.T) {
	mux, repo, logs := setupSQLiteMux(t)

	stored, err := repo.Insert(context.Background(), model.Credential{
		Category: "c", Application: "a", Username: "u", Secret: "%%%",
	})
	require.NoError(t, err)
	target := "/api/v1/credentials/" + strconv.FormatInt(stored.ID, 10)

	rec := do(t, mux, http.MethodGet, target+"?reveal=true", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	decodeJSON(t, rec, &body)
	assert.Equal(t, "stored secret is malformed", body["error"])
	assert.Equal(t, 1, strings.Count(logs.String(), "stored secret is malformed"), "logged exactly once")

	rec = do(t, mux, http.MethodGet, target, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
