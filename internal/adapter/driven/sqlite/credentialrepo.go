package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ericfisherdev/credvault/internal/domain/model"
	"github.com/ericfisherdev/credvault/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CredentialStore = (*CredentialRepo)(nil)

const credentialColumns = `id, category, application, username, secret`

// CredentialRepo is the SQLite implementation of the CredentialStore port interface.
// Every method checks out a dedicated connection for the duration of the call
// and returns it to the pool on all exit paths.
type CredentialRepo struct {
	db *DB
}

// NewCredentialRepo creates a new CredentialRepo backed by the given DB.
func NewCredentialRepo(db *DB) *CredentialRepo {
	return &CredentialRepo{db: db}
}

// Insert stores a new credential and returns it with the ID assigned by SQLite.
func (r *CredentialRepo) Insert(ctx context.Context, cred model.Credential) (model.Credential, error) {
	conn, err := r.db.Writer.Connx(ctx)
	if err != nil {
		return model.Credential{}, fmt.Errorf("acquire writer connection: %w", err)
	}
	defer conn.Close()

	const query = `INSERT INTO credentials (category, application, username, secret)
		VALUES (?, ?, ?, ?) RETURNING id`

	var id int64
	err = conn.GetContext(ctx, &id, query, cred.Category, cred.Application, cred.Username, cred.Secret)
	if err != nil {
		return model.Credential{}, fmt.Errorf("insert credential %q/%q: %w", cred.Category, cred.Application, err)
	}

	cred.ID = id
	return cred, nil
}

// List returns all credentials ordered by ID.
func (r *CredentialRepo) List(ctx context.Context) ([]model.Credential, error) {
	conn, err := r.db.Reader.Connx(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire reader connection: %w", err)
	}
	defer conn.Close()

	const query = `SELECT ` + credentialColumns + ` FROM credentials ORDER BY id`

	creds := []model.Credential{}
	if err := conn.SelectContext(ctx, &creds, query); err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}

	return creds, nil
}

// GetByID returns the credential with the given ID, or nil, nil if it does not exist.
func (r *CredentialRepo) GetByID(ctx context.Context, id int64) (*model.Credential, error) {
	conn, err := r.db.Reader.Connx(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire reader connection: %w", err)
	}
	defer conn.Close()

	const query = `SELECT ` + credentialColumns + ` FROM credentials WHERE id = ?`

	return getOne(ctx, conn, fmt.Sprintf("get credential %d", id), query, id)
}

// Update overwrites every mutable column of the credential with the given ID.
// Returns nil, nil if the ID is unknown. Concurrent updates are last-writer-wins.
func (r *CredentialRepo) Update(ctx context.Context, id int64, cred model.Credential) (*model.Credential, error) {
	conn, err := r.db.Writer.Connx(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire writer connection: %w", err)
	}
	defer conn.Close()

	const query = `UPDATE credentials
		SET category = ?, application = ?, username = ?, secret = ?
		WHERE id = ?
		RETURNING ` + credentialColumns

	return getOne(ctx, conn, fmt.Sprintf("update credential %d", id), query,
		cred.Category, cred.Application, cred.Username, cred.Secret, id)
}

// Delete removes the credential with the given ID and reports whether it existed.
func (r *CredentialRepo) Delete(ctx context.Context, id int64) (bool, error) {
	conn, err := r.db.Writer.Connx(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire writer connection: %w", err)
	}
	defer conn.Close()

	const query = `DELETE FROM credentials WHERE id = ?`

	result, err := conn.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("delete credential %d: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("check rows affected: %w", err)
	}

	return rows > 0, nil
}

// Ping checks that the writer connection is usable.
func (r *CredentialRepo) Ping(ctx context.Context) error {
	if err := r.db.Writer.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

// getOne runs a single-row query and maps sql.ErrNoRows to nil, nil.
func getOne(ctx context.Context, conn *sqlx.Conn, op, query string, args ...any) (*model.Credential, error) {
	var cred model.Credential
	err := conn.GetContext(ctx, &cred, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cred, nil
}
