package driven

import (
	"context"

	"github.com/ericfisherdev/credvault/internal/domain/model"
)

// CredentialStore defines the driven port for credential persistence.
// Values pass through unchanged: the secret is stored exactly as given, so
// encoding is the caller's responsibility.
type CredentialStore interface {
	// Insert persists a new credential and returns it with the assigned ID.
	// Any ID set on the argument is ignored.
	Insert(ctx context.Context, cred model.Credential) (model.Credential, error)

	// List returns every stored credential in storage order.
	List(ctx context.Context) ([]model.Credential, error)

	// GetByID returns the credential with the given ID.
	// Returns nil, nil if no such credential exists.
	GetByID(ctx context.Context, id int64) (*model.Credential, error)

	// Update overwrites category, application, username and secret of the
	// credential with the given ID and returns the updated row.
	// Returns nil, nil if no such credential exists.
	Update(ctx context.Context, id int64, cred model.Credential) (*model.Credential, error)

	// Delete removes the credential with the given ID. The boolean reports
	// whether a row existed and was removed.
	Delete(ctx context.Context, id int64) (bool, error)

	// Ping reports whether the underlying storage is reachable.
	Ping(ctx context.Context) error
}
