package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/credvault/internal/domain/model"
	"github.com/ericfisherdev/credvault/internal/domain/port/driven"
)

// CredentialService applies the secret codec around the credential store.
// Secrets are encoded on every write; reads return the stored form unless the
// caller asks for the secret to be revealed.
type CredentialService struct {
	store  driven.CredentialStore
	codec  driven.SecretCodec
	logger *slog.Logger
}

// NewCredentialService creates a CredentialService with the required dependencies.
func NewCredentialService(store driven.CredentialStore, codec driven.SecretCodec, logger *slog.Logger) *CredentialService {
	return &CredentialService{
		store:  store,
		codec:  codec,
		logger: logger,
	}
}

// Add encodes the plaintext secret and stores the credential. The returned
// record is the stored one, so its Secret holds the encoded form rather than
// the plaintext the caller submitted.
func (s *CredentialService) Add(ctx context.Context, cred model.Credential) (model.Credential, error) {
	encoded, err := s.codec.Encode(cred.Secret)
	if err != nil {
		return model.Credential{}, fmt.Errorf("encode secret: %w", err)
	}
	cred.Secret = encoded

	created, err := s.store.Insert(ctx, cred)
	if err != nil {
		return model.Credential{}, err
	}

	s.logger.Debug("credential added", "id", created.ID, "category", created.Category, "application", created.Application)
	return created, nil
}

// List returns all credentials with their secrets in stored form.
func (s *CredentialService) List(ctx context.Context) ([]model.Credential, error) {
	return s.store.List(ctx)
}

// GetByID returns the credential with the given ID, or nil, nil if absent.
// When reveal is true the returned copy carries the decoded secret; the stored
// row is left untouched. A stored secret that fails to decode yields an error
// wrapping driven.ErrMalformedSecret.
func (s *CredentialService) GetByID(ctx context.Context, id int64, reveal bool) (*model.Credential, error) {
	cred, err := s.store.GetByID(ctx, id)
	if err != nil || cred == nil {
		return nil, err
	}

	if !reveal {
		return cred, nil
	}

	plaintext, err := s.codec.Decode(cred.Secret)
	if err != nil {
		return nil, fmt.Errorf("reveal credential %d with %s codec: %w", id, s.codec.Name(), err)
	}

	revealed := *cred
	revealed.Secret = plaintext
	return &revealed, nil
}

// Update replaces category, application, username and secret of the
// credential with the given ID, encoding the new secret. Returns nil, nil if
// the ID is unknown; otherwise the record as stored.
func (s *CredentialService) Update(ctx context.Context, id int64, cred model.Credential) (*model.Credential, error) {
	encoded, err := s.codec.Encode(cred.Secret)
	if err != nil {
		return nil, fmt.Errorf("encode secret: %w", err)
	}
	cred.Secret = encoded

	updated, err := s.store.Update(ctx, id, cred)
	if err != nil || updated == nil {
		return nil, err
	}

	s.logger.Debug("credential updated", "id", id)
	return updated, nil
}

// Delete removes the credential with the given ID and reports whether it existed.
func (s *CredentialService) Delete(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return false, err
	}

	if deleted {
		s.logger.Debug("credential deleted", "id", id)
	}
	return deleted, nil
}
