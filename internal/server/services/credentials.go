// Package services holds the tracker's use cases: credential custody, the
// sync orchestrator, the quote cache, checkmarks, stats and report export.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/prodtracker/internal/common"
	"github.com/dmitrijs2005/prodtracker/internal/cryptox"
	"github.com/dmitrijs2005/prodtracker/internal/server/models"
	"github.com/dmitrijs2005/prodtracker/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/prodtracker/internal/server/sources"
)

// CredentialService is the only place where credentials cross between
// plaintext and ciphertext.
type CredentialService struct {
	repomanager repomanager.RepositoryManager
	vault       *cryptox.Vault
}

func NewCredentialService(m repomanager.RepositoryManager, vault *cryptox.Vault) *CredentialService {
	return &CredentialService{repomanager: m, vault: vault}
}

// Save encrypts cred and stores it for (ownerID, source).
func (s *CredentialService) Save(ctx context.Context, ownerID string, source models.Source, cred *sources.Credential) error {
	ct, err := s.vault.EncryptEntry(cred)
	if err != nil {
		return fmt.Errorf("encrypt credential: %w", err)
	}
	sc := &models.SyncCredential{OwnerID: ownerID, Source: source, Ciphertext: ct}
	if !cred.Expiry.IsZero() {
		exp := cred.Expiry
		sc.ExpiresAt = &exp
	}
	return s.repomanager.Credentials(s.repomanager.Conn()).Save(ctx, sc)
}

// Load returns the decrypted credential. A missing credential, or one that
// no longer decrypts under the current key, yields common.ErrNoCredential.
func (s *CredentialService) Load(ctx context.Context, ownerID string, source models.Source) (*sources.Credential, error) {
	sc, err := s.repomanager.Credentials(s.repomanager.Conn()).Find(ctx, ownerID, source)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: %s", common.ErrNoCredential, source)
		}
		return nil, err
	}

	cred := &sources.Credential{}
	if err := s.vault.DecryptEntry(sc.Ciphertext, cred); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrNoCredential, err)
	}
	return cred, nil
}

func (s *CredentialService) Delete(ctx context.Context, ownerID string, source models.Source) error {
	return s.repomanager.Credentials(s.repomanager.Conn()).Delete(ctx, ownerID, source)
}
