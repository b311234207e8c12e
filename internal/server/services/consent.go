package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/prodtracker/internal/common"
	"github.com/dmitrijs2005/prodtracker/internal/server/auth"
	"github.com/dmitrijs2005/prodtracker/internal/server/models"
	"github.com/dmitrijs2005/prodtracker/internal/server/sources"
)

// CodeExchanger runs the authorization-code leg of an OAuth2 flow.
type CodeExchanger interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*sources.Credential, error)
}

// ConsentService connects a source through OAuth2 consent. The state
// parameter is a signed token binding the callback to the owner who
// started the flow.
type ConsentService struct {
	source      models.Source
	exchanger   CodeExchanger
	credentials *CredentialService
	secret      []byte
	validity    time.Duration
}

func NewConsentService(source models.Source, exchanger CodeExchanger, creds *CredentialService, secret string, validity time.Duration) *ConsentService {
	return &ConsentService{
		source:      source,
		exchanger:   exchanger,
		credentials: creds,
		secret:      []byte(secret),
		validity:    validity,
	}
}

// AuthURL returns the consent page the owner has to visit.
func (s *ConsentService) AuthURL(ownerID string) (string, error) {
	state, err := auth.GenerateState(ownerID, string(s.source), s.secret, s.validity)
	if err != nil {
		return "", err
	}
	return s.exchanger.AuthCodeURL(state), nil
}

// Complete verifies state, trades code for a credential and stores it.
func (s *ConsentService) Complete(ctx context.Context, ownerID, state, code string) error {
	claims, err := auth.ParseState(state, s.secret)
	if err != nil {
		return err
	}
	if claims.OwnerID != ownerID || claims.Source != string(s.source) {
		return fmt.Errorf("%w: state was issued for another owner or source", common.ErrInvalidState)
	}
	if code == "" {
		return fmt.Errorf("%w: empty authorization code", common.ErrValidation)
	}

	cred, err := s.exchanger.Exchange(ctx, code)
	if err != nil {
		return err
	}
	return s.credentials.Save(ctx, ownerID, s.source, cred)
}
