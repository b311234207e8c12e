package sources

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/prodtracker/internal/common"
	"golang.org/x/oauth2"
)

// OAuthRefresher exchanges refresh tokens at an OAuth2 token endpoint.
type OAuthRefresher struct {
	config *oauth2.Config
	client *http.Client
}

func NewOAuthRefresher(config *oauth2.Config, client *http.Client) *OAuthRefresher {
	return &OAuthRefresher{config: config, client: client}
}

func (r *OAuthRefresher) Refresh(ctx context.Context, cred *Credential) (*Credential, error) {
	if cred == nil || cred.RefreshToken == "" {
		return nil, fmt.Errorf("%w: no refresh token", common.ErrAuth)
	}
	if r.client != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, r.client)
	}

	// an empty access token forces the source to hit the token endpoint
	tok, err := r.config.TokenSource(ctx, &oauth2.Token{RefreshToken: cred.RefreshToken}).Token()
	if err != nil {
		return nil, classifyTokenError(err)
	}

	next := &Credential{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Account:      cred.Account,
		Expiry:       tok.Expiry,
	}
	if next.RefreshToken == "" {
		next.RefreshToken = cred.RefreshToken
	}
	return next, nil
}

// Exchange trades an authorization code for a first credential.
func (r *OAuthRefresher) Exchange(ctx context.Context, code string) (*Credential, error) {
	if r.client != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, r.client)
	}
	tok, err := r.config.Exchange(ctx, code)
	if err != nil {
		return nil, classifyTokenError(err)
	}
	return &Credential{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	}, nil
}

// AuthCodeURL builds the consent URL carrying state.
func (r *OAuthRefresher) AuthCodeURL(state string) string {
	return r.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

func classifyTokenError(err error) error {
	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) && rerr.Response != nil {
		code := rerr.Response.StatusCode
		if code >= 400 && code < 500 {
			return fmt.Errorf("%w: token endpoint status %d", common.ErrAuth, code)
		}
		return fmt.Errorf("%w: token endpoint status %d", common.ErrNetwork, code)
	}
	return fmt.Errorf("%w: %w", common.ErrNetwork, err)
}
