// Package identity exchanges OAuth 2.0 client credentials for a CyberArk
// platform bearer token.
package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/policyops/cyberark-policies/pkg/prompt"
)

// AuthError reports a failed token exchange. StatusCode and Body are zero
// when the failure happened before a response was received.
type AuthError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *AuthError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("authentication failed: status %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
	}
	return fmt.Sprintf("authentication failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// Client performs the client-credentials grant against the identity tenant.
type Client struct {
	TenantID   string
	ClientID   string
	HTTPClient *http.Client

	// TokenURL overrides the derived endpoint; used by tests against local
	// servers.
	TokenURL string
}

func (c *Client) tokenURL() string {
	if c.TokenURL != "" {
		return c.TokenURL
	}
	return fmt.Sprintf("https://%s.id.cyberark.cloud/oauth2/platformtoken", c.TenantID)
}

// Token redeems the secret for a bearer token. The secret is consumed here
// and is not retrievable afterwards. Exactly one attempt is made; any non-2xx
// response, transport failure, or response without an access_token yields an
// AuthError.
func (c *Client) Token(ctx context.Context, secret *prompt.Secret) (string, error) {
	clientSecret, err := secret.Reveal()
	if err != nil {
		return "", fmt.Errorf("reveal client secret: %w", err)
	}

	grant := clientcredentials.Config{
		ClientID:     c.ClientID,
		ClientSecret: clientSecret,
		TokenURL:     c.tokenURL(),
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	if c.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.HTTPClient)
	}

	tok, err := grant.Token(ctx)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			return "", &AuthError{
				StatusCode: retrieveErr.Response.StatusCode,
				Body:       string(retrieveErr.Body),
				Err:        err,
			}
		}
		return "", &AuthError{Err: err}
	}
	if tok.AccessToken == "" {
		return "", &AuthError{Err: errors.New("token response missing access_token")}
	}
	return tok.AccessToken, nil
}
