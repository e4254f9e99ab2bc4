// Package oauth implements the Google identity provider used by the auth
// flow: authorization redirect, code exchange, and userinfo retrieval.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/civicgate/portal/internal/core/ports"
)

const userinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// googleEndpoint is Google's OAuth2 endpoint pair.
var googleEndpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.google.com/o/oauth2/v2/auth",
	TokenURL: "https://oauth2.googleapis.com/token",
}

// GoogleProvider implements ports.IdentityProvider against Google's OAuth2
// endpoints.
type GoogleProvider struct {
	conf *oauth2.Config
}

// NewGoogleProvider builds the provider from client credentials and the
// registered callback URL.
func NewGoogleProvider(clientID, clientSecret, redirectURL string) *GoogleProvider {
	return &GoogleProvider{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     googleEndpoint,
		},
	}
}

// AuthURL returns the authorization redirect carrying the given state.
func (p *GoogleProvider) AuthURL(state string) string {
	return p.conf.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// googleUserinfo is the subset of Google's userinfo response the portal uses.
type googleUserinfo struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
}

// Exchange trades the callback code for tokens and fetches the user profile.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*ports.ExternalIdentity, error) {
	token, err := p.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("google code exchange: %w", err)
	}

	client := p.conf.Client(ctx, token)
	resp, err := client.Get(userinfoURL)
	if err != nil {
		return nil, fmt.Errorf("google userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google userinfo: unexpected status %d", resp.StatusCode)
	}

	var info googleUserinfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}

	return &ports.ExternalIdentity{
		Provider:     "google",
		ID:           info.ID,
		Email:        info.Email,
		FirstName:    info.GivenName,
		LastName:     info.FamilyName,
		Picture:      info.Picture,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}, nil
}
