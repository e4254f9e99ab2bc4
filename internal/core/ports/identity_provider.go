package ports

import "context"

// IdentityProvider abstracts the OAuth provider: building the authorization
// redirect and exchanging the callback code for a verified identity.
type IdentityProvider interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*ExternalIdentity, error)
}
