// Package auth verifies Firebase identities and issues the dashboard token.
package auth

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

var (
	ErrInvalidIDToken   = errors.New("invalid or revoked ID token")
	ErrMissingEmail     = errors.New("email not found in token")
	ErrUnverifiedEmail  = errors.New("email address not verified")
	ErrIdentityDisabled = errors.New("identity provider not configured")
)

// Identity is the verified subject of a Firebase ID token.
type Identity struct {
	UID     string
	Email   string
	Name    string
	Picture string
}

type Verifier interface {
	Verify(ctx context.Context, idToken string) (Identity, error)
}

type FirebaseVerifier struct {
	client    *fbauth.Client
	projectID string
}

// NewFirebaseVerifier builds the Firebase auth client from the service
// account JSON held in the environment.
func NewFirebaseVerifier(ctx context.Context, projectID, credentialsJSON string) (*FirebaseVerifier, error) {
	opt := option.WithCredentialsJSON([]byte(credentialsJSON))
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opt)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase auth client: %w", err)
	}
	return &FirebaseVerifier{client: client, projectID: projectID}, nil
}

func (f *FirebaseVerifier) Verify(ctx context.Context, idToken string) (Identity, error) {
	token, err := f.client.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidIDToken, err)
	}
	if token.Audience != f.projectID {
		return Identity{}, fmt.Errorf("%w: audience %q", ErrInvalidIDToken, token.Audience)
	}
	return identityFromClaims(token.UID, token.Claims)
}

// identityFromClaims maps verified token claims to an Identity. Only
// verified email addresses are accepted, since the email is what admin rows
// and the super admin check key on.
func identityFromClaims(uid string, claims map[string]interface{}) (Identity, error) {
	email, _ := claims["email"].(string)
	if email == "" {
		return Identity{}, ErrMissingEmail
	}
	if verified, _ := claims["email_verified"].(bool); !verified {
		return Identity{}, ErrUnverifiedEmail
	}
	name, _ := claims["name"].(string)
	picture, _ := claims["picture"].(string)
	return Identity{UID: uid, Email: email, Name: name, Picture: picture}, nil
}

// DisabledVerifier rejects every login. It is used when Firebase credentials
// are not configured, so the storefront can still run.
type DisabledVerifier struct{}

func (DisabledVerifier) Verify(context.Context, string) (Identity, error) {
	return Identity{}, ErrIdentityDisabled
}
