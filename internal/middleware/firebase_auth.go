package middleware

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/auth"
	"github.com/socialhub/backend/internal/repositories"
)

// FirebaseAuthenticator verifies Firebase ID tokens and resolves the
// Firebase UID to the local user row carrying the admin flag.
type FirebaseAuthenticator struct {
	authClient *auth.Client
	users      repositories.UserRepository
}

// NewFirebaseAuthenticator creates a FirebaseAuthenticator.
func NewFirebaseAuthenticator(authClient *auth.Client, users repositories.UserRepository) *FirebaseAuthenticator {
	return &FirebaseAuthenticator{authClient: authClient, users: users}
}

// Authenticate verifies the ID token and looks up the local user by
// Firebase UID.
func (a *FirebaseAuthenticator) Authenticate(ctx context.Context, tokenString string) (uint, bool, error) {
	token, err := a.authClient.VerifyIDToken(ctx, tokenString)
	if err != nil {
		return 0, false, fmt.Errorf("invalid or expired ID token: %w", err)
	}
	user, err := a.users.GetUserByFirebaseUID(token.UID)
	if err != nil {
		return 0, false, fmt.Errorf("authenticated user not found: %w", err)
	}
	return user.ID, user.IsAdmin, nil
}
