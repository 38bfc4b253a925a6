package auth

import (
	"context"

	"github.com/blogworks/postapi/internal/models"
)

// AuthServiceInterface defines the contract for authentication operations.
// This enables mocking for unit tests without requiring a real database.
type AuthServiceInterface interface {
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	ValidateToken(ctx context.Context, tokenString string) (*models.User, error)
}

// Ensure Service implements AuthServiceInterface
var _ AuthServiceInterface = (*Service)(nil)
