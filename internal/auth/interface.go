package auth

import "drive/internal/domain/models"

// JWTVerifier validates bearer tokens for the HTTP layer.
type JWTVerifier interface {
	// VerifyToken returns the parsed claims or domain.ErrUnauthorized.
	VerifyToken(tokenString string) (*models.Claims, error)

	Close() error
}
