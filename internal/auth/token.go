package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"ms-bakery/internal/models"
)

// ExtractTokenFromRequest extracts a JWT token from an HTTP request's Authorization header
func ExtractTokenFromRequest(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("authorization header is missing")
	}

	// Bearer token format: "Bearer {token}"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errors.New("authorization header format must be 'Bearer {token}'")
	}

	return parts[1], nil
}

// ExtractUserFromJWT parses the token and pulls the 'sub' and 'role' claims.
// Signature verification happens in the OIDC middleware; this only decodes.
func ExtractUserFromJWT(tokenString string) (models.CurrentUser, error) {
	if tokenString == "" {
		return models.CurrentUser{}, errors.New("empty token")
	}

	token, _, err := new(jwt.Parser).ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return models.CurrentUser{}, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.CurrentUser{}, errors.New("invalid token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return models.CurrentUser{}, errors.New("subject claim not found in token")
	}

	// Role claim is optional in the token; default to sales (least privilege)
	role, _ := claims["role"].(string)
	if role == "" {
		role = models.RoleSales
	}

	return models.CurrentUser{UserID: sub, Role: role}, nil
}
