package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"love-surprise-backend/internal/config"
	"love-surprise-backend/internal/models"
)

const (
	UserIDKey      = "user_id"
	UserEmailKey   = "user_email"
	AccessTokenKey = "access_token"
)

var (
	errMissingHeader = errors.New("missing authorization header")
	errHeaderFormat  = errors.New("invalid authorization header format")
	errMissingUserID = errors.New("missing user id in token")
)

// AuthMiddleware rejects requests without a valid Supabase access token.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := principalFromRequest(c, cfg.SupabaseJWTSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "unauthorized",
				Message: err.Error(),
			})
			return
		}
		setPrincipal(c, principal)
		c.Next()
	}
}

// OptionalAuthMiddleware attaches the principal when a valid token is
// present and lets anonymous requests through. The wizard uses it so a
// visitor can author a surprise before signing in.
func OptionalAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if principal, err := principalFromRequest(c, cfg.SupabaseJWTSecret); err == nil {
			setPrincipal(c, principal)
		}
		c.Next()
	}
}

// PrincipalFrom returns the authenticated user of the request, if any.
func PrincipalFrom(c *gin.Context) (*models.Principal, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return nil, false
	}
	id, err := uuid.Parse(v.(string))
	if err != nil {
		return nil, false
	}
	return &models.Principal{
		UserID:      id,
		Email:       c.GetString(UserEmailKey),
		AccessToken: c.GetString(AccessTokenKey),
	}, true
}

func setPrincipal(c *gin.Context, p *models.Principal) {
	c.Set(UserIDKey, p.UserID.String())
	c.Set(UserEmailKey, p.Email)
	c.Set(AccessTokenKey, p.AccessToken)
}

func principalFromRequest(c *gin.Context, secret string) (*models.Principal, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, errMissingHeader
	}

	// Extract token from "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, errHeaderFormat
	}
	tokenString := strings.TrimSpace(parts[1])

	// Try URL decoding in case the token was URL-encoded
	if decoded, err := url.QueryUnescape(tokenString); err == nil {
		tokenString = decoded
	}

	return ParseToken(tokenString, secret)
}

// ParseToken verifies an HS256 Supabase JWT and returns its subject.
func ParseToken(tokenString, secret string) (*models.Principal, error) {
	if tokenString == "" {
		return nil, errors.New("empty token")
	}
	if strings.Count(tokenString, ".") != 2 {
		return nil, errors.New("JWT token must have 3 parts separated by dots")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		if secret == "" {
			return nil, jwt.ErrSignatureInvalid
		}
		// Supabase JWT secret is used directly as the signing key
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, errors.New("token has expired")
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, errors.New("token signature is invalid")
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, errors.New("token is malformed")
		default:
			return nil, err
		}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, errMissingUserID
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, errMissingUserID
	}

	email, _ := claims["email"].(string)
	return &models.Principal{UserID: userID, Email: email, AccessToken: tokenString}, nil
}
