package auth

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Constants for context keys
const (
	UserIDKey     = "user_id"
	UserEmailKey  = "user_email"
	UserRoleKey   = "user_role"
	AuthMethodKey = "auth_method"
)

// Token sources recorded under AuthMethodKey
const (
	AuthMethodCookie = "cookie"
	AuthMethodBearer = "bearer"
)

const (
	authCookieName = "auth_token"
	csrfCookieName = "csrf_token"
	csrfHeaderName = "X-CSRF-Token"
	tokenTTL       = 24 * time.Hour
)

// Claims represents JWT claims
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

// Identity is the verified caller attached to a request
type Identity struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

// JWTService handles JWT token operations
type JWTService struct {
	secret []byte
}

// NewJWTService creates a new JWT service
func NewJWTService(secret string) *JWTService {
	return &JWTService{
		secret: []byte(secret),
	}
}

// GenerateToken signs a token for the given claims. Tokens are normally issued
// by the platform's auth system; this exists for operators and tests.
func (j *JWTService) GenerateToken(claims Claims) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(tokenTTL)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ValidateToken validates a JWT token and returns claims
func (j *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.UserID == uuid.Nil {
		return nil, fmt.Errorf("token has no subject")
	}
	return claims, nil
}

// GenerateJWT is a convenience function that creates a JWT service and generates a token
func GenerateJWT(userID uuid.UUID, role, secret string) (string, time.Time, error) {
	return NewJWTService(secret).GenerateToken(Claims{UserID: userID, Role: role})
}

// JWTMiddleware validates the token from the auth cookie or the
// Authorization header and stores the caller on the context
func JWTMiddleware(secret string) gin.HandlerFunc {
	service := NewJWTService(secret)
	return func(c *gin.Context) {
		method := AuthMethodCookie
		tokenString, err := c.Cookie(authCookieName)
		if err != nil || tokenString == "" {
			method = AuthMethodBearer
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				abort(c, http.StatusUnauthorized, "authentication required")
				return
			}

			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader || tokenString == "" {
				abort(c, http.StatusUnauthorized, "bearer token required")
				return
			}
		}

		claims, err := service.ValidateToken(tokenString)
		if err != nil {
			abort(c, http.StatusUnauthorized, "invalid token")
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserEmailKey, claims.Email)
		c.Set(UserRoleKey, claims.Role)
		c.Set(AuthMethodKey, method)
		c.Next()
	}
}

// CSRFMiddleware enforces the double-submit cookie check on state-changing
// requests authenticated by cookie. Bearer requests are not exposed to CSRF.
func CSRFMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		if c.GetString(AuthMethodKey) != AuthMethodCookie {
			c.Next()
			return
		}

		csrfCookie, err := c.Cookie(csrfCookieName)
		if err != nil || csrfCookie == "" {
			abort(c, http.StatusForbidden, "CSRF token required in cookie")
			return
		}

		csrfHeader := c.GetHeader(csrfHeaderName)
		if csrfHeader == "" {
			abort(c, http.StatusForbidden, "CSRF token required in X-CSRF-Token header")
			return
		}

		if subtle.ConstantTimeCompare([]byte(csrfCookie), []byte(csrfHeader)) != 1 {
			abort(c, http.StatusForbidden, "CSRF token mismatch")
			return
		}

		c.Next()
	}
}

// RequireRole rejects callers whose role is not in roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(UserRoleKey)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		abort(c, http.StatusForbidden, "access denied")
	}
}

// CurrentIdentity returns the caller stored by JWTMiddleware
func CurrentIdentity(c *gin.Context) (Identity, bool) {
	raw, ok := c.Get(UserIDKey)
	if !ok {
		return Identity{}, false
	}
	userID, ok := raw.(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return Identity{}, false
	}
	return Identity{
		UserID: userID,
		Email:  c.GetString(UserEmailKey),
		Role:   c.GetString(UserRoleKey),
	}, true
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": message})
}
