package utils

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	redis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/divluffy/lightforgaza/config"
	"github.com/divluffy/lightforgaza/models"
)

// RedisClient is an optional shared Redis client used for login lockout and
// other cross-process coordination. It stays nil when Redis is not configured
// and callers fall back to in-memory tracking.
var RedisClient *redis.Client

// InitRedis connects the optional Redis client. A failed ping is logged but
// does not abort startup.
func InitRedis(cfg *config.Config) {
	if cfg.Redis.Addr == "" {
		return
	}
	rc := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Pass,
		DB:       cfg.Redis.DB,
	})
	if err := rc.Ping(context.Background()).Err(); err != nil {
		log.Printf("[redis] ping failed, falling back to in-memory tracking: %v", err)
		return
	}
	RedisClient = rc
}

type contextKey string

const UserIDKey = contextKey("userID")
const UserRoleKey = contextKey("userRole")
const RequestIDKey = contextKey("requestID")

// GetUserID returns the authenticated user id stored in the request context.
func GetUserID(r *http.Request) (string, bool) {
	v, ok := r.Context().Value(UserIDKey).(string)
	return v, ok && v != ""
}

// GetUserRole returns the authenticated role stored in the request context.
func GetUserRole(r *http.Request) string {
	if v, ok := r.Context().Value(UserRoleKey).(string); ok {
		return v
	}
	return ""
}

// Access token lifetimes per role.
const (
	UserTokenTTL  = 24 * time.Hour
	AdminTokenTTL = 6 * time.Hour
)

// GenerateAccessToken issues a signed HS256 access token carrying the user id
// and role.
func GenerateAccessToken(jc config.JWT, userID, role string, expiry time.Duration) (string, error) {
	if jc.Secret == "" {
		return "", errors.New("JWT secret is not set")
	}
	now := time.Now()
	jti, err := generateJTI(32)
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"id":   userID,
		"role": role,
		"exp":  now.Add(expiry).Unix(),
		"iat":  now.Unix(),
		"nbf":  now.Unix(),
		"jti":  jti,
		"aud":  jc.Audience,
		"iss":  jc.Issuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jc.Secret))
}

// ValidateAccessToken parses the token, enforcing HS256 and the registered
// exp/nbf claims, and returns its claims.
func ValidateAccessToken(jc config.JWT, tokenStr string) (jwt.MapClaims, error) {
	if jc.Secret == "" {
		return nil, errors.New("JWT secret is not set")
	}
	token, err := jwt.ParseWithClaims(tokenStr, jwt.MapClaims{}, func(t *jwt.Token) (interface{}, error) {
		// Require exact HS256 algorithm to avoid algorithm confusion.
		if t.Method == nil || t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(jc.Secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.New("token expired")
		}
		return nil, errors.New("invalid token")
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	return claims, nil
}

// ClaimsIdentity extracts the user id and role strings from validated claims.
func ClaimsIdentity(claims jwt.MapClaims) (userID, role string) {
	if v, ok := claims["id"].(string); ok {
		userID = v
	}
	if v, ok := claims["role"].(string); ok {
		role = v
	}
	return userID, role
}

// GenerateRefreshToken creates an opaque refresh token, stores it and returns
// the token string (the row id).
func GenerateRefreshToken(db *gorm.DB, userID string) (string, error) {
	rt, err := models.NewRefreshToken(userID, 7)
	if err != nil {
		return "", err
	}
	if db == nil {
		return "", errors.New("database not initialized")
	}
	if err := db.Create(rt).Error; err != nil {
		return "", err
	}
	return rt.ID, nil
}

// ValidateRefreshToken looks up an unrevoked, unexpired refresh token.
func ValidateRefreshToken(db *gorm.DB, tokenID string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	if err := db.First(&rt, "id = ?", tokenID).Error; err != nil {
		return nil, err
	}
	if rt.Revoked {
		return nil, errors.New("refresh token revoked")
	}
	if time.Now().After(rt.ExpiresAt) {
		return nil, errors.New("refresh token expired")
	}
	return &rt, nil
}

// RevokeRefreshToken marks a single refresh token as revoked.
func RevokeRefreshToken(db *gorm.DB, tokenID string) error {
	return db.Model(&models.RefreshToken{}).Where("id = ?", tokenID).Update("revoked", true).Error
}

// RevokeAllRefreshTokens revokes every active refresh token of a user.
func RevokeAllRefreshTokens(db *gorm.DB, userID string) error {
	return db.Model(&models.RefreshToken{}).Where("user_id = ? AND revoked = ?", userID, false).Update("revoked", true).Error
}

func generateJTI(n int) (string, error) {
	b := make([]byte, n/2)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate jti: %w", err)
	}
	return hex.EncodeToString(b), nil
}
