package service

//go:generate mockgen -destination=../../mocks/mock_token_generator.go -package=mocks github.com/S1mon009/auth-service/internal/auth/service TokenGenerator

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	autherror "github.com/S1mon009/auth-service/internal/errors"
)

// Single-purpose token kinds signed with the access secret.
const (
	PurposeVerifyEmail   = "verify_email"
	PurposeResetPassword = "reset_password"
)

type TokenGenerator interface {
	Generate(userID, email, role string) (accessToken, refreshToken string, err error)
	VerifyAccessToken(tokenString string) (*JWTCustomClaims, error)
	VerifyRefreshToken(tokenString string) (*JWTCustomClaims, error)
	GenerateActionToken(userID, email, purpose string, ttl time.Duration) (string, error)
	VerifyActionToken(tokenString, purpose string) (*JWTCustomClaims, error)
}

// TokenService signs and verifies all token kinds. Access, verification and
// reset tokens share the access secret; refresh tokens use their own secret
// so compromise of one family cannot forge the other.
type TokenService struct {
	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

type JWTCustomClaims struct {
	jwt.RegisteredClaims
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Role    string `json:"role,omitempty"`
	Purpose string `json:"purpose,omitempty"`
}

func NewTokenService(accessSecret, refreshSecret string, accessMinutes, refreshMinutes int) *TokenService {
	return &TokenService{
		AccessTokenSecret:  accessSecret,
		RefreshTokenSecret: refreshSecret,
		AccessTokenExpiry:  time.Duration(accessMinutes) * time.Minute,
		RefreshTokenExpiry: time.Duration(refreshMinutes) * time.Minute,
	}
}

// Generate issues a fresh access/refresh pair for the given identity.
func (ts *TokenService) Generate(userID, email, role string) (string, string, error) {
	now := time.Now()

	accessClaims := JWTCustomClaims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.AccessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	refreshClaims := JWTCustomClaims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.RefreshTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString([]byte(ts.AccessTokenSecret))
	if err != nil {
		return "", "", err
	}

	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256,
		refreshClaims).SignedString([]byte(ts.RefreshTokenSecret))
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// GenerateActionToken issues a short-lived single-purpose token (email
// verification or password reset). Action tokens are never persisted.
func (ts *TokenService) GenerateActionToken(userID, email, purpose string, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := JWTCustomClaims{
		UserID:  userID,
		Email:   email,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(ts.AccessTokenSecret))
}

func (ts *TokenService) VerifyAccessToken(tokenString string) (*JWTCustomClaims, error) {
	claims, err := ts.parse(tokenString, ts.AccessTokenSecret)
	if err != nil {
		return nil, autherror.ErrInvalidToken
	}

	return claims, nil
}

func (ts *TokenService) VerifyRefreshToken(tokenString string) (*JWTCustomClaims, error) {
	claims, err := ts.parse(tokenString, ts.RefreshTokenSecret)
	if err != nil {
		return nil, autherror.ErrInvalidRefreshToken
	}

	return claims, nil
}

// VerifyActionToken checks signature, expiry and that the token was minted
// for the expected purpose. Any failure surfaces the uniform invalid-token
// error so callers cannot distinguish expiry from forgery.
func (ts *TokenService) VerifyActionToken(tokenString, purpose string) (*JWTCustomClaims, error) {
	claims, err := ts.parse(tokenString, ts.AccessTokenSecret)
	if err != nil || claims.Purpose != purpose {
		return nil, autherror.ErrInvalidToken
	}

	return claims, nil
}

func (ts *TokenService) parse(tokenString, secret string) (*JWTCustomClaims, error) {
	claims := &JWTCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
