// File: internal/service/authentication.go
package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"campus-events/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL 為登入/註冊所發行存取令牌的有效期限
const TokenTTL = time.Hour

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

var (
	timeNow         = time.Now
	parseWithClaims = jwt.ParseWithClaims
)

// CustomClaims 定義 JWT 負載內容。
// 權限欄位是發行當下的快照，需要最新狀態時請回資料庫查詢。
type CustomClaims struct {
	UserID        int    `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	CanPostEvents bool   `json:"canPostEvents"`
	IsAdmin       bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// AuthenticateUser 比對使用者的哈希與明文密碼
func AuthenticateUser(ctx context.Context, user model.User, password string) error {
	if user.PasswordHash == "" {
		return ErrInvalidCredentials
	}
	if err := ComparePassword(user.PasswordHash, password); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

func jwtSecret() ([]byte, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET not set")
	}
	return []byte(secret), nil
}

// IssueAccessToken 依據使用者資訊與 TTL 產生 JWT
func IssueAccessToken(user model.User, ttl time.Duration) (string, error) {
	secret, err := jwtSecret()
	if err != nil {
		return "", err
	}

	now := timeNow()
	claims := CustomClaims{
		UserID:        user.ID,
		Name:          user.Name,
		Email:         user.Email,
		CanPostEvents: user.CanPostEvents,
		IsAdmin:       user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// VerifyAccessToken 驗證並解析 JWT 令牌
func VerifyAccessToken(tokenString string) (*CustomClaims, error) {
	secret, err := jwtSecret()
	if err != nil {
		return nil, err
	}

	token, err := parseWithClaims(tokenString, &CustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithTimeFunc(timeNow), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
