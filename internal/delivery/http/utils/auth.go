package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

type Auth interface {
	CheckAuth(tokenString string) (int, error)
	CheckAuthFromContext(c echo.Context) (int, error)
	CreateToken(userID int) (string, error)
}

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal error")
)

type jwtLoginClaims struct {
	UserID int `json:"user_id"`
	jwt.RegisteredClaims
}

type AuthManager struct {
	jwtSecretKey  []byte
	tokenLifetime time.Duration
}

func NewAuthManager(jwtSecretKey []byte, tokenLifetime time.Duration) *AuthManager {
	return &AuthManager{
		jwtSecretKey:  jwtSecretKey,
		tokenLifetime: tokenLifetime,
	}
}

// CheckAuth проверяет токен и возвращает ID пользователя, если токен валиден.
// Если токен невалиден, то возвращается ErrUnauthorized.
func (a *AuthManager) CheckAuth(tokenString string) (int, error) {
	claims := jwtLoginClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return a.jwtSecretKey, nil
	})
	if err != nil {
		return -1, ErrUnauthorized
	}
	if !token.Valid {
		return -1, ErrUnauthorized
	}
	return claims.UserID, nil
}

// CheckAuthFromContext проверяет токен из сессионной куки и возвращает ID
// пользователя. Если пользователь не авторизован, возвращается ErrUnauthorized.
func (a *AuthManager) CheckAuthFromContext(c echo.Context) (int, error) {
	cookie, err := c.Cookie("session")
	if err != nil {
		return -1, ErrUnauthorized
	}
	return a.CheckAuth(cookie.Value)
}

// CreateToken создает токен для пользователя
func (a *AuthManager) CreateToken(userID int) (string, error) {
	claims := jwtLoginClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(a.tokenLifetime)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.jwtSecretKey)
}
