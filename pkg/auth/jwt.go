package auth

import (
	"errors"
	"time"

	"casino-engine/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

const ScopePlayer = "player"

type Claims struct {
	SubjectID int64  `json:"subjectId"`
	Scope     string `json:"scope"`
	jwt.RegisteredClaims
}

// GeneratePlayerToken mints the bearer token handed out when a session is
// opened. The token is identity plumbing for the HTTP surface, not an
// authentication scheme: there are no credentials behind it.
func GeneratePlayerToken(playerID int64) (string, error) {
	duration := time.Duration(config.GlobalConfig.Session.Expire) * time.Hour
	claims := Claims{
		SubjectID: playerID,
		Scope:     ScopePlayer,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   ScopePlayer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.GlobalConfig.Session.Secret))
}

func ParsePlayerToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.GlobalConfig.Session.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Scope != ScopePlayer {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
