// Package auth signs and verifies the OAuth consent state parameter, which
// binds an authorization-code callback to the owner who started it.
package auth

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/prodtracker/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the owner and the source being connected.
type Claims struct {
	jwt.RegisteredClaims
	OwnerID string `json:"oid"`
	Source  string `json:"src"`
}

func GenerateState(ownerID, source string, secretKey []byte, validity time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
			ID:        mustNonce(),
		},
		OwnerID: ownerID,
		Source:  source,
	})
	return token.SignedString(secretKey)
}

// ParseState verifies state and returns its claims. Any failure, including
// expiry, is reported as common.ErrInvalidState.
func ParseState(state string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(state, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidState, err)
	}
	if !token.Valid || claims.OwnerID == "" {
		return nil, common.ErrInvalidState
	}
	return claims, nil
}

func mustNonce() string {
	s, err := common.MakeRandHexString(8)
	if err != nil {
		panic(err)
	}
	return s
}
