package formsauth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/siteframe/internal/domain"
)

// issueToken signs a token whose subject is the user identifier
func (a *Authenticator) issueToken(userID uuid.UUID, expiresAt time.Time) (string, error) {
	claims := jwt.StandardClaims{
		Subject:   userID.String(),
		Issuer:    a.config.Issuer,
		IssuedAt:  a.now().Unix(),
		ExpiresAt: expiresAt.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(a.config.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign auth token: %w", err)
	}
	return signed, nil
}

// parseToken verifies the signature, expiry and issuer and returns the subject
func (a *Authenticator) parseToken(tokenStr string) (uuid.UUID, error) {
	claims := &jwt.StandardClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(a.config.Secret), nil
	})
	if err != nil {
		return uuid.Nil, domain.WrapTokenInvalid(err)
	}

	if a.config.Issuer != "" && !claims.VerifyIssuer(a.config.Issuer, true) {
		return uuid.Nil, domain.WrapTokenInvalid(fmt.Errorf("unexpected issuer %q", claims.Issuer))
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, domain.WrapTokenInvalid(err)
	}
	return id, nil
}
