package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/Alturino/bagstore/internal/common"
	inErrors "github.com/Alturino/bagstore/internal/errors"
	inHttp "github.com/Alturino/bagstore/internal/http"
	"github.com/Alturino/bagstore/internal/log"
)

// RevocationChecker reports whether a token id was revoked by a logout.
type RevocationChecker interface {
	IsRevoked(c context.Context, tokenId string) (bool, error)
}

func bearerToken(r *http.Request) (string, error) {
	authorization := r.Header.Get(inHttp.KEY_HEADER_AUTHORIZATION)
	if authorization == "" {
		return "", inErrors.ErrEmptyAuth
	}
	if len(authorization) <= len("bearer ") || !strings.EqualFold(authorization[:len("bearer ")], "bearer ") {
		return "", inErrors.ErrTokenInvalid
	}
	return strings.TrimSpace(authorization[len("bearer "):]), nil
}

func verify(
	c context.Context,
	secret string,
	audience string,
	revocations RevocationChecker,
	raw string,
) (*jwt.Token, error) {
	token, err := common.VerifyToken(c, secret, raw, audience)
	if err != nil {
		return nil, err
	}
	if revocations == nil {
		return token, nil
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return nil, inErrors.ErrTokenInvalid
	}
	revoked, err := revocations.IsRevoked(c, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed checking token revocation with error=%w", err)
	}
	if revoked {
		return nil, inErrors.ErrTokenRevoked
	}
	return token, nil
}

// Auth rejects requests without a valid bearer token for audience.
func Auth(secret string, audience string, revocations RevocationChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := zerolog.Ctx(r.Context()).
				With().
				Str(log.KeyTag, "middleware Auth").
				Str("audience", audience).
				Logger()
			c := logger.WithContext(r.Context())

			raw, err := bearerToken(r)
			if err != nil {
				logger.Error().Err(err).Msg(err.Error())
				inHttp.WriteFailure(c, w, http.StatusUnauthorized, err)
				return
			}

			token, err := verify(c, secret, audience, revocations, raw)
			if err != nil {
				logger.Error().Err(err).Msg(err.Error())
				inHttp.WriteFailure(c, w, inHttp.StatusCode(err), inErrors.ErrTokenInvalid)
				return
			}

			c = common.AttachJwtToken(c, token)
			next.ServeHTTP(w, r.WithContext(c))
		})
	}
}

// OptionalAuth attaches a valid bearer token when one is present and lets
// anonymous requests through untouched.
func OptionalAuth(secret string, audience string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := bearerToken(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			token, err := common.VerifyToken(r.Context(), secret, raw, audience)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(common.AttachJwtToken(r.Context(), token)))
		})
	}
}
