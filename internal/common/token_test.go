package common

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/bagstore/internal/common/constants"
	inErrors "github.com/Alturino/bagstore/internal/errors"
)

func TestIssueAndVerifyToken(t *testing.T) {
	tests := []struct {
		name        string
		secret      string
		audience    string
		ttl         time.Duration
		issuedAt    time.Time
		expectedErr error
	}{
		{
			name:     "given valid token should verify",
			secret:   "secret",
			audience: constants.AUDIENCE_ADMIN,
			ttl:      time.Hour,
			issuedAt: time.Now(),
		},
		{
			name:        "given token for other audience should be invalid",
			secret:      "secret",
			audience:    constants.AUDIENCE_USER,
			ttl:         time.Hour,
			issuedAt:    time.Now(),
			expectedErr: inErrors.ErrTokenInvalid,
		},
		{
			name:        "given expired token should be invalid",
			secret:      "secret",
			audience:    constants.AUDIENCE_ADMIN,
			ttl:         time.Minute,
			issuedAt:    time.Now().Add(-time.Hour),
			expectedErr: inErrors.ErrTokenInvalid,
		},
		{
			name:        "given token signed with other secret should be invalid",
			secret:      "other",
			audience:    constants.AUDIENCE_ADMIN,
			ttl:         time.Hour,
			issuedAt:    time.Now(),
			expectedErr: inErrors.ErrTokenInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject := "8c0b7c4e-2b55-4f57-9d4e-0c1f1f0f6a11"
			signed, tokenId, err := IssueToken(tt.secret, tt.audience, subject, tt.ttl, tt.issuedAt)
			require.NoError(t, err)
			assert.NotEmpty(t, tokenId)

			token, err := VerifyToken(context.Background(), "secret", signed, constants.AUDIENCE_ADMIN)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)

			c := AttachJwtToken(context.Background(), token)
			userId, err := UserIdFromJwtToken(c)
			require.NoError(t, err)
			assert.Equal(t, subject, userId.String())

			claims, err := ClaimsFromContext(c)
			require.NoError(t, err)
			assert.Equal(t, tokenId, claims.ID)
		})
	}
}

func TestClaimsFromContextWithoutToken(t *testing.T) {
	_, err := ClaimsFromContext(context.Background())
	assert.ErrorIs(t, err, inErrors.ErrEmptyAuth)
}
