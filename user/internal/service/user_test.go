package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/bagstore/internal/common"
	"github.com/Alturino/bagstore/internal/common/constants"
	"github.com/Alturino/bagstore/internal/config"
	inErrors "github.com/Alturino/bagstore/internal/errors"
	"github.com/Alturino/bagstore/internal/infra/infratest"
	"github.com/Alturino/bagstore/internal/repository"
	"github.com/Alturino/bagstore/notification/pkg/event"
	userErrors "github.com/Alturino/bagstore/user/internal/errors"
	"github.com/Alturino/bagstore/user/pkg/request"
)

const secretKey = "test-secret"

type recordingPublisher struct {
	events []event.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e event.Event) error {
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) lastOtp(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, p.events)
	e := p.events[len(p.events)-1]
	require.Equal(t, event.TypeOtp, e.Type)
	otp, ok := e.Payload["otp"].(string)
	require.True(t, ok)
	return otp
}

func setup(t *testing.T) (context.Context, *UserService, *recordingPublisher, func()) {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano})
	c := logger.WithContext(context.Background())

	pool, teardownPostgres := infratest.Postgres(t, c)
	cacheClient, teardownRedis := infratest.Redis(t, c)
	publisher := &recordingPublisher{}
	svc := NewUserService(
		repository.New(pool),
		cacheClient,
		publisher,
		testclock.NewClock(time.Now()),
		secretKey,
		config.Auth{OtpTTL: 5 * time.Minute, TokenTTL: time.Hour, MaxAttempts: 3},
	)
	return c, svc, publisher, func() {
		teardownRedis()
		teardownPostgres()
	}
}

func TestGenerateOtp(t *testing.T) {
	for i := 0; i < 50; i++ {
		otp, err := generateOtp()
		require.NoError(t, err)
		assert.Len(t, otp, otpDigits)
		assert.Regexp(t, "^[0-9]+$", otp)
	}
}

func TestAdminLogin(t *testing.T) {
	c, svc, _, teardown := setup(t)
	defer teardown()

	admin, err := svc.CreateAdmin(c, request.CreateAdmin{Name: "Owner", Email: "Owner@Bagstore.com", Password: "supersecret"})
	require.NoError(t, err)
	assert.Equal(t, "owner@bagstore.com", admin.Email)

	_, err = svc.CreateAdmin(c, request.CreateAdmin{Name: "Owner", Email: "owner@bagstore.com", Password: "supersecret"})
	assert.ErrorIs(t, err, inErrors.ErrAlreadyExist)

	tests := []struct {
		name          string
		param         request.LoginRequest
		expectedError error
	}{
		{
			name:  "given correct credentials should issue token",
			param: request.LoginRequest{Email: "owner@bagstore.com", Password: "supersecret"},
		},
		{
			name:  "given upper case email should issue token",
			param: request.LoginRequest{Email: "OWNER@bagstore.com", Password: "supersecret"},
		},
		{
			name:          "given wrong password should be rejected",
			param:         request.LoginRequest{Email: "owner@bagstore.com", Password: "wrong-password"},
			expectedError: userErrors.ErrInvalidCredentials,
		},
		{
			name:          "given unknown email should be rejected the same way",
			param:         request.LoginRequest{Email: "nobody@bagstore.com", Password: "supersecret"},
			expectedError: userErrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := svc.AdminLogin(c, tt.param)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)

			jwtToken, err := common.VerifyToken(c, secretKey, token.Token, constants.AUDIENCE_ADMIN)
			require.NoError(t, err)
			subject, err := jwtToken.Claims.GetSubject()
			require.NoError(t, err)
			assert.Equal(t, admin.ID.String(), subject)
		})
	}
}

func TestAdminLogout(t *testing.T) {
	c, svc, _, teardown := setup(t)
	defer teardown()

	_, err := svc.CreateAdmin(c, request.CreateAdmin{Name: "Owner", Email: "owner@bagstore.com", Password: "supersecret"})
	require.NoError(t, err)
	token, err := svc.AdminLogin(c, request.LoginRequest{Email: "owner@bagstore.com", Password: "supersecret"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.AdminLogout(c), inErrors.ErrEmptyAuth)

	jwtToken, err := common.VerifyToken(c, secretKey, token.Token, constants.AUDIENCE_ADMIN)
	require.NoError(t, err)
	claims, err := common.ClaimsFromContext(common.AttachJwtToken(c, jwtToken))
	require.NoError(t, err)

	revoked, err := svc.IsRevoked(c, claims.ID)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, svc.AdminLogout(common.AttachJwtToken(c, jwtToken)))

	revoked, err = svc.IsRevoked(c, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestOtp(t *testing.T) {
	c, svc, publisher, teardown := setup(t)
	defer teardown()

	sent, err := svc.RequestOtp(c, request.OtpLogin{Email: "Ann@Example.com"})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", sent.Email)
	otp := publisher.lastOtp(t)
	assert.Equal(t, "ann@example.com", publisher.events[0].Recipient)

	wrong := "000000"
	if otp == wrong {
		wrong = "111111"
	}

	_, err = svc.VerifyOtp(c, request.VerifyOtp{Email: "ann@example.com", Otp: wrong})
	assert.ErrorIs(t, err, userErrors.ErrOtpInvalid)

	token, err := svc.VerifyOtp(c, request.VerifyOtp{Email: "ann@example.com", Otp: otp})
	require.NoError(t, err)
	_, err = common.VerifyToken(c, secretKey, token.Token, constants.AUDIENCE_USER)
	require.NoError(t, err)
	_, err = common.VerifyToken(c, secretKey, token.Token, constants.AUDIENCE_ADMIN)
	assert.ErrorIs(t, err, inErrors.ErrTokenInvalid, "customer tokens never pass as admin tokens")

	_, err = svc.VerifyOtp(c, request.VerifyOtp{Email: "ann@example.com", Otp: otp})
	assert.ErrorIs(t, err, userErrors.ErrOtpInvalid, "a code is consumed by a successful login")
}

func TestOtpAttempts(t *testing.T) {
	c, svc, publisher, teardown := setup(t)
	defer teardown()

	_, err := svc.RequestOtp(c, request.OtpLogin{Email: "bob@example.com"})
	require.NoError(t, err)
	otp := publisher.lastOtp(t)
	wrong := "000000"
	if otp == wrong {
		wrong = "111111"
	}

	for i := 0; i < 3; i++ {
		_, err = svc.VerifyOtp(c, request.VerifyOtp{Email: "bob@example.com", Otp: wrong})
		assert.ErrorIs(t, err, userErrors.ErrOtpInvalid)
	}
	_, err = svc.VerifyOtp(c, request.VerifyOtp{Email: "bob@example.com", Otp: otp})
	assert.ErrorIs(t, err, userErrors.ErrOtpAttemptsExceeded)

	_, err = svc.RequestOtp(c, request.OtpLogin{Email: "bob@example.com"})
	require.NoError(t, err)
	_, err = svc.VerifyOtp(c, request.VerifyOtp{Email: "bob@example.com", Otp: publisher.lastOtp(t)})
	assert.NoError(t, err, "a new code resets the attempts")
}
