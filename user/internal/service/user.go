package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/juju/clock"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/Alturino/bagstore/internal/cache"
	"github.com/Alturino/bagstore/internal/common"
	"github.com/Alturino/bagstore/internal/common/constants"
	"github.com/Alturino/bagstore/internal/config"
	inErrors "github.com/Alturino/bagstore/internal/errors"
	"github.com/Alturino/bagstore/internal/log"
	inOtel "github.com/Alturino/bagstore/internal/otel"
	"github.com/Alturino/bagstore/internal/repository"
	"github.com/Alturino/bagstore/notification/pkg/event"
	userErrors "github.com/Alturino/bagstore/user/internal/errors"
	"github.com/Alturino/bagstore/user/internal/otel"
	"github.com/Alturino/bagstore/user/pkg/request"
	"github.com/Alturino/bagstore/user/pkg/response"
)

const otpDigits = 6

type UserService struct {
	queries   *repository.Queries
	cache     *redis.Client
	publisher event.Publisher
	clock     clock.Clock
	secretKey string
	config    config.Auth
}

func NewUserService(
	queries *repository.Queries,
	cacheClient *redis.Client,
	publisher event.Publisher,
	clk clock.Clock,
	secretKey string,
	cfg config.Auth,
) *UserService {
	if clk == nil {
		clk = clock.WallClock
	}
	return &UserService{
		queries:   queries,
		cache:     cacheClient,
		publisher: publisher,
		clock:     clk,
		secretKey: secretKey,
		config:    cfg,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (svc *UserService) CreateAdmin(c context.Context, param request.CreateAdmin) (response.Admin, error) {
	c, span := otel.Tracer.Start(c, "UserService CreateAdmin")
	defer span.End()

	email := normalizeEmail(param.Email)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserService CreateAdmin").
		Str(log.KeyEmail, email).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "hashing password").Logger()
	logger.Trace().Msg("hashing password")
	hashed, err := bcrypt.GenerateFromPassword([]byte(param.Password), bcrypt.DefaultCost)
	if err != nil {
		err = fmt.Errorf("failed hashing password with error=%w", errors.Join(err, inErrors.ErrFailedHashToken))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Admin{}, err
	}
	logger.Trace().Msg("hashed password")

	logger = logger.With().Str(log.KeyProcess, "inserting admin").Logger()
	logger.Trace().Msg("inserting admin")
	admin, err := svc.queries.InsertAdmin(c, repository.InsertAdminParams{
		Email:    email,
		Name:     strings.TrimSpace(param.Name),
		Password: string(hashed),
	})
	if err != nil {
		err = fmt.Errorf("failed inserting admin with error=%w", repository.Translate(err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Admin{}, err
	}
	logger.Info().Str(log.KeyAdminID, admin.ID.String()).Msg("inserted admin")

	return admin.Response(), nil
}

// AdminLogin checks the admin password and issues an admin token. Unknown
// emails and wrong passwords are both ErrInvalidCredentials.
func (svc *UserService) AdminLogin(c context.Context, param request.LoginRequest) (response.Token, error) {
	c, span := otel.Tracer.Start(c, "UserService AdminLogin")
	defer span.End()

	email := normalizeEmail(param.Email)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserService AdminLogin").
		Str(log.KeyEmail, email).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding admin").Logger()
	logger.Trace().Msg("finding admin")
	admin, err := svc.queries.FindAdminByEmail(c, email)
	if errors.Is(err, pgx.ErrNoRows) {
		err = fmt.Errorf("failed finding admin with error=%w", userErrors.ErrInvalidCredentials)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Token{}, err
	}
	if err != nil {
		err = fmt.Errorf("failed finding admin with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Token{}, err
	}
	logger = logger.With().Str(log.KeyAdminID, admin.ID.String()).Logger()
	logger.Trace().Msg("found admin")

	logger = logger.With().Str(log.KeyProcess, "verifying password").Logger()
	logger.Trace().Msg("verifying password")
	if err = bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(param.Password)); err != nil {
		err = fmt.Errorf("failed verifying password with error=%w", userErrors.ErrInvalidCredentials)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Token{}, err
	}
	logger.Trace().Msg("verified password")

	logger = logger.With().Str(log.KeyProcess, "issuing token").Logger()
	now := svc.clock.Now()
	signed, _, err := common.IssueToken(
		svc.secretKey,
		constants.AUDIENCE_ADMIN,
		admin.ID.String(),
		svc.config.TokenTTL,
		now,
	)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Token{}, err
	}
	logger.Info().Msg("admin logged in")

	return response.Token{Token: signed, ExpiresAt: now.Add(svc.config.TokenTTL)}, nil
}

// AdminLogout denylists the token of the current request until it expires.
func (svc *UserService) AdminLogout(c context.Context) error {
	c, span := otel.Tracer.Start(c, "UserService AdminLogout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserService AdminLogout").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "getting claims").Logger()
	claims, err := common.ClaimsFromContext(c)
	if err != nil {
		err = fmt.Errorf("failed getting claims with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	if claims.ID == "" || claims.ExpiresAt == nil {
		err = fmt.Errorf("failed getting token id with error=%w", inErrors.ErrTokenInvalid)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	ttl := claims.ExpiresAt.Sub(svc.clock.Now())
	if ttl <= 0 {
		logger.Info().Msg("token already expired")
		return nil
	}

	key := cache.DenylistKey(claims.ID)
	logger = logger.With().
		Str(log.KeyCacheKey, key).
		Str(log.KeyProcess, "denylisting token").
		Logger()
	logger.Trace().Msg("denylisting token")
	if err = svc.cache.Set(c, key, claims.Subject, ttl).Err(); err != nil {
		err = fmt.Errorf("failed denylisting token with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("admin logged out")

	return nil
}

// IsRevoked reports whether tokenId was denylisted by AdminLogout.
func (svc *UserService) IsRevoked(c context.Context, tokenId string) (bool, error) {
	count, err := svc.cache.Exists(c, cache.DenylistKey(tokenId)).Result()
	if err != nil {
		return false, fmt.Errorf("failed checking denylist with error=%w", err)
	}
	return count > 0, nil
}

func generateOtp() (string, error) {
	limit := big.NewInt(1)
	for i := 0; i < otpDigits; i++ {
		limit.Mul(limit, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpDigits, n.Int64()), nil
}

// RequestOtp stores a fresh one time code for email, resets its attempt
// counter and hands the code to the notification service.
func (svc *UserService) RequestOtp(c context.Context, param request.OtpLogin) (response.OtpSent, error) {
	c, span := otel.Tracer.Start(c, "UserService RequestOtp")
	defer span.End()

	email := normalizeEmail(param.Email)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserService RequestOtp").
		Str(log.KeyEmail, email).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "generating otp").Logger()
	otp, err := generateOtp()
	if err != nil {
		err = fmt.Errorf("failed generating otp with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.OtpSent{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "storing otp").Logger()
	logger.Trace().Msg("storing otp")
	_, err = svc.cache.TxPipelined(c, func(pipe redis.Pipeliner) error {
		pipe.Set(c, cache.OtpKey(email), otp, svc.config.OtpTTL)
		pipe.Del(c, cache.OtpAttemptsKey(email))
		return nil
	})
	if err != nil {
		err = fmt.Errorf("failed storing otp with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.OtpSent{}, err
	}
	logger.Trace().Msg("stored otp")

	expiresAt := svc.clock.Now().Add(svc.config.OtpTTL)
	logger = logger.With().Str(log.KeyProcess, "publishing otp").Logger()
	logger.Trace().Msg("publishing otp")
	err = svc.publisher.Publish(c, event.New(event.TypeOtp, email, map[string]interface{}{
		"otp":       otp,
		"expiresAt": expiresAt,
	}))
	if err != nil {
		err = fmt.Errorf("failed publishing otp with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.OtpSent{}, err
	}
	logger.Info().Msg("sent otp")

	return response.OtpSent{Email: email, ExpiresAt: expiresAt}, nil
}

// VerifyOtp consumes the code sent to email and issues a customer token. A
// code survives at most MaxAttempts guesses.
func (svc *UserService) VerifyOtp(c context.Context, param request.VerifyOtp) (response.Token, error) {
	c, span := otel.Tracer.Start(c, "UserService VerifyOtp")
	defer span.End()

	email := normalizeEmail(param.Email)
	otpKey := cache.OtpKey(email)
	attemptsKey := cache.OtpAttemptsKey(email)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserService VerifyOtp").
		Str(log.KeyEmail, email).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "counting attempt").Logger()
	logger.Trace().Msg("counting attempt")
	attempts, err := svc.cache.Incr(c, attemptsKey).Result()
	if err != nil {
		err = fmt.Errorf("failed counting attempt with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Token{}, err
	}
	if attempts == 1 {
		svc.cache.Expire(c, attemptsKey, svc.config.OtpTTL)
	}
	if attempts > int64(svc.config.MaxAttempts) {
		svc.cache.Del(c, otpKey)
		err = fmt.Errorf("failed verifying otp after %d attempts with error=%w", attempts-1, userErrors.ErrOtpAttemptsExceeded)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Token{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "verifying otp").Logger()
	logger.Trace().Msg("verifying otp")
	stored, err := svc.cache.Get(c, otpKey).Result()
	if errors.Is(err, redis.Nil) {
		err = fmt.Errorf("failed finding otp with error=%w", userErrors.ErrOtpInvalid)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Token{}, err
	}
	if err != nil {
		err = fmt.Errorf("failed finding otp with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Token{}, err
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(param.Otp)) != 1 {
		err = fmt.Errorf("failed verifying otp with error=%w", userErrors.ErrOtpInvalid)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Token{}, err
	}
	svc.cache.Del(c, otpKey, attemptsKey)
	logger.Trace().Msg("verified otp")

	logger = logger.With().Str(log.KeyProcess, "upserting customer").Logger()
	logger.Trace().Msg("upserting customer")
	customer, err := svc.queries.UpsertCustomer(c, email)
	if err != nil {
		err = fmt.Errorf("failed upserting customer with error=%w", repository.Translate(err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Token{}, err
	}
	logger = logger.With().Str(log.KeyUserID, customer.ID.String()).Logger()
	logger.Trace().Msg("upserted customer")

	logger = logger.With().Str(log.KeyProcess, "issuing token").Logger()
	now := svc.clock.Now()
	signed, _, err := common.IssueToken(
		svc.secretKey,
		constants.AUDIENCE_USER,
		customer.ID.String(),
		svc.config.TokenTTL,
		now,
	)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Token{}, err
	}
	logger.Info().Msg("customer logged in")

	return response.Token{Token: signed, ExpiresAt: now.Add(svc.config.TokenTTL)}, nil
}
