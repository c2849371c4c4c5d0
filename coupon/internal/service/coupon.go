package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/juju/clock"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Alturino/bagstore/coupon/internal/otel"
	"github.com/Alturino/bagstore/coupon/pkg/request"
	"github.com/Alturino/bagstore/coupon/pkg/response"
	inErrors "github.com/Alturino/bagstore/internal/errors"
	inHttp "github.com/Alturino/bagstore/internal/http"
	"github.com/Alturino/bagstore/internal/listing"
	"github.com/Alturino/bagstore/internal/log"
	inOtel "github.com/Alturino/bagstore/internal/otel"
	"github.com/Alturino/bagstore/internal/repository"
	"github.com/Alturino/bagstore/pricing"
)

type CouponService struct {
	queries      *repository.Queries
	clock        clock.Clock
	defaultLimit int
}

func NewCouponService(queries *repository.Queries, clk clock.Clock, defaultLimit int) *CouponService {
	if clk == nil {
		clk = clock.WallClock
	}
	return &CouponService{queries: queries, clock: clk, defaultLimit: defaultLimit}
}

// NormalizeCode is how every coupon code is stored and looked up.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Apply prices a coupon against orderTotal without redeeming it. Unknown codes
// are reported as ErrCouponInvalid.
func (svc *CouponService) Apply(c context.Context, param request.ApplyCoupon) (response.AppliedCoupon, error) {
	c, span := otel.Tracer.Start(c, "CouponService Apply")
	defer span.End()

	code := NormalizeCode(param.Code)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CouponService Apply").
		Str(log.KeyCouponCode, code).
		Str("orderTotal", param.OrderTotal.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding coupon").Logger()
	logger.Trace().Msg("finding coupon")
	coupon, err := svc.queries.FindCouponByCode(c, code)
	if err != nil {
		err = repository.Translate(err)
		if errors.Is(err, inErrors.ErrNotFound) {
			err = fmt.Errorf("coupon=%s not found: %w", code, inErrors.ErrCouponInvalid)
		} else {
			err = fmt.Errorf("failed finding coupon with error=%w", err)
		}
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.AppliedCoupon{}, err
	}
	logger.Trace().Msg("found coupon")

	logger = logger.With().Str(log.KeyProcess, "computing discount").Logger()
	logger.Trace().Msg("computing discount")
	discount, err := coupon.Rule().Discount(param.OrderTotal, svc.clock.Now())
	if err != nil {
		err = fmt.Errorf("failed applying coupon=%s with error=%w", code, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.AppliedCoupon{}, err
	}

	applied := response.AppliedCoupon{
		Code:     code,
		Discount: discount,
		Total:    param.OrderTotal.Sub(discount),
	}
	logger.Info().Str("discount", discount.String()).Msg("applied coupon")
	return applied, nil
}

func validateRule(param request.Coupon) error {
	if param.DiscountType == pricing.DiscountPercent && param.Value.GreaterThan(decimal.NewFromInt(100)) {
		return &inHttp.RequestError{Messages: []string{"value must be at most 100 for percent coupons"}}
	}
	if param.MinOrderTotal != nil && param.MinOrderTotal.IsNegative() {
		return &inHttp.RequestError{Messages: []string{"minOrderTotal must be a non negative amount"}}
	}
	return nil
}

func (svc *CouponService) InsertCoupon(c context.Context, param request.Coupon) (response.Coupon, error) {
	c, span := otel.Tracer.Start(c, "CouponService InsertCoupon")
	defer span.End()

	code := NormalizeCode(param.Code)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CouponService InsertCoupon").
		Str(log.KeyCouponCode, code).
		Logger()

	if err := validateRule(param); err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Coupon{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "inserting coupon").Logger()
	logger.Trace().Msg("inserting coupon")
	coupon, err := svc.queries.InsertCoupon(c, repository.InsertCouponParams{
		Code:          code,
		DiscountType:  repository.DiscountType(param.DiscountType),
		Value:         repository.Numeric(param.Value),
		MinOrderTotal: repository.NullableNumeric(param.MinOrderTotal),
		ExpiresAt:     repository.Timestamptz(param.ExpiresAt),
		UsageLimit:    repository.Int4(param.UsageLimit),
		Active:        param.IsActive(),
	})
	if err != nil {
		err = fmt.Errorf("failed inserting coupon with error=%w", repository.Translate(err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Coupon{}, err
	}
	logger.Info().Msg("inserted coupon")
	return coupon.Response(), nil
}

func (svc *CouponService) UpdateCoupon(c context.Context, code string, param request.Coupon) (response.Coupon, error) {
	c, span := otel.Tracer.Start(c, "CouponService UpdateCoupon")
	defer span.End()

	code = NormalizeCode(code)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CouponService UpdateCoupon").
		Str(log.KeyCouponCode, code).
		Logger()

	if err := validateRule(param); err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Coupon{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "updating coupon").Logger()
	logger.Trace().Msg("updating coupon")
	coupon, err := svc.queries.UpdateCoupon(c, repository.UpdateCouponParams{
		Code:          code,
		DiscountType:  repository.DiscountType(param.DiscountType),
		Value:         repository.Numeric(param.Value),
		MinOrderTotal: repository.NullableNumeric(param.MinOrderTotal),
		ExpiresAt:     repository.Timestamptz(param.ExpiresAt),
		UsageLimit:    repository.Int4(param.UsageLimit),
		Active:        param.IsActive(),
	})
	if err != nil {
		err = fmt.Errorf("failed updating coupon with error=%w", repository.Translate(err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Coupon{}, err
	}
	logger.Info().Msg("updated coupon")
	return coupon.Response(), nil
}

func (svc *CouponService) DeleteCoupon(c context.Context, code string) (response.Coupon, error) {
	c, span := otel.Tracer.Start(c, "CouponService DeleteCoupon")
	defer span.End()

	code = NormalizeCode(code)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CouponService DeleteCoupon").
		Str(log.KeyCouponCode, code).
		Str(log.KeyProcess, "deleting coupon").
		Logger()

	logger.Trace().Msg("deleting coupon")
	coupon, err := svc.queries.DeleteCoupon(c, code)
	if err != nil {
		err = fmt.Errorf("failed deleting coupon with error=%w", repository.Translate(err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Coupon{}, err
	}
	logger.Info().Msg("deleted coupon")
	return coupon.Response(), nil
}

// FindCoupons lists coupons. Status "active" or "inactive" filters on the
// active flag.
func (svc *CouponService) FindCoupons(c context.Context, param request.FindCoupons) (listing.Page[response.Coupon], error) {
	c, span := otel.Tracer.Start(c, "CouponService FindCoupons")
	defer span.End()

	query := param.Query.Normalize(svc.defaultLimit)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CouponService FindCoupons").
		Any(log.KeyQuery, query).
		Str(log.KeyProcess, "finding coupons").
		Logger()

	logger.Trace().Msg("finding coupons")
	rows, err := svc.queries.FindCoupons(c, repository.FindCouponsParams{
		Search: query.Search,
		Active: repository.Bool(query.Status),
		Limit:  int32(query.Limit),
		Offset: query.Offset(),
	})
	if err != nil {
		err = fmt.Errorf("failed finding coupons with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return listing.Page[response.Coupon]{}, err
	}

	total := int64(0)
	coupons := make([]response.Coupon, 0, len(rows))
	for _, row := range rows {
		total = row.TotalCount
		coupons = append(coupons, row.Coupon.Response())
	}
	logger.Info().Int64("total", total).Msg("found coupons")
	return listing.NewPage(coupons, total, query), nil
}
