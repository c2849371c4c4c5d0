package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Alturino/bagstore/cart/internal/storage"
	couponResponse "github.com/Alturino/bagstore/coupon/pkg/response"
	inErrors "github.com/Alturino/bagstore/internal/errors"
)

type fakeApplier struct {
	discounts map[string]decimal.Decimal
}

func (f *fakeApplier) ApplyCoupon(
	_ context.Context,
	code string,
	orderTotal decimal.Decimal,
) (couponResponse.AppliedCoupon, error) {
	discount, ok := f.discounts[code]
	if !ok {
		return couponResponse.AppliedCoupon{}, inErrors.ErrCouponInvalid
	}
	return couponResponse.AppliedCoupon{Code: code, Discount: discount, Total: orderTotal.Sub(discount)}, nil
}

type cartTestContext struct {
	c       context.Context
	storage *storage.Memory
	applier *fakeApplier
	taxRate decimal.Decimal
	store   *Store
	ids     map[string]uuid.UUID
	err     error
}

func (t *cartTestContext) reset() {
	t.c = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano}).
		Level(zerolog.WarnLevel).
		WithContext(context.Background())
	t.storage = storage.NewMemory()
	t.applier = &fakeApplier{discounts: map[string]decimal.Decimal{}}
	t.ids = map[string]uuid.UUID{}
	t.store = nil
	t.err = nil
}

func (t *cartTestContext) newStore() error {
	t.store = New("feature", t.storage, t.taxRate, WithCouponApplier(t.applier))
	return t.store.Hydrate(t.c)
}

func (t *cartTestContext) idOf(name string) uuid.UUID {
	id, ok := t.ids[name]
	if !ok {
		id = uuid.New()
		t.ids[name] = id
	}
	return id
}

func (t *cartTestContext) lineOf(name string) (Item, bool) {
	id := t.idOf(name)
	for _, item := range t.store.Items() {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

func expectAmount(label string, expected string, actual decimal.Decimal) error {
	want, err := decimal.NewFromString(expected)
	if err != nil {
		return err
	}
	if !actual.Equal(want) {
		return fmt.Errorf("expected %s %s, got %s", label, want.String(), actual.String())
	}
	return nil
}

func (t *cartTestContext) anEmptyCartWithATaxRateOf(rate string) error {
	taxRate, err := decimal.NewFromString(rate)
	if err != nil {
		return err
	}
	t.taxRate = taxRate
	return t.newStore()
}

func (t *cartTestContext) iAddOfPriced(quantity int, name string, price string) error {
	p, err := decimal.NewFromString(price)
	if err != nil {
		return err
	}
	return t.store.AddItem(t.c, Item{ID: t.idOf(name), Name: name, Price: p, Quantity: quantity})
}

func (t *cartTestContext) iDecreaseTheQuantityOf(name string) error {
	return t.store.DecreaseQuantity(t.c, t.idOf(name))
}

func (t *cartTestContext) iSetTheShippingCostTo(cost string) error {
	shipping, err := decimal.NewFromString(cost)
	if err != nil {
		return err
	}
	return t.store.SetShipping(t.c, shipping)
}

func (t *cartTestContext) theCouponIsWorth(code string, discount string) error {
	d, err := decimal.NewFromString(discount)
	if err != nil {
		return err
	}
	t.applier.discounts[code] = d
	return nil
}

func (t *cartTestContext) iApplyTheCoupon(code string) error {
	return t.store.ApplyCoupon(t.c, code, t.store.Totals().PreDiscount())
}

func (t *cartTestContext) iApplyTheUnknownCoupon(code string) error {
	t.err = t.store.ApplyCoupon(t.c, code, t.store.Totals().PreDiscount())
	return nil
}

func (t *cartTestContext) iReloadTheCartFromStorage() error {
	return t.newStore()
}

func (t *cartTestContext) theCartHasLines(count int) error {
	if actual := len(t.store.Items()); actual != count {
		return fmt.Errorf("expected %d lines, got %d", count, actual)
	}
	return nil
}

func (t *cartTestContext) theLineHasQuantity(name string, quantity int) error {
	item, ok := t.lineOf(name)
	if !ok {
		return fmt.Errorf("expected line %q in the cart", name)
	}
	if item.Quantity != quantity {
		return fmt.Errorf("expected quantity %d for %q, got %d", quantity, name, item.Quantity)
	}
	return nil
}

func (t *cartTestContext) theTotalCountIs(count int) error {
	if actual := t.store.TotalCount(); actual != count {
		return fmt.Errorf("expected total count %d, got %d", count, actual)
	}
	return nil
}

func (t *cartTestContext) theSubtotalIs(amount string) error {
	return expectAmount("subtotal", amount, t.store.Subtotal())
}

func (t *cartTestContext) theTaxesAre(amount string) error {
	return expectAmount("taxes", amount, t.store.Taxes())
}

func (t *cartTestContext) theTotalIs(amount string) error {
	return expectAmount("total", amount, t.store.Total())
}

func (t *cartTestContext) theAppliedDiscountIs(amount string) error {
	coupon := t.store.AppliedCoupon()
	if coupon == nil {
		return errors.New("expected an applied coupon")
	}
	return expectAmount("discount", amount, coupon.Discount)
}

func (t *cartTestContext) applyingTheCouponFails() error {
	if t.err == nil {
		return errors.New("expected applying the coupon to fail")
	}
	if !errors.Is(t.err, inErrors.ErrCouponInvalid) {
		return fmt.Errorf("expected ErrCouponInvalid, got %v", t.err)
	}
	return nil
}

func (t *cartTestContext) theAppliedCouponIs(code string) error {
	coupon := t.store.AppliedCoupon()
	if coupon == nil {
		return errors.New("expected an applied coupon")
	}
	if coupon.Code != code {
		return fmt.Errorf("expected coupon %q, got %q", code, coupon.Code)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &cartTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	ctx.Step(`^an empty cart with a tax rate of ([0-9.]+)$`, tc.anEmptyCartWithATaxRateOf)
	ctx.Step(`^I add (\d+) of "([^"]*)" priced ([0-9.]+)$`, tc.iAddOfPriced)
	ctx.Step(`^I decrease the quantity of "([^"]*)"$`, tc.iDecreaseTheQuantityOf)
	ctx.Step(`^I set the shipping cost to ([0-9.]+)$`, tc.iSetTheShippingCostTo)
	ctx.Step(`^the coupon "([^"]*)" is worth ([0-9.]+)$`, tc.theCouponIsWorth)
	ctx.Step(`^I apply the coupon "([^"]*)"$`, tc.iApplyTheCoupon)
	ctx.Step(`^I apply the unknown coupon "([^"]*)"$`, tc.iApplyTheUnknownCoupon)
	ctx.Step(`^I reload the cart from storage$`, tc.iReloadTheCartFromStorage)

	ctx.Step(`^the cart has (\d+) lines?$`, tc.theCartHasLines)
	ctx.Step(`^the line "([^"]*)" has quantity (\d+)$`, tc.theLineHasQuantity)
	ctx.Step(`^the total count is (\d+)$`, tc.theTotalCountIs)
	ctx.Step(`^the subtotal is ([0-9.]+)$`, tc.theSubtotalIs)
	ctx.Step(`^the taxes are ([0-9.]+)$`, tc.theTaxesAre)
	ctx.Step(`^the total is ([0-9.]+)$`, tc.theTotalIs)
	ctx.Step(`^the applied discount is ([0-9.]+)$`, tc.theAppliedDiscountIs)
	ctx.Step(`^applying the coupon fails$`, tc.applyingTheCouponFails)
	ctx.Step(`^the applied coupon is "([^"]*)"$`, tc.theAppliedCouponIs)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
