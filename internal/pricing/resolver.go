// internal/pricing/resolver.go

// Package pricing computes the effective (possibly discounted) price of
// seller listings for display. It is a pure transformation over its
// inputs: no storage access, no shared state, safe for concurrent use.
package pricing

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidDiscount marks a discount whose magnitude is negative or
	// whose percentage exceeds 100.
	ErrInvalidDiscount = errors.New("invalid discount")

	// ErrInvalidPrice marks a listing with a negative base price, which
	// indicates upstream data corruption.
	ErrInvalidPrice = errors.New("invalid price")
)

type Kind string

const (
	KindPercentage Kind = "percentage"
	KindAmount     Kind = "amount"
)

var oneHundred = decimal.NewFromInt(100)

// Discount describes a campaign to apply against a set of listings.
type Discount struct {
	ID        uuid.UUID
	Kind      Kind
	Value     decimal.Decimal
	ValidFrom time.Time
	ValidTo   time.Time

	// StoreID scopes a store-wide campaign; every listing of that store
	// is covered. When nil, ListingIDs is the applicability set.
	StoreID *uuid.UUID

	// ListingIDs is the explicit set of covered listings. Empty with a
	// nil StoreID means the discount covers every listing it is handed,
	// which is how a campaign's own detail page resolves prices.
	ListingIDs []uuid.UUID
}

// Listing is the pricing view of a seller product.
type Listing struct {
	ID        uuid.UUID
	StoreID   uuid.UUID
	BasePrice decimal.Decimal
}

// PricedListing carries the original and effective price for display.
type PricedListing struct {
	Listing
	EffectivePrice decimal.Decimal
	Discounted     bool
}

// Validate checks the discount magnitude against its kind.
func (d *Discount) Validate() error {
	if d.Value.IsNegative() {
		return fmt.Errorf("%w: negative magnitude %s", ErrInvalidDiscount, d.Value)
	}
	if d.Kind == KindPercentage && d.Value.GreaterThan(oneHundred) {
		return fmt.Errorf("%w: percentage %s exceeds 100", ErrInvalidDiscount, d.Value)
	}
	if d.Kind != KindPercentage && d.Kind != KindAmount {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidDiscount, d.Kind)
	}
	return nil
}

// CurrentOn reports whether now falls inside the validity window.
// Both bounds are inclusive and compared at day granularity.
func (d *Discount) CurrentOn(now time.Time) bool {
	day := toDate(now)
	return !day.Before(toDate(d.ValidFrom)) && !day.After(toDate(d.ValidTo))
}

// Covers reports whether the discount applies to the given listing.
func (d *Discount) Covers(l Listing) bool {
	if d.StoreID != nil {
		return *d.StoreID == l.StoreID
	}
	if len(d.ListingIDs) == 0 {
		return true
	}
	for _, id := range d.ListingIDs {
		if id == l.ID {
			return true
		}
	}
	return false
}

// Resolve computes the effective price for each listing under the given
// discount. A nil discount, a discount outside its validity window at
// now, or a listing outside the applicability set all leave the base
// price untouched. The window is re-checked here rather than trusted
// from the caller, so a stale campaign never silently applies.
//
// Percentage discounts round to two decimal places; amount discounts
// clamp at zero. The input slice is not mutated and calling Resolve
// twice with identical inputs yields identical results.
func Resolve(listings []Listing, d *Discount, now time.Time) ([]PricedListing, error) {
	if d != nil {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if !d.CurrentOn(now) {
			d = nil
		}
	}

	priced := make([]PricedListing, 0, len(listings))
	for _, l := range listings {
		if l.BasePrice.IsNegative() {
			return nil, fmt.Errorf("%w: listing %s has base price %s", ErrInvalidPrice, l.ID, l.BasePrice)
		}

		p := PricedListing{Listing: l, EffectivePrice: l.BasePrice}
		if d != nil && d.Covers(l) {
			p.EffectivePrice = apply(l.BasePrice, d)
			p.Discounted = true
		}
		priced = append(priced, p)
	}
	return priced, nil
}

func apply(base decimal.Decimal, d *Discount) decimal.Decimal {
	var effective decimal.Decimal
	switch d.Kind {
	case KindPercentage:
		factor := decimal.NewFromInt(1).Sub(d.Value.Div(oneHundred))
		effective = base.Mul(factor).Round(2)
	case KindAmount:
		effective = base.Sub(d.Value)
	}
	if effective.IsNegative() {
		return decimal.Zero
	}
	return effective
}

func toDate(t time.Time) time.Time {
	y, m, day := t.UTC().Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}
