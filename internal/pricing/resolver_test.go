// internal/pricing/resolver_test.go
package pricing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func listing(price string) Listing {
	return Listing{
		ID:        uuid.New(),
		StoreID:   uuid.New(),
		BasePrice: decimal.RequireFromString(price),
	}
}

func currentDiscount(kind Kind, value string) *Discount {
	return &Discount{
		ID:        uuid.New(),
		Kind:      kind,
		Value:     decimal.RequireFromString(value),
		ValidFrom: now.AddDate(0, 0, -1),
		ValidTo:   now.AddDate(0, 0, 1),
	}
}

func TestResolvePercentageDiscount(t *testing.T) {
	priced, err := Resolve([]Listing{listing("100.00")}, currentDiscount(KindPercentage, "20"), now)
	require.NoError(t, err)
	require.Len(t, priced, 1)

	assert.True(t, priced[0].Discounted)
	assert.True(t, priced[0].EffectivePrice.Equal(decimal.RequireFromString("80.00")),
		"got %s", priced[0].EffectivePrice)
}

func TestResolvePercentageRoundsToCents(t *testing.T) {
	priced, err := Resolve([]Listing{listing("9.99")}, currentDiscount(KindPercentage, "33"), now)
	require.NoError(t, err)

	// 9.99 * 0.67 = 6.6933 -> 6.69
	assert.True(t, priced[0].EffectivePrice.Equal(decimal.RequireFromString("6.69")),
		"got %s", priced[0].EffectivePrice)
	assert.True(t, priced[0].EffectivePrice.LessThanOrEqual(priced[0].BasePrice))
}

func TestResolveAmountDiscount(t *testing.T) {
	priced, err := Resolve([]Listing{listing("100.00")}, currentDiscount(KindAmount, "15.50"), now)
	require.NoError(t, err)

	assert.True(t, priced[0].EffectivePrice.Equal(decimal.RequireFromString("84.50")))
}

func TestResolveAmountClampsAtZero(t *testing.T) {
	priced, err := Resolve([]Listing{listing("50.00")}, currentDiscount(KindAmount, "60.00"), now)
	require.NoError(t, err)

	assert.True(t, priced[0].Discounted)
	assert.True(t, priced[0].EffectivePrice.IsZero(), "got %s", priced[0].EffectivePrice)
}

func TestResolveNoDiscount(t *testing.T) {
	priced, err := Resolve([]Listing{listing("30.00")}, nil, now)
	require.NoError(t, err)

	assert.False(t, priced[0].Discounted)
	assert.True(t, priced[0].EffectivePrice.Equal(decimal.RequireFromString("30.00")))
}

func TestResolveZeroMagnitudeLeavesPriceUnchanged(t *testing.T) {
	for _, kind := range []Kind{KindPercentage, KindAmount} {
		priced, err := Resolve([]Listing{listing("30.00")}, currentDiscount(kind, "0"), now)
		require.NoError(t, err)
		assert.True(t, priced[0].EffectivePrice.Equal(priced[0].BasePrice))
	}
}

func TestResolveFullPercentageDropsToZero(t *testing.T) {
	priced, err := Resolve([]Listing{listing("49.99")}, currentDiscount(KindPercentage, "100"), now)
	require.NoError(t, err)
	assert.True(t, priced[0].EffectivePrice.IsZero())
}

func TestResolvePercentageOverHundredFails(t *testing.T) {
	_, err := Resolve([]Listing{listing("100.00")}, currentDiscount(KindPercentage, "150"), now)
	assert.ErrorIs(t, err, ErrInvalidDiscount)
}

func TestResolveNegativeMagnitudeFails(t *testing.T) {
	for _, kind := range []Kind{KindPercentage, KindAmount} {
		_, err := Resolve([]Listing{listing("100.00")}, currentDiscount(kind, "-5"), now)
		assert.ErrorIs(t, err, ErrInvalidDiscount)
	}
}

func TestResolveNegativeBasePriceFails(t *testing.T) {
	_, err := Resolve([]Listing{listing("-1.00")}, nil, now)
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestResolveExpiredDiscountDoesNotApply(t *testing.T) {
	d := currentDiscount(KindPercentage, "20")
	d.ValidFrom = now.AddDate(0, 0, -10)
	d.ValidTo = now.AddDate(0, 0, -5)

	priced, err := Resolve([]Listing{listing("100.00")}, d, now)
	require.NoError(t, err)
	assert.False(t, priced[0].Discounted)
	assert.True(t, priced[0].EffectivePrice.Equal(priced[0].BasePrice))
}

func TestResolveWindowBoundsAreInclusive(t *testing.T) {
	d := currentDiscount(KindPercentage, "10")
	d.ValidFrom = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	d.ValidTo = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	// Late evening of the last valid day still counts.
	priced, err := Resolve([]Listing{listing("100.00")}, d, time.Date(2025, 6, 15, 23, 59, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, priced[0].Discounted)

	priced, err = Resolve([]Listing{listing("100.00")}, d, time.Date(2025, 6, 16, 0, 0, 1, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, priced[0].Discounted)
}

func TestResolveApplicabilitySet(t *testing.T) {
	covered := listing("100.00")
	uncovered := listing("100.00")

	d := currentDiscount(KindPercentage, "50")
	d.ListingIDs = []uuid.UUID{covered.ID}

	priced, err := Resolve([]Listing{covered, uncovered}, d, now)
	require.NoError(t, err)

	assert.True(t, priced[0].Discounted)
	assert.True(t, priced[0].EffectivePrice.Equal(decimal.RequireFromString("50.00")))
	assert.False(t, priced[1].Discounted)
	assert.True(t, priced[1].EffectivePrice.Equal(decimal.RequireFromString("100.00")))
}

func TestResolveStoreWideCoversOnlyThatStore(t *testing.T) {
	inStore := listing("40.00")
	otherStore := listing("40.00")

	d := currentDiscount(KindAmount, "10.00")
	d.StoreID = &inStore.StoreID

	priced, err := Resolve([]Listing{inStore, otherStore}, d, now)
	require.NoError(t, err)

	assert.True(t, priced[0].EffectivePrice.Equal(decimal.RequireFromString("30.00")))
	assert.False(t, priced[1].Discounted)
}

func TestResolveIsIdempotent(t *testing.T) {
	listings := []Listing{listing("100.00"), listing("9.99"), listing("0.00")}
	d := currentDiscount(KindPercentage, "12.5")

	first, err := Resolve(listings, d, now)
	require.NoError(t, err)
	second, err := Resolve(listings, d, now)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.True(t, first[i].EffectivePrice.Equal(second[i].EffectivePrice))
		assert.Equal(t, first[i].Discounted, second[i].Discounted)
	}
}

func TestResolveDoesNotMutateInput(t *testing.T) {
	l := listing("100.00")
	listings := []Listing{l}

	_, err := Resolve(listings, currentDiscount(KindPercentage, "20"), now)
	require.NoError(t, err)
	assert.True(t, listings[0].BasePrice.Equal(decimal.RequireFromString("100.00")))
}

func TestValidateUnknownKind(t *testing.T) {
	d := currentDiscount("bogus", "10")
	assert.ErrorIs(t, d.Validate(), ErrInvalidDiscount)
}
