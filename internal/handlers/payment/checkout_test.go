package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"velora_back_end/internal/models"
)

func TestCalcTotalCents(t *testing.T) {
	lines := []checkoutLine{
		{ID: "a", Quantity: 2, Price: 19.99},
		{ID: "b", Quantity: 1, Price: 5.50},
	}

	// 2×1999 + 1×550 = 4548 centimes
	assert.Equal(t, int64(4548), calcTotalCents(lines))
}

func TestCalcTotalCentsEmpty(t *testing.T) {
	assert.Equal(t, int64(0), calcTotalCents(nil))
}

func TestGiftCouponThreshold(t *testing.T) {
	under := []checkoutLine{{ID: "a", Quantity: 1, Price: 199.99}}
	over := []checkoutLine{{ID: "a", Quantity: 1, Price: 200}}

	assert.Less(t, calcTotalCents(under), int64(giftCouponThresholdCents))
	assert.GreaterOrEqual(t, calcTotalCents(over), int64(giftCouponThresholdCents))
}

func TestCouponDiscountInCents(t *testing.T) {
	cp := models.Coupon{DiscountPercentage: 10}

	// 200,00€ - 10% = 180,00€
	assert.Equal(t, int64(18000), cents(cp.ApplyDiscount(200)))

	// Arrondi au centime, pas de troncature : 33,33€ - 15% = 28,3305€
	cp = models.Coupon{DiscountPercentage: 15}
	assert.Equal(t, int64(2833), cents(cp.ApplyDiscount(33.33)))
}
