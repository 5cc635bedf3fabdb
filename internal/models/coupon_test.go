package models

import (
	"testing"
	"time"
)

func TestCouponIsExpired(t *testing.T) {
	now := time.Now()

	c := Coupon{ExpirationDate: now.Add(time.Hour)}
	if c.IsExpired(now) {
		t.Error("un coupon qui expire dans une heure ne doit pas être expiré")
	}

	c = Coupon{ExpirationDate: now.Add(-time.Minute)}
	if !c.IsExpired(now) {
		t.Error("un coupon expiré il y a une minute doit être expiré")
	}
}

func TestApplyDiscount(t *testing.T) {
	tests := []struct {
		name       string
		percentage float64
		total      float64
		want       float64
	}{
		{"10% sur 100", 10, 100, 90},
		{"50% sur 80", 50, 80, 40},
		{"100% sur 30", 100, 30, 0},
		{"0% sur 25", 0, 25, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Coupon{DiscountPercentage: tt.percentage}
			if got := c.ApplyDiscount(tt.total); got != tt.want {
				t.Errorf("ApplyDiscount(%v) = %v, want %v", tt.total, got, tt.want)
			}
		})
	}
}

func TestApplyDiscountNeverNegative(t *testing.T) {
	c := Coupon{DiscountPercentage: 150}
	if got := c.ApplyDiscount(40); got < 0 {
		t.Errorf("ApplyDiscount ne doit jamais être négatif, got %v", got)
	}
}
