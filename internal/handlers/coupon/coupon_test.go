package coupon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"velora_back_end/internal/models"
)

func TestCheckValidity(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name       string
		coupon     models.Coupon
		unusable   bool
		deactivate bool
	}{
		{
			name:     "actif et non expiré",
			coupon:   models.Coupon{IsActive: true, ExpirationDate: now.Add(24 * time.Hour)},
			unusable: false,
		},
		{
			name:       "actif mais expiré : refusé et à désactiver",
			coupon:     models.Coupon{IsActive: true, ExpirationDate: now.Add(-time.Hour)},
			unusable:   true,
			deactivate: true,
		},
		{
			// Les appels suivants retrouvent le coupon désactivé
			// et doivent encore être refusés
			name:     "déjà désactivé : toujours refusé",
			coupon:   models.Coupon{IsActive: false, ExpirationDate: now.Add(-time.Hour)},
			unusable: true,
		},
		{
			name:     "désactivé même si la date est future",
			coupon:   models.Coupon{IsActive: false, ExpirationDate: now.Add(24 * time.Hour)},
			unusable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unusable, deactivate := checkValidity(tt.coupon, now)
			assert.Equal(t, tt.unusable, unusable)
			assert.Equal(t, tt.deactivate, deactivate)
		})
	}
}
