package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Coupon : un seul coupon actif par utilisateur, remise en pourcentage
type Coupon struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code               string             `bson:"code" json:"code"`
	DiscountPercentage float64            `bson:"discount_percentage" json:"discountPercentage"`
	ExpirationDate     time.Time          `bson:"expiration_date" json:"expirationDate"`
	IsActive           bool               `bson:"is_active" json:"isActive"`
	UserID             primitive.ObjectID `bson:"user_id" json:"userId"`
	CreatedAt          time.Time          `bson:"created_at" json:"createdAt"`
}

// IsExpired compare la date d'expiration à l'instant donné
func (c Coupon) IsExpired(now time.Time) bool {
	return c.ExpirationDate.Before(now)
}

// ApplyDiscount retourne le montant après remise, jamais négatif
func (c Coupon) ApplyDiscount(total float64) float64 {
	discounted := total - total*c.DiscountPercentage/100
	if discounted < 0 {
		return 0
	}
	return discounted
}
