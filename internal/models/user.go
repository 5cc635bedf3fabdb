package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type User struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                string             `bson:"name" json:"name"`
	Email               string             `bson:"email" json:"email"`
	Password            string             `bson:"password,omitempty" json:"-"`
	Role                string             `bson:"role" json:"role"` // "customer" ou "admin"
	Provider            string             `bson:"provider,omitempty" json:"provider,omitempty"`
	ProviderID          string             `bson:"provider_id,omitempty" json:"-"`
	CartItems           []CartItem         `bson:"cart_items" json:"cartItems"`
	CartVersion         int64              `bson:"cart_version" json:"-"`
	ResetPasswordToken  string             `bson:"reset_password_token,omitempty" json:"-"`
	ResetPasswordExpire *time.Time         `bson:"reset_password_expire,omitempty" json:"-"`
	CreatedAt           time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updated_at" json:"updatedAt"`
}

// CartItem est embarqué dans le document utilisateur.
// quantity = 0 n'existe jamais en base : l'item est retiré à la place.
type CartItem struct {
	Product  primitive.ObjectID `bson:"product" json:"productId"`
	Quantity int                `bson:"quantity" json:"quantity"`
}

// PublicProfile retourne la projection sans champs sensibles
func (u User) PublicProfile() map[string]interface{} {
	return map[string]interface{}{
		"id":        u.ID,
		"name":      u.Name,
		"email":     u.Email,
		"role":      u.Role,
		"createdAt": u.CreatedAt,
	}
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
