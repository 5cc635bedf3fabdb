package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Statuts de commande (ensemble fermé)
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

const (
	PaymentStatusPaid   = "paid"
	PaymentStatusUnpaid = "unpaid"
)

type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User            primitive.ObjectID `bson:"user" json:"userId"`
	Products        []OrderItem        `bson:"products" json:"products"`
	TotalAmount     float64            `bson:"total_amount" json:"totalAmount"`
	StripeSessionID string             `bson:"stripe_session_id,omitempty" json:"stripeSessionId,omitempty"`
	Status          string             `bson:"status" json:"status"`
	PaymentStatus   string             `bson:"payment_status" json:"paymentStatus"`
	ShippingAddress ShippingAddress    `bson:"shipping_address" json:"shippingAddress"`
	TrackingNumber  string             `bson:"tracking_number,omitempty" json:"trackingNumber,omitempty"`
	Carrier         string             `bson:"carrier,omitempty" json:"carrier,omitempty"`
	ShippedDate     *time.Time         `bson:"shipped_date,omitempty" json:"shippedDate,omitempty"`
	CancelledAt     *time.Time         `bson:"cancelled_at,omitempty" json:"cancelledAt,omitempty"`
	CreatedAt       time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updatedAt"`
}

// OrderItem fige le prix au moment de l'achat
type OrderItem struct {
	Product  primitive.ObjectID `bson:"product" json:"productId"`
	Quantity int                `bson:"quantity" json:"quantity"`
	Price    float64            `bson:"price" json:"price"`
}

type ShippingAddress struct {
	Name    string `bson:"name" json:"name" binding:"required"`
	Address string `bson:"address" json:"address" binding:"required"`
	City    string `bson:"city" json:"city" binding:"required"`
	State   string `bson:"state" json:"state" binding:"required"`
	ZipCode string `bson:"zip_code" json:"zipCode" binding:"required"`
	Country string `bson:"country" json:"country" binding:"required"`
}

// ValidOrderStatus vérifie qu'un statut appartient à l'ensemble fermé
func ValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CanCancel : annulation possible uniquement depuis pending ou processing
func (o Order) CanCancel() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusProcessing
}

// OrderNumber dérive le numéro lisible depuis l'ObjectID (ORD-XXXXXXXX)
func (o Order) OrderNumber() string {
	hex := o.ID.Hex()
	if len(hex) > 8 {
		hex = hex[len(hex)-8:]
	}
	return fmt.Sprintf("ORD-%s", strings.ToUpper(hex))
}
