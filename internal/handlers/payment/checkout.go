package payment

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/checkout/session"
	stripecoupon "github.com/stripe/stripe-go/v83/coupon"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"velora_back_end/internal/database"
	"velora_back_end/internal/middleware"
	"velora_back_end/internal/models"
)

// Seuil au-delà duquel un coupon cadeau est offert (en centimes)
const giftCouponThresholdCents = 20000

// checkoutLine est la ligne repricée côté serveur, stockée dans les
// métadonnées Stripe pour reconstruire la commande
type checkoutLine struct {
	ID       string  `json:"id"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// cents convertit un prix en euros vers des centimes entiers
func cents(price float64) int64 {
	return int64(math.Round(price * 100))
}

// calcTotalCents calcule le montant total en centimes
func calcTotalCents(lines []checkoutLine) int64 {
	var total int64
	for _, l := range lines {
		total += cents(l.Price) * int64(l.Quantity)
	}
	return total
}

// 💳 POST /api/v1/payments/create-checkout-session
func CreateCheckoutSession(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	var req struct {
		Products []struct {
			ID       string `json:"_id"`
			Quantity int    `json:"quantity"`
		} `json:"products"`
		CouponCode string `json:"couponCode"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Products) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requête invalide ou panier vide"})
		return
	}

	ctx := context.Background()

	// ✅ Reprix côté serveur : les prix envoyés par le client sont ignorés,
	// seuls ceux du catalogue font foi
	lines := make([]checkoutLine, 0, len(req.Products))
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.Products))

	for _, item := range req.Products {
		objID, err := primitive.ObjectIDFromHex(item.ID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide: " + item.ID})
			return
		}
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}

		var p models.Product
		if err := database.Products().FindOne(ctx, bson.M{"_id": objID}).Decode(&p); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable: " + item.ID})
			return
		}

		lines = append(lines, checkoutLine{ID: p.ID.Hex(), Quantity: qty, Price: p.Price})

		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String("eur"),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:   stripe.String(p.Name),
					Images: stripe.StringSlice([]string{p.Image}),
				},
				UnitAmount: stripe.Int64(cents(p.Price)),
			},
			Quantity: stripe.Int64(int64(qty)),
		})
	}

	totalCents := calcTotalCents(lines)

	// ✅ Coupon : validé en base, puis converti en coupon Stripe one-shot
	var discounts []*stripe.CheckoutSessionDiscountParams
	couponCode := strings.ToUpper(strings.TrimSpace(req.CouponCode))
	if couponCode != "" {
		var cp models.Coupon
		err := database.Coupons().FindOne(ctx, bson.M{
			"code":      couponCode,
			"user_id":   user.ID,
			"is_active": true,
		}).Decode(&cp)
		if err != nil || cp.IsExpired(time.Now()) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Coupon invalide ou expiré"})
			return
		}

		stripeCoupon, err := stripecoupon.New(&stripe.CouponParams{
			PercentOff: stripe.Float64(cp.DiscountPercentage),
			Duration:   stripe.String(string(stripe.CouponDurationOnce)),
		})
		if err != nil {
			log.Println("❌ Erreur création coupon Stripe:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur application coupon"})
			return
		}
		discounts = []*stripe.CheckoutSessionDiscountParams{{Coupon: stripe.String(stripeCoupon.ID)}}

		totalCents = cents(cp.ApplyDiscount(float64(totalCents) / 100))
	}

	linesJSON, err := json.Marshal(lines)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur sérialisation panier"})
		return
	}

	frontend := os.Getenv("FRONTEND_URL")
	if frontend == "" {
		frontend = "http://localhost:5173"
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:  lineItems,
		Discounts:  discounts,
		SuccessURL: stripe.String(frontend + "/purchase-success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(frontend + "/purchase-cancel"),
		Metadata: map[string]string{
			"user_id":     user.ID.Hex(),
			"coupon_code": couponCode,
			"products":    string(linesJSON),
		},
	}

	sess, err := session.New(params)
	if err != nil {
		log.Println("❌ Erreur Stripe:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création session de paiement"})
		return
	}

	// 🎁 Coupon cadeau pour les gros paniers
	if totalCents >= giftCouponThresholdCents {
		if err := createGiftCoupon(ctx, user.ID); err != nil {
			log.Println("⚠️ Erreur création coupon cadeau:", err)
		}
	}

	log.Printf("💳 Session checkout créée : %s (%.2f€) pour %s", sess.ID, float64(totalCents)/100, user.Email)

	c.JSON(http.StatusOK, gin.H{
		"id":          sess.ID,
		"url":         sess.URL,
		"totalAmount": float64(totalCents) / 100,
	})
}

// createGiftCoupon remplace l'éventuel coupon actif du user par un
// nouveau coupon cadeau de 10%, valable 30 jours
func createGiftCoupon(ctx context.Context, userID primitive.ObjectID) error {
	if _, err := database.Coupons().DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		return err
	}

	code := "GIFT" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:12]
	gift := models.Coupon{
		ID:                 primitive.NewObjectID(),
		Code:               code,
		DiscountPercentage: 10,
		ExpirationDate:     time.Now().AddDate(0, 0, 30),
		IsActive:           true,
		UserID:             userID,
		CreatedAt:          time.Now(),
	}

	_, err := database.Coupons().InsertOne(ctx, gift)
	return err
}
