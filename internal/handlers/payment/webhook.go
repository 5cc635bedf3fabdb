package payment

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/checkout/session"
	"github.com/stripe/stripe-go/v83/webhook"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"velora_back_end/internal/cache"
	"velora_back_end/internal/database"
	"velora_back_end/internal/models"
	"velora_back_end/internal/utils"
)

var errAlreadyProcessed = errors.New("session déjà traitée")

// 💳 POST /api/v1/payments/checkout-success
func CheckoutSuccess(c *gin.Context) {
	var req struct {
		SessionID string `json:"sessionId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.SessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId requis"})
		return
	}

	sess, err := session.Get(req.SessionID, nil)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session de paiement introuvable"})
		return
	}

	if sess.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		// Paiement refusé ou abandonné : on prévient le client par email
		go sendPaymentFailedEmail(sess)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le paiement n'a pas abouti"})
		return
	}

	order, err := createOrderFromSession(sess)
	if err == errAlreadyProcessed {
		c.JSON(http.StatusOK, gin.H{"message": "Commande déjà enregistrée"})
		return
	}
	if err != nil {
		log.Println("❌ Erreur création commande:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur enregistrement commande"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Paiement confirmé, commande créée",
		"orderId":     order.ID.Hex(),
		"orderNumber": order.OrderNumber(),
	})
}

// ✅ Webhook Stripe — signature vérifiée obligatoirement
func StripeWebhook(c *gin.Context) {
	const MaxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

	payload, err := c.GetRawData()
	if err != nil {
		log.Println("❌ Lecture payload échouée:", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Échec lecture body"})
		return
	}

	secret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	if secret == "" {
		log.Println("❌ STRIPE_WEBHOOK_SECRET manquant, webhook refusé")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook non configuré"})
		return
	}

	event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), secret)
	if err != nil {
		log.Println("❌ Signature Stripe invalide:", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature invalide"})
		return
	}

	log.Printf("📥 Événement Stripe reçu : %s", event.Type)

	if event.Type == "checkout.session.completed" {
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			log.Println("❌ Erreur décodage session:", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Payload invalide"})
			return
		}

		if _, err := createOrderFromSession(&sess); err != nil && err != errAlreadyProcessed {
			log.Println("❌ Erreur traitement webhook:", err)
		}
	}

	c.Status(http.StatusOK)
}

// createOrderFromSession transforme une session Stripe payée en commande.
// L'index unique sur stripe_session_id garantit qu'une session ne crée
// jamais deux commandes, même si le webhook et checkout-success arrivent
// en même temps.
func createOrderFromSession(sess *stripe.CheckoutSession) (*models.Order, error) {
	ctx := context.Background()

	userID, err := primitive.ObjectIDFromHex(sess.Metadata["user_id"])
	if err != nil {
		return nil, errors.New("métadonnées user_id invalides")
	}

	count, err := database.Orders().CountDocuments(ctx, bson.M{"stripe_session_id": sess.ID})
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errAlreadyProcessed
	}

	// Désactiver le coupon consommé
	if code := sess.Metadata["coupon_code"]; code != "" {
		database.Coupons().UpdateOne(ctx,
			bson.M{"code": code, "user_id": userID},
			bson.M{"$set": bson.M{"is_active": false}},
		)
	}

	var lines []checkoutLine
	if err := json.Unmarshal([]byte(sess.Metadata["products"]), &lines); err != nil {
		return nil, errors.New("métadonnées produits invalides")
	}

	now := time.Now()
	order := models.Order{
		ID:              primitive.NewObjectID(),
		User:            userID,
		TotalAmount:     float64(sess.AmountTotal) / 100,
		StripeSessionID: sess.ID,
		Status:          models.OrderStatusProcessing,
		PaymentStatus:   models.PaymentStatusPaid,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	for _, l := range lines {
		pid, err := primitive.ObjectIDFromHex(l.ID)
		if err != nil {
			continue
		}
		order.Products = append(order.Products, models.OrderItem{
			Product:  pid,
			Quantity: l.Quantity,
			Price:    l.Price,
		})
	}

	log.Println("📤 Insertion commande MongoDB...")
	if _, err := database.Orders().InsertOne(ctx, order); err != nil {
		// Course perdue contre le webhook : l'index unique a tranché
		if mongo.IsDuplicateKeyError(err) {
			return nil, errAlreadyProcessed
		}
		return nil, err
	}
	log.Printf("✅ Commande insérée : %s", order.OrderNumber())

	// 🧹 Vider le panier APRÈS la commande
	database.Users().UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$set": bson.M{"cart_items": []models.CartItem{}, "updated_at": now},
			"$inc": bson.M{"cart_version": 1},
		},
	)

	go sendConfirmationEmail(order)

	return &order, nil
}

// sendConfirmationEmail envoie l'email de confirmation avec la facture PDF
func sendConfirmationEmail(order models.Order) {
	ctx := context.Background()

	var user models.User
	if err := database.Users().FindOne(ctx, bson.M{"_id": order.User}).Decode(&user); err != nil {
		log.Println("⚠️ Utilisateur introuvable pour email confirmation:", err)
		return
	}

	ids := make([]string, 0, len(order.Products))
	for _, it := range order.Products {
		ids = append(ids, it.Product.Hex())
	}
	names := cache.GetProductNamesFromCache(ids)

	html := utils.GenerateOrderConfirmationHTML(order, names)

	pdf, err := utils.GenerateInvoicePDF(order, names)
	if err != nil {
		log.Println("❌ Erreur génération PDF :", err)
		pdf = nil
	}

	if err := utils.SendEmail(user.Email, "Confirmation de votre commande Velora", html, pdf); err != nil {
		log.Println("❌ Erreur envoi e-mail confirmation :", err)
	} else {
		log.Println("📧 E-mail de confirmation envoyé à", user.Email)
	}
}

// sendPaymentFailedEmail prévient le client d'un paiement échoué
func sendPaymentFailedEmail(sess *stripe.CheckoutSession) {
	userID, err := primitive.ObjectIDFromHex(sess.Metadata["user_id"])
	if err != nil {
		return
	}

	ctx := context.Background()
	var user models.User
	if err := database.Users().FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return
	}

	html := utils.GeneratePaymentFailedHTML(sess.ID, float64(sess.AmountTotal)/100)
	if err := utils.SendEmail(user.Email, "Échec de votre paiement", html, nil); err != nil {
		log.Println("❌ Erreur envoi e-mail échec paiement :", err)
	}
}
