package utils

import (
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"velora_back_end/internal/models"
)

func TestGenerateOrderConfirmationHTML(t *testing.T) {
	pid := primitive.NewObjectID()
	order := models.Order{
		ID: primitive.NewObjectID(),
		Products: []models.OrderItem{
			{Product: pid, Quantity: 2, Price: 19.99},
		},
		TotalAmount: 39.98,
	}

	html := GenerateOrderConfirmationHTML(order, map[string]string{pid.Hex(): "Lampe de bureau"})

	if !strings.Contains(html, "Lampe de bureau") {
		t.Error("le HTML doit contenir le nom du produit")
	}
	if !strings.Contains(html, order.OrderNumber()) {
		t.Error("le HTML doit contenir le numéro de commande")
	}
	if !strings.Contains(html, "39.98€") {
		t.Error("le HTML doit contenir le montant total")
	}
	if !strings.Contains(html, "L'équipe Velora") {
		t.Error("le HTML doit contenir la signature")
	}
}

func TestGenerateOrderConfirmationHTMLUnknownProduct(t *testing.T) {
	order := models.Order{
		ID:       primitive.NewObjectID(),
		Products: []models.OrderItem{{Product: primitive.NewObjectID(), Quantity: 1, Price: 10}},
	}

	// Produit supprimé du catalogue : nom de repli
	html := GenerateOrderConfirmationHTML(order, map[string]string{})
	if !strings.Contains(html, "Produit") {
		t.Error("un produit inconnu doit avoir un nom de repli")
	}
}

func TestGeneratePasswordResetHTML(t *testing.T) {
	html := GeneratePasswordResetHTML("Alice", "tok123")

	if !strings.Contains(html, "Alice") {
		t.Error("le HTML doit contenir le nom du destinataire")
	}
	if !strings.Contains(html, "tok123") {
		t.Error("le HTML doit contenir le token dans le lien")
	}
}

func TestGenerateSepaQR(t *testing.T) {
	qr, err := GenerateSepaQR("BE12345678901234", "KREDBEBB", "Velora SRL", "ORD-ABCD1234", 42.50)
	if err != nil {
		t.Fatalf("GenerateSepaQR() error = %v", err)
	}
	if !strings.HasPrefix(qr, "data:image/png;base64,") {
		t.Error("le QR doit être une data-URI PNG")
	}
}

func TestStatusEmailSubject(t *testing.T) {
	for _, status := range []string{
		models.OrderStatusProcessing,
		models.OrderStatusShipped,
		models.OrderStatusDelivered,
		models.OrderStatusCancelled,
	} {
		if statusEmailSubject(status) == "" {
			t.Errorf("statusEmailSubject(%q) ne doit pas être vide", status)
		}
	}
}
