package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"velora_back_end/internal/models"
)

func TestBuildAdminFilterEmpty(t *testing.T) {
	filter := BuildAdminFilter(AdminFilters{})
	assert.Empty(t, filter)
}

func TestBuildAdminFilterStatus(t *testing.T) {
	filter := BuildAdminFilter(AdminFilters{Status: models.OrderStatusShipped})
	assert.Equal(t, models.OrderStatusShipped, filter["status"])

	// Statut inconnu : ignoré
	filter = BuildAdminFilter(AdminFilters{Status: "refunded"})
	assert.NotContains(t, filter, "status")
}

func TestBuildAdminFilterPaymentStatus(t *testing.T) {
	filter := BuildAdminFilter(AdminFilters{PaymentStatus: models.PaymentStatusPaid})
	assert.Equal(t, models.PaymentStatusPaid, filter["payment_status"])

	filter = BuildAdminFilter(AdminFilters{PaymentStatus: "pending"})
	assert.NotContains(t, filter, "payment_status")
}

func TestBuildAdminFilterUserID(t *testing.T) {
	oid := primitive.NewObjectID()
	filter := BuildAdminFilter(AdminFilters{UserID: oid.Hex()})
	assert.Equal(t, oid, filter["user"])

	filter = BuildAdminFilter(AdminFilters{UserID: "pas-un-objectid"})
	assert.NotContains(t, filter, "user")
}

func TestBuildAdminFilterDates(t *testing.T) {
	filter := BuildAdminFilter(AdminFilters{DateFrom: "2026-01-01", DateTo: "2026-01-31"})

	dateFilter, ok := filter["created_at"].(bson.M)
	assert.True(t, ok)

	from, _ := time.Parse("2006-01-02", "2026-01-01")
	assert.Equal(t, from, dateFilter["$gte"])

	// La borne haute inclut toute la journée du 31
	to, _ := time.Parse("2006-01-02", "2026-01-31")
	assert.Equal(t, to.Add(24*time.Hour), dateFilter["$lt"])
}

func TestBuildAdminFilterAmounts(t *testing.T) {
	filter := BuildAdminFilter(AdminFilters{MinAmount: "50", MaxAmount: "200.5"})

	amountFilter, ok := filter["total_amount"].(bson.M)
	assert.True(t, ok)
	assert.Equal(t, 50.0, amountFilter["$gte"])
	assert.Equal(t, 200.5, amountFilter["$lte"])

	// Montants invalides : ignorés
	filter = BuildAdminFilter(AdminFilters{MinAmount: "abc"})
	assert.NotContains(t, filter, "total_amount")
}

func TestSortSpecDefaults(t *testing.T) {
	// Sans paramètres : tri par date de création décroissante
	assert.Equal(t, bson.D{{Key: "created_at", Value: -1}}, sortSpec("", ""))

	// Champ hors liste blanche : retombe sur created_at, l'ordre reste appliqué
	assert.Equal(t, bson.D{{Key: "created_at", Value: 1}}, sortSpec("password", "asc"))
	assert.Equal(t, bson.D{{Key: "created_at", Value: -1}}, sortSpec("password", "desc"))
}

func TestSortSpecWhitelist(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "total_amount", Value: 1}}, sortSpec("totalAmount", "asc"))
	assert.Equal(t, bson.D{{Key: "total_amount", Value: -1}}, sortSpec("total_amount", "desc"))
	assert.Equal(t, bson.D{{Key: "status", Value: 1}}, sortSpec("status", "asc"))
	assert.Equal(t, bson.D{{Key: "created_at", Value: 1}}, sortSpec("createdAt", "asc"))
}
