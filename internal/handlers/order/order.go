package order

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"velora_back_end/internal/cache"
	"velora_back_end/internal/database"
	"velora_back_end/internal/middleware"
	"velora_back_end/internal/models"
)

// orderView enrichit une commande avec son numéro lisible et les noms produits
func orderView(o models.Order, productNames map[string]string) gin.H {
	items := make([]gin.H, 0, len(o.Products))
	for _, it := range o.Products {
		items = append(items, gin.H{
			"productId": it.Product.Hex(),
			"name":      productNames[it.Product.Hex()],
			"quantity":  it.Quantity,
			"price":     it.Price,
		})
	}

	return gin.H{
		"_id":             o.ID.Hex(),
		"orderNumber":     o.OrderNumber(),
		"products":        items,
		"totalAmount":     o.TotalAmount,
		"status":          o.Status,
		"paymentStatus":   o.PaymentStatus,
		"shippingAddress": o.ShippingAddress,
		"trackingNumber":  o.TrackingNumber,
		"carrier":         o.Carrier,
		"shippedDate":     o.ShippedDate,
		"cancelledAt":     o.CancelledAt,
		"createdAt":       o.CreatedAt,
	}
}

// productNamesFor rassemble les IDs produits d'un lot de commandes
func productNamesFor(orders []models.Order) map[string]string {
	ids := []string{}
	seen := map[string]bool{}
	for _, o := range orders {
		for _, it := range o.Products {
			id := it.Product.Hex()
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return cache.GetProductNamesFromCache(ids)
}

// Champs de tri autorisés pour la liste des commandes
var sortableFields = map[string]string{
	"created_at":   "created_at",
	"createdAt":    "created_at",
	"total_amount": "total_amount",
	"totalAmount":  "total_amount",
	"status":       "status",
}

// sortSpec traduit sortBy/sortOrder en tri Mongo.
// Champ inconnu ou absent : created_at décroissant.
func sortSpec(sortBy, sortOrder string) bson.D {
	field, ok := sortableFields[sortBy]
	if !ok {
		field = "created_at"
	}
	order := -1
	if sortOrder == "asc" {
		order = 1
	}
	return bson.D{{Key: field, Value: order}}
}

// 📦 GET /api/v1/orders — commandes de l'utilisateur courant
func GetMyOrders(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 || limit > 50 {
		limit = 10
	}

	filter := bson.M{"user": user.ID}
	if status := c.Query("status"); status != "" {
		if !models.ValidOrderStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Statut invalide"})
			return
		}
		filter["status"] = status
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	total, err := database.Orders().CountDocuments(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	opts := options.Find().
		SetSort(sortSpec(c.Query("sortBy"), c.Query("sortOrder"))).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := database.Orders().Find(ctx, filter, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	names := productNamesFor(orders)
	views := make([]gin.H, 0, len(orders))
	for _, o := range orders {
		views = append(views, orderView(o, names))
	}

	c.JSON(http.StatusOK, gin.H{
		"orders":     views,
		"page":       page,
		"limit":      limit,
		"total":      total,
		"totalPages": (total + int64(limit) - 1) / int64(limit),
	})
}

// 📦 GET /api/v1/orders/:id — commande de l'utilisateur courant
func GetOrderByID(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commande invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Le filtre inclut le user : impossible de lire la commande d'un autre
	var o models.Order
	err = database.Orders().FindOne(ctx, bson.M{"_id": objID, "user": user.ID}).Decode(&o)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	names := productNamesFor([]models.Order{o})
	c.JSON(http.StatusOK, orderView(o, names))
}

// 📦 PUT /api/v1/orders/:id/cancel
func CancelOrder(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commande invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var o models.Order
	err = database.Orders().FindOne(ctx, bson.M{"_id": objID, "user": user.ID}).Decode(&o)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	if !o.CanCancel() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Cette commande ne peut plus être annulée",
		})
		return
	}

	now := time.Now()

	// Le filtre re-vérifie le statut : deux annulations concurrentes
	// ne passent pas toutes les deux
	res, err := database.Orders().UpdateOne(ctx,
		bson.M{
			"_id":    objID,
			"user":   user.ID,
			"status": bson.M{"$in": []string{models.OrderStatusPending, models.OrderStatusProcessing}},
		},
		bson.M{"$set": bson.M{
			"status":       models.OrderStatusCancelled,
			"cancelled_at": now,
			"updated_at":   now,
		}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if res.MatchedCount == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cette commande ne peut plus être annulée"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Commande annulée",
		"orderNumber": o.OrderNumber(),
	})
}
