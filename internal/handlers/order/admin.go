package order

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"velora_back_end/internal/database"
	"velora_back_end/internal/models"
	"velora_back_end/internal/utils"
)

// AdminFilters porte les critères de filtrage de la liste admin
type AdminFilters struct {
	Status        string
	PaymentStatus string
	UserID        string
	DateFrom      string
	DateTo        string
	MinAmount     string
	MaxAmount     string
}

// BuildAdminFilter traduit les critères en filtre MongoDB.
// Les valeurs invalides sont ignorées silencieusement.
func BuildAdminFilter(f AdminFilters) bson.M {
	filter := bson.M{}

	if f.Status != "" && models.ValidOrderStatus(f.Status) {
		filter["status"] = f.Status
	}
	if f.PaymentStatus == models.PaymentStatusPaid || f.PaymentStatus == models.PaymentStatusUnpaid {
		filter["payment_status"] = f.PaymentStatus
	}
	if f.UserID != "" {
		if oid, err := primitive.ObjectIDFromHex(f.UserID); err == nil {
			filter["user"] = oid
		}
	}

	dateFilter := bson.M{}
	if f.DateFrom != "" {
		if t, err := time.Parse("2006-01-02", f.DateFrom); err == nil {
			dateFilter["$gte"] = t
		}
	}
	if f.DateTo != "" {
		if t, err := time.Parse("2006-01-02", f.DateTo); err == nil {
			// Inclut toute la journée de fin
			dateFilter["$lt"] = t.Add(24 * time.Hour)
		}
	}
	if len(dateFilter) > 0 {
		filter["created_at"] = dateFilter
	}

	amountFilter := bson.M{}
	if f.MinAmount != "" {
		if v, err := strconv.ParseFloat(f.MinAmount, 64); err == nil {
			amountFilter["$gte"] = v
		}
	}
	if f.MaxAmount != "" {
		if v, err := strconv.ParseFloat(f.MaxAmount, 64); err == nil {
			amountFilter["$lte"] = v
		}
	}
	if len(amountFilter) > 0 {
		filter["total_amount"] = amountFilter
	}

	return filter
}

// 📦 GET /api/v1/orders/admin — liste filtrée + statistiques (admin)
func GetAllOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filter := BuildAdminFilter(AdminFilters{
		Status:        c.Query("status"),
		PaymentStatus: c.Query("paymentStatus"),
		UserID:        c.Query("userId"),
		DateFrom:      c.Query("dateFrom"),
		DateTo:        c.Query("dateTo"),
		MinAmount:     c.Query("minAmount"),
		MaxAmount:     c.Query("maxAmount"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	total, err := database.Orders().CountDocuments(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
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

	stats, err := aggregateStats(ctx, filter)
	if err != nil {
		log.Println("⚠️ Erreur agrégation stats commandes:", err)
		stats = gin.H{}
	}

	c.JSON(http.StatusOK, gin.H{
		"orders":     views,
		"page":       page,
		"limit":      limit,
		"total":      total,
		"totalPages": (total + int64(limit) - 1) / int64(limit),
		"stats":      stats,
	})
}

// aggregateStats calcule chiffre d'affaires, panier moyen et répartition
// par statut sur le périmètre filtré
func aggregateStats(ctx context.Context, filter bson.M) (gin.H, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: filter}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "revenue", Value: bson.D{{Key: "$sum", Value: "$total_amount"}}},
		}}},
	}

	cursor, err := database.Orders().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status  string  `bson:"_id"`
		Count   int64   `bson:"count"`
		Revenue float64 `bson:"revenue"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	var totalRevenue float64
	var totalOrders int64
	byStatus := gin.H{}
	for _, r := range rows {
		byStatus[r.Status] = r.Count
		totalRevenue += r.Revenue
		totalOrders += r.Count
	}

	avg := 0.0
	if totalOrders > 0 {
		avg = totalRevenue / float64(totalOrders)
	}

	return gin.H{
		"totalRevenue":      totalRevenue,
		"totalOrders":       totalOrders,
		"averageOrderValue": avg,
		"byStatus":          byStatus,
	}, nil
}

// 📦 PUT /api/v1/orders/admin/:id/status (admin)
func UpdateOrderStatus(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commande invalide"})
		return
	}

	var input struct {
		Status         string `json:"status"`
		TrackingNumber string `json:"trackingNumber"`
		Carrier        string `json:"carrier"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if !models.ValidOrderStatus(input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Statut invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var o models.Order
	if err := database.Orders().FindOne(ctx, bson.M{"_id": objID}).Decode(&o); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	now := time.Now()
	update := bson.M{
		"status":     input.Status,
		"updated_at": now,
	}
	if input.TrackingNumber != "" {
		update["tracking_number"] = input.TrackingNumber
	}
	if input.Carrier != "" {
		update["carrier"] = input.Carrier
	}
	if input.Status == models.OrderStatusShipped && o.ShippedDate == nil {
		update["shipped_date"] = now
	}
	if input.Status == models.OrderStatusCancelled && o.CancelledAt == nil {
		update["cancelled_at"] = now
	}

	if _, err := database.Orders().UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": update}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Email + notification temps réel, hors du chemin de la requête
	go notifyStatusChange(o, input.Status)

	o.Status = input.Status
	names := productNamesFor([]models.Order{o})
	c.JSON(http.StatusOK, orderView(o, names))
}

// notifyStatusChange prévient le client par email et via le canal Redis
func notifyStatusChange(o models.Order, newStatus string) {
	ctx := context.Background()

	var user models.User
	if err := database.Users().FindOne(ctx, bson.M{"_id": o.User}).Decode(&user); err != nil {
		log.Println("⚠️ Utilisateur introuvable pour notification commande:", err)
		return
	}

	if err := utils.SendOrderStatusEmail(o, user.Email, newStatus); err != nil {
		log.Println("❌ Erreur envoi email statut commande:", err)
	}

	// Publie pour les WebSockets connectés de ce user
	payload := `{"orderId":"` + o.ID.Hex() + `","status":"` + newStatus + `"}`
	if err := database.Redis.Publish(ctx, "orders:"+o.User.Hex(), payload).Err(); err != nil {
		log.Println("⚠️ Erreur publication Redis:", err)
	}
}

// 📊 GET /api/v1/orders/admin/stats — activité des 30 derniers jours (admin)
func GetOrderStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	since := time.Now().AddDate(0, 0, -30)

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "created_at", Value: bson.D{{Key: "$gte", Value: since}}},
		}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "$dateToString", Value: bson.D{
					{Key: "format", Value: "%Y-%m-%d"},
					{Key: "date", Value: "$created_at"},
				}},
			}},
			{Key: "orders", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "revenue", Value: bson.D{{Key: "$sum", Value: "$total_amount"}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := database.Orders().Aggregate(ctx, pipeline)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer cursor.Close(ctx)

	var days []struct {
		Date    string  `bson:"_id" json:"date"`
		Orders  int64   `bson:"orders" json:"orders"`
		Revenue float64 `bson:"revenue" json:"revenue"`
	}
	if err := cursor.All(ctx, &days); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"days": days})
}
