package product

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"velora_back_end/internal/cache"
	"velora_back_end/internal/database"
	"velora_back_end/internal/models"
	"velora_back_end/internal/services"
)

// featuredLimit borne le nombre de produits en vedette renvoyés
const featuredLimit = 3

// 🟢 GET /api/v1/products — tous les produits (admin)
func GetAllProducts(c *gin.Context) {
	ctx := context.Background()

	cursor, err := database.Products().Find(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if len(products) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Aucun produit trouvé"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// 🟢 GET /api/v1/products/:id
func GetProductByID(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	ctx := context.Background()

	var p models.Product
	if err := database.Products().FindOne(ctx, bson.M{"_id": objID}).Decode(&p); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	c.JSON(http.StatusOK, p)
}

// ⭐ GET /api/v1/products/featured — produits vedettes avec prix remisé
func GetFeaturedProducts(c *gin.Context) {
	if products, ok := cache.GetFeaturedFromCache(); ok {
		c.JSON(http.StatusOK, withFeaturedPrices(products))
		return
	}

	ctx := context.Background()

	opts := featuredFindOptions()
	cursor, err := database.Products().Find(ctx, bson.M{"is_featured": true}, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if len(products) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Aucun produit vedette"})
		return
	}

	cache.SetFeaturedInCache(products)
	c.JSON(http.StatusOK, withFeaturedPrices(products))
}

func featuredFindOptions() *options.FindOptions {
	return options.Find().SetLimit(featuredLimit)
}

// withFeaturedPrices remplace le prix affiché par le prix vitrine (-10%),
// sans modifier le prix en base
func withFeaturedPrices(products []models.Product) []gin.H {
	out := make([]gin.H, 0, len(products))
	for _, p := range products {
		out = append(out, gin.H{
			"_id":           p.ID.Hex(),
			"name":          p.Name,
			"description":   p.Description,
			"price":         p.FeaturedPrice(),
			"originalPrice": p.Price,
			"category":      p.Category,
			"image":         p.Image,
			"isFeatured":    p.IsFeatured,
			"rating":        p.Rating,
		})
	}
	return out
}

// 🎲 GET /api/v1/products/recommendations — 3 produits vedettes au hasard
func GetRecommendedProducts(c *gin.Context) {
	ctx := context.Background()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "is_featured", Value: true}}}},
		bson.D{{Key: "$sample", Value: bson.D{{Key: "size", Value: 3}}}},
	}

	cursor, err := database.Products().Aggregate(ctx, pipeline)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// 🟢 GET /api/v1/products/category/:category
func GetProductsByCategory(c *gin.Context) {
	category := c.Param("category")

	ctx := context.Background()
	cursor, err := database.Products().Find(ctx, bson.M{"category": category})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// 🔍 GET /api/v1/products/search?q= — Elasticsearch, fallback MongoDB
func SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "paramètre 'q' manquant"})
		return
	}

	// 1️⃣ Tentative de recherche dans Elasticsearch
	results, err := services.SearchProducts(query)
	if err == nil && len(results) > 0 {
		c.JSON(http.StatusOK, results)
		return
	}

	// 2️⃣ Si Elasticsearch est vide ou indisponible → fallback MongoDB
	ctx := context.Background()
	filter := bson.M{
		"$or": []bson.M{
			{"name": bson.M{"$regex": query, "$options": "i"}},
			{"description": bson.M{"$regex": query, "$options": "i"}},
			{"tags": bson.M{"$regex": query, "$options": "i"}},
		},
	}

	cursor, err := database.Products().Find(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur recherche MongoDB"})
		return
	}

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if len(products) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "Aucun produit trouvé"})
		return
	}

	c.JSON(http.StatusOK, products)
}

// 🟢 POST /api/v1/products — créer un produit (admin)
func CreateProduct(c *gin.Context) {
	var input struct {
		Name        string  `json:"name" binding:"required"`
		Description string  `json:"description"`
		Price       float64 `json:"price" binding:"required"`
		Category    string  `json:"category" binding:"required"`
		Image       string  `json:"image"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le prix doit être positif"})
		return
	}

	now := time.Now()
	p := models.Product{
		ID:          primitive.NewObjectID(),
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		Image:       input.Image,
		Reviews:     []models.Review{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	ctx := context.Background()
	if _, err := database.Products().InsertOne(ctx, p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// 🔄 Indexe dans Elasticsearch
	go services.IndexProduct(p)

	c.JSON(http.StatusCreated, p)
}

// 🔴 DELETE /api/v1/products/:id — supprimer un produit (admin)
func DeleteProduct(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	ctx := context.Background()

	var p models.Product
	if err := database.Products().FindOne(ctx, bson.M{"_id": objID}).Decode(&p); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	if _, err := database.Products().DeleteOne(ctx, bson.M{"_id": objID}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Nettoyage : image MinIO, index Elastic, caches
	go services.DeleteObject(p.Image)
	go services.DeleteProductFromIndex(objID.Hex())
	cache.InvalidateProductCache(objID.Hex())
	if p.IsFeatured {
		cache.InvalidateFeaturedCache()
	}

	c.JSON(http.StatusOK, gin.H{"message": "Produit supprimé"})
}

// ⭐ PATCH /api/v1/products/:id — bascule le statut vedette (admin)
func ToggleFeaturedProduct(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	ctx := context.Background()

	var p models.Product
	if err := database.Products().FindOne(ctx, bson.M{"_id": objID}).Decode(&p); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	_, err = database.Products().UpdateOne(ctx,
		bson.M{"_id": objID},
		bson.M{"$set": bson.M{
			"is_featured": !p.IsFeatured,
			"updated_at":  time.Now(),
		}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	cache.InvalidateFeaturedCache()

	p.IsFeatured = !p.IsFeatured
	c.JSON(http.StatusOK, p)
}
