package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"velora_back_end/internal/database"
	"velora_back_end/internal/models"
)

const (
	FeaturedCacheTTL = 10 * time.Minute
	ProductCacheTTL  = 10 * time.Minute

	featuredCacheKey = "products:featured"
)

// GetFeaturedFromCache récupère la liste des produits vedettes depuis Redis
func GetFeaturedFromCache() ([]models.Product, bool) {
	ctx := context.Background()

	data, err := database.Redis.Get(ctx, featuredCacheKey).Result()
	if err != nil {
		return nil, false
	}

	var products []models.Product
	if err := json.Unmarshal([]byte(data), &products); err != nil {
		return nil, false
	}
	return products, true
}

// SetFeaturedInCache met en cache les produits vedettes
func SetFeaturedInCache(products []models.Product) {
	ctx := context.Background()

	data, err := json.Marshal(products)
	if err != nil {
		return
	}
	database.Redis.Set(ctx, featuredCacheKey, data, FeaturedCacheTTL)
}

// InvalidateFeaturedCache invalide le cache des produits vedettes
// (appelé quand un produit passe en vedette ou en sort)
func InvalidateFeaturedCache() {
	ctx := context.Background()
	database.Redis.Del(ctx, featuredCacheKey)
}

// GetProductNamesFromCache récupère plusieurs noms de produits,
// en complétant depuis MongoDB pour ceux qui manquent
func GetProductNamesFromCache(productIDs []string) map[string]string {
	ctx := context.Background()
	result := make(map[string]string)
	missingIDs := []primitive.ObjectID{}

	// 1. Essayer de récupérer depuis Redis
	for _, productID := range productIDs {
		key := "product_name:" + productID
		name, err := database.Redis.Get(ctx, key).Result()
		if err == nil {
			result[productID] = name
			continue
		}
		if oid, err := primitive.ObjectIDFromHex(productID); err == nil {
			missingIDs = append(missingIDs, oid)
		}
	}

	if len(missingIDs) == 0 {
		return result
	}

	// 2. Compléter depuis MongoDB
	cursor, err := database.Products().Find(ctx, bson.M{"_id": bson.M{"$in": missingIDs}})
	if err != nil {
		return result
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var p models.Product
		if cursor.Decode(&p) != nil {
			continue
		}
		id := p.ID.Hex()
		result[id] = p.Name

		// 3. Mettre en cache
		database.Redis.Set(ctx, "product_name:"+id, p.Name, ProductCacheTTL)
	}

	return result
}

// InvalidateProductCache invalide le cache d'un produit
func InvalidateProductCache(productID string) {
	ctx := context.Background()
	database.Redis.Del(ctx, "product_name:"+productID)
}
