package product

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"velora_back_end/internal/database"
	"velora_back_end/internal/middleware"
	"velora_back_end/internal/models"
)

// upsertReview remplace la note existante de l'utilisateur ou en ajoute une
func upsertReview(reviews []models.Review, userID primitive.ObjectID, rating float64, comment string) []models.Review {
	for i := range reviews {
		if reviews[i].User == userID {
			reviews[i].Rating = rating
			reviews[i].Comment = comment
			return reviews
		}
	}
	return append(reviews, models.Review{User: userID, Rating: rating, Comment: comment})
}

// ⭐ POST /api/v1/products/:id/rate
func AddRating(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	var input struct {
		Rating  *float64 `json:"rating"`
		Comment string   `json:"comment"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Rating == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Note requise"})
		return
	}
	if *input.Rating < 0 || *input.Rating > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La note doit être comprise entre 0 et 5"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var p models.Product
	if err := database.Products().FindOne(ctx, bson.M{"_id": objID}).Decode(&p); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	reviews := upsertReview(p.Reviews, user.ID, *input.Rating, input.Comment)
	p.Reviews = reviews
	newRating := p.AverageRating()

	_, err = database.Products().UpdateOne(ctx,
		bson.M{"_id": objID},
		bson.M{"$set": bson.M{
			"reviews":    reviews,
			"rating":     newRating,
			"updated_at": time.Now(),
		}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Note enregistrée",
		"rating":  newRating,
		"reviews": reviews,
	})
}

// ⭐ GET /api/v1/products/:id/rates
func GetRates(c *gin.Context) {
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

	c.JSON(http.StatusOK, gin.H{
		"rating":  p.Rating,
		"reviews": p.Reviews,
	})
}
