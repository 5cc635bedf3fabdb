package product

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"velora_back_end/internal/database"
	"velora_back_end/internal/services"
)

//
// =========================
// 🟢 UPLOAD IMAGE PRODUIT
// =========================
//

// POST /api/v1/products/:id/image (admin, multipart)
func UploadProductImage(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier manquant"})
		return
	}

	ctx := context.Background()

	count, err := database.Products().CountDocuments(ctx, bson.M{"_id": objID})
	if err != nil || count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	url, err := services.UploadFile(fileHeader)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur upload MinIO: " + err.Error()})
		return
	}

	_, err = database.Products().UpdateOne(ctx,
		bson.M{"_id": objID},
		bson.M{"$set": bson.M{
			"image":      url,
			"updated_at": time.Now(),
		}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"image": url})
}

// GET /api/v1/products/:id/image/signed — URL signée temporaire
func GetSignedImageURL(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	ctx := context.Background()

	var p struct {
		Image string `bson:"image"`
	}
	if err := database.Products().FindOne(ctx, bson.M{"_id": objID}).Decode(&p); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}
	if p.Image == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit sans image"})
		return
	}

	signedURL, err := services.GenerateSignedURL(ctx, p.Image, 15*time.Minute)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": signedURL})
}
