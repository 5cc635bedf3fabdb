package auth

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"velora_back_end/internal/database"
	"velora_back_end/internal/models"
	"velora_back_end/internal/utils"
)

// ================== MOT DE PASSE OUBLIÉ ==================

func ForgotPassword(c *gin.Context) {
	var input struct {
		Email string `json:"email"`
	}

	if err := c.ShouldBindJSON(&input); err != nil || input.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email requis"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := database.Users().FindOne(ctx, bson.M{"email": input.Email}).Decode(&user); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Aucun compte associé à cet email"})
		return
	}

	// Token brut envoyé par email, version hashée stockée en base
	rawToken := utils.GenerateResetToken()
	hashedToken := utils.HashResetToken(rawToken)
	expire := time.Now().Add(1 * time.Hour)

	_, err := database.Users().UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{
		"$set": bson.M{
			"reset_password_token":  hashedToken,
			"reset_password_expire": expire,
		},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	html := utils.GeneratePasswordResetHTML(user.Name, rawToken)
	if err := utils.SendEmail(user.Email, "Réinitialisation de votre mot de passe", html, nil); err != nil {
		log.Println("❌ Erreur envoi email reset:", err)

		// Rollback : on ne laisse pas un token orphelin en base
		database.Users().UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{
			"$unset": bson.M{
				"reset_password_token":  "",
				"reset_password_expire": "",
			},
		})

		c.JSON(http.StatusInternalServerError, gin.H{"error": "L'email n'a pas pu être envoyé"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Email de réinitialisation envoyé"})
}

func ResetPassword(c *gin.Context) {
	rawToken := c.Param("token")

	var input struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mot de passe requis"})
		return
	}

	if len(input.Password) < utils.MinPasswordLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le mot de passe doit contenir au moins 6 caractères"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hashedToken := utils.HashResetToken(rawToken)

	var user models.User
	err := database.Users().FindOne(ctx, bson.M{
		"reset_password_token":  hashedToken,
		"reset_password_expire": bson.M{"$gt": time.Now()},
	}).Decode(&user)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token invalide ou expiré"})
		return
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur hash mot de passe"})
		return
	}

	_, err = database.Users().UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{
		"$set": bson.M{
			"password":   hashedPassword,
			"updated_at": time.Now(),
		},
		"$unset": bson.M{
			"reset_password_token":  "",
			"reset_password_expire": "",
		},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// L'utilisateur est reconnecté directement après le reset
	token, err := utils.GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}
	utils.SetTokenCookie(c, token)

	c.JSON(http.StatusOK, gin.H{"message": "Mot de passe réinitialisé avec succès"})
}
