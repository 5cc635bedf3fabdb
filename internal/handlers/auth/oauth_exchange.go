package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/oauth2"

	"velora_back_end/internal/config"
	"velora_back_end/internal/database"
	"velora_back_end/internal/models"
	"velora_back_end/internal/utils"
)

// Flux OAuth pour les clients mobiles : l'app obtient un code
// d'autorisation et nous l'échangeons côté serveur

type providerProfile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func oauthConfigFor(provider string) (*oauth2.Config, string) {
	switch provider {
	case "google":
		return config.GoogleOAuthConfig, "https://www.googleapis.com/oauth2/v2/userinfo"
	case "facebook":
		return config.FacebookOAuthConfig, "https://graph.facebook.com/me?fields=id,name,email"
	default:
		return nil, ""
	}
}

// POST /api/v1/auth/:provider/exchange
func ExchangeCode(c *gin.Context) {
	provider := c.Param("provider")
	cfg, userInfoURL := oauthConfigFor(provider)
	if cfg == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provider non supporté"})
		return
	}

	var input struct {
		Code string `json:"code"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Code requis"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	oauthToken, err := cfg.Exchange(ctx, input.Code)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Code d'autorisation invalide"})
		return
	}

	resp, err := cfg.Client(ctx, oauthToken).Get(userInfoURL)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Erreur récupération profil"})
		return
	}
	defer resp.Body.Close()

	var profile providerProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil || profile.ID == "" {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Profil provider illisible"})
		return
	}

	var user models.User
	err = database.Users().FindOne(ctx, bson.M{
		"provider":    provider,
		"provider_id": profile.ID,
	}).Decode(&user)

	if err != nil {
		now := time.Now()
		user = models.User{
			ID:         primitive.NewObjectID(),
			Email:      profile.Email,
			Name:       profile.Name,
			Provider:   provider,
			ProviderID: profile.ID,
			Role:       models.RoleCustomer,
			CartItems:  []models.CartItem{},
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if _, err := database.Users().InsertOne(ctx, user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur enregistrement utilisateur"})
			return
		}
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}
	utils.SetTokenCookie(c, token)

	c.JSON(http.StatusOK, user.PublicProfile())
}
