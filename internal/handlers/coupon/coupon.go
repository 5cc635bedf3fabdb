package coupon

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"velora_back_end/internal/database"
	"velora_back_end/internal/middleware"
	"velora_back_end/internal/models"
)

// 🎟️ GET /api/v1/coupons — coupon actif de l'utilisateur courant
func GetCoupon(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var coupon models.Coupon
	err := database.Coupons().FindOne(ctx, bson.M{
		"user_id":   user.ID,
		"is_active": true,
	}).Decode(&coupon)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Aucun coupon actif"})
		return
	}

	c.JSON(http.StatusOK, coupon)
}

// checkValidity indique si un coupon est inutilisable (déjà désactivé ou
// expiré) et s'il reste à le désactiver en base. Un coupon expiré renvoie
// 400 lors de cet appel et de tous les suivants.
func checkValidity(cp models.Coupon, now time.Time) (unusable, deactivate bool) {
	if !cp.IsActive {
		return true, false
	}
	if cp.IsExpired(now) {
		return true, true
	}
	return false, false
}

// 🎟️ GET /api/v1/coupons/validate?code=GIFT...
func ValidateCoupon(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Code requis"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var coupon models.Coupon
	err := database.Coupons().FindOne(ctx, bson.M{
		"code":    strings.ToUpper(strings.TrimSpace(code)),
		"user_id": user.ID,
	}).Decode(&coupon)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Coupon introuvable"})
		return
	}

	if unusable, deactivate := checkValidity(coupon, time.Now()); unusable {
		if deactivate {
			database.Coupons().UpdateOne(ctx,
				bson.M{"_id": coupon.ID},
				bson.M{"$set": bson.M{"is_active": false}},
			)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Coupon expiré"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":            "Coupon valide",
		"code":               coupon.Code,
		"discountPercentage": coupon.DiscountPercentage,
	})
}
