package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"velora_back_end/internal/models"
	"velora_back_end/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter() *gin.Engine {
	r := gin.New()
	r.GET("/me", AuthRequired(), func(c *gin.Context) {
		user, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"email": user.Email})
	})
	r.GET("/admin", AuthRequired(), RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func stubLookup(user *models.User, err error) func() {
	orig := lookupUser
	lookupUser = func(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
		return user, err
	}
	return func() { lookupUser = orig }
}

func TestAuthRequiredMissingToken(t *testing.T) {
	r := protectedRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token manquant")
}

func TestAuthRequiredInvalidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-de-test")
	r := protectedRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer pas-un-jwt")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token invalide")
}

func TestAuthRequiredExpiredToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-de-test")
	r := protectedRouter()

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": primitive.NewObjectID().Hex(),
		"email":   "old@example.com",
		"role":    models.RoleCustomer,
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	tokenString, err := expired.SignedString([]byte("secret-de-test"))
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token expiré")
}

func TestAuthRequiredUnknownUser(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-de-test")
	restore := stubLookup(nil, errors.New("no documents"))
	defer restore()

	token, err := utils.GenerateJWT(models.User{ID: primitive.NewObjectID(), Email: "ghost@example.com"})
	assert.NoError(t, err)

	r := protectedRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Utilisateur introuvable")
}

func TestAuthRequiredFromCookie(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-de-test")

	user := models.User{
		ID:    primitive.NewObjectID(),
		Email: "bob@example.com",
		Role:  models.RoleCustomer,
	}
	restore := stubLookup(&user, nil)
	defer restore()

	token, err := utils.GenerateJWT(user)
	assert.NoError(t, err)

	r := protectedRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "jwt", Value: token})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bob@example.com")
}

func TestRequireAdminForbidden(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-de-test")

	user := models.User{
		ID:    primitive.NewObjectID(),
		Email: "client@example.com",
		Role:  models.RoleCustomer,
	}
	restore := stubLookup(&user, nil)
	defer restore()

	token, err := utils.GenerateJWT(user)
	assert.NoError(t, err)

	r := protectedRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Accès réservé aux administrateurs")
}

func TestRequireAdminAllowed(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-de-test")

	admin := models.User{
		ID:    primitive.NewObjectID(),
		Email: "admin@example.com",
		Role:  models.RoleAdmin,
	}
	restore := stubLookup(&admin, nil)
	defer restore()

	token, err := utils.GenerateJWT(admin)
	assert.NoError(t, err)

	r := protectedRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
