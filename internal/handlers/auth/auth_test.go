package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Ces tests couvrent la validation d'entrée, qui répond avant tout accès
// à la base de données.

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func putJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterMissingFields(t *testing.T) {
	r := gin.New()
	r.POST("/register", Register)

	tests := []struct {
		name string
		body string
	}{
		{"nom manquant", `{"email":"a@b.c","password":"secret123"}`},
		{"email manquant", `{"name":"Alice","password":"secret123"}`},
		{"mot de passe manquant", `{"name":"Alice","email":"a@b.c"}`},
		{"body vide", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(r, "/register", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "Tous les champs sont requis")
		})
	}
}

func TestRegisterPasswordTooShort(t *testing.T) {
	r := gin.New()
	r.POST("/register", Register)

	w := postJSON(r, "/register", `{"name":"Alice","email":"a@b.c","password":"abc"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "au moins 6 caractères")
}

func TestRegisterInvalidJSON(t *testing.T) {
	r := gin.New()
	r.POST("/register", Register)

	w := postJSON(r, "/register", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginMissingFields(t *testing.T) {
	r := gin.New()
	r.POST("/login", Login)

	w := postJSON(r, "/login", `{"email":"a@b.c"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Tous les champs sont requis")
}

func TestResetPasswordTooShort(t *testing.T) {
	r := gin.New()
	r.PUT("/reset-password/:token", ResetPassword)

	w := putJSON(r, "/reset-password/untoken", `{"password":"abc"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "au moins 6 caractères")
}

func TestForgotPasswordMissingEmail(t *testing.T) {
	r := gin.New()
	r.POST("/forgot-password", ForgotPassword)

	w := postJSON(r, "/forgot-password", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Email requis")
}
