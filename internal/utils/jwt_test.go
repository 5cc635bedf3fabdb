package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"velora_back_end/internal/models"
)

func testUser() models.User {
	return models.User{
		ID:    primitive.NewObjectID(),
		Name:  "Alice",
		Email: "alice@example.com",
		Role:  models.RoleCustomer,
	}
}

func TestGenerateAndParseJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-de-test")

	user := testUser()
	token, err := GenerateJWT(user)
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}
	if token == "" {
		t.Fatal("GenerateJWT() a retourné un token vide")
	}

	claims, err := ParseJWT(token)
	if err != nil {
		t.Fatalf("ParseJWT() error = %v", err)
	}

	if claims["user_id"] != user.ID.Hex() {
		t.Errorf("claims[user_id] = %v, want %v", claims["user_id"], user.ID.Hex())
	}
	if claims["email"] != user.Email {
		t.Errorf("claims[email] = %v, want %v", claims["email"], user.Email)
	}
	if claims["role"] != models.RoleCustomer {
		t.Errorf("claims[role] = %v, want %v", claims["role"], models.RoleCustomer)
	}
}

func TestParseJWTRejectsBadSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "premier-secret")
	token, err := GenerateJWT(testUser())
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	t.Setenv("JWT_SECRET", "autre-secret")
	if _, err := ParseJWT(token); err == nil {
		t.Error("ParseJWT() doit refuser un token signé avec un autre secret")
	}
}

func TestParseJWTRejectsExpiredToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-de-test")

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": primitive.NewObjectID().Hex(),
		"email":   "old@example.com",
		"role":    models.RoleCustomer,
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	tokenString, err := expired.SignedString(jwtSecret())
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	_, err = ParseJWT(tokenString)
	if err == nil {
		t.Fatal("ParseJWT() doit refuser un token expiré")
	}
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Errorf("ParseJWT() erreur = %v, want jwt.ErrTokenExpired", err)
	}
}
