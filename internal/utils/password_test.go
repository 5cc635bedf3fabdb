package utils

import (
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("monSuperSecret")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "monSuperSecret" {
		t.Fatal("le hash ne doit pas être le mot de passe en clair")
	}

	if !VerifyPassword("monSuperSecret", hash) {
		t.Error("VerifyPassword() doit accepter le bon mot de passe")
	}
	if VerifyPassword("mauvaisMotDePasse", hash) {
		t.Error("VerifyPassword() doit refuser un mauvais mot de passe")
	}
}

func TestGenerateResetToken(t *testing.T) {
	a := GenerateResetToken()
	b := GenerateResetToken()

	if len(a) != 40 {
		t.Errorf("GenerateResetToken() longueur = %d, want 40 (20 octets hex)", len(a))
	}
	if a == b {
		t.Error("deux tokens générés ne doivent pas être identiques")
	}
}

func TestHashResetTokenDeterministic(t *testing.T) {
	token := "abc123"
	if HashResetToken(token) != HashResetToken(token) {
		t.Error("HashResetToken() doit être déterministe")
	}
	if HashResetToken(token) == token {
		t.Error("HashResetToken() ne doit pas retourner le token brut")
	}
	if len(HashResetToken(token)) != 64 {
		t.Errorf("HashResetToken() longueur = %d, want 64 (SHA-256 hex)", len(HashResetToken(token)))
	}
}
