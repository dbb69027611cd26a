package auth

import (
	"testing"

	"klinik-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateTokenRoundTrip(t *testing.T) {
	secret := "test-secret-en-az-otuz-iki-karakter!"
	clinicID := uint(7)
	user := &models.User{
		ID:       42,
		Email:    "ayse@klinik.example",
		Role:     models.RoleClinicStaff,
		ClinicID: &clinicID,
	}

	tokenStr, err := GenerateToken(secret, user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	token, err := jwt.ParseWithClaims(tokenStr, &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("üretilen token doğrulanamadı: %v", err)
	}

	claims, ok := token.Claims.(*JWTCustomClaims)
	if !ok {
		t.Fatal("claims çözümlenemedi")
	}
	if claims.UserID != 42 || claims.Email != "ayse@klinik.example" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.Role != models.RoleClinicStaff {
		t.Errorf("rol = %q", claims.Role)
	}
	if claims.ClinicID == nil || *claims.ClinicID != 7 {
		t.Error("ClinicID claim'i korunmalı")
	}
}

func TestGenerateTokenRejectsWrongSecret(t *testing.T) {
	user := &models.User{ID: 1, Email: "a@b.c", Role: models.RoleSuperAdmin}

	tokenStr, err := GenerateToken("dogru-secret-en-az-otuz-iki-karakter", user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	token, err := jwt.ParseWithClaims(tokenStr, &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte("yanlis-secret-en-az-otuz-iki-karakter"), nil
	})
	if err == nil && token.Valid {
		t.Fatal("yanlış secret ile token geçerli sayılmamalı")
	}
}
