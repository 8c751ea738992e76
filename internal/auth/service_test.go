package auth

import (
	"testing"

	"langtouch/pkg/models"

	"github.com/google/uuid"
)

func TestHashAndVerifyPassword(t *testing.T) {
	s := &Service{}

	hash, err := s.HashPassword("secret-password")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "secret-password" {
		t.Error("password stored in plain text")
	}

	if !s.verifyPassword("secret-password", hash) {
		t.Error("correct password rejected")
	}
	if s.verifyPassword("wrong-password", hash) {
		t.Error("wrong password accepted")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	s := &Service{}
	user := &models.User{
		BaseModel: models.BaseModel{ID: uuid.New()},
		Email:     "user@example.com",
		Username:  "user",
	}

	token, err := s.generateToken(user, []string{"Client"}, "access", "15m")
	if err != nil {
		t.Fatalf("generateToken failed: %v", err)
	}

	claims, err := s.validateToken(token)
	if err != nil {
		t.Fatalf("validateToken failed: %v", err)
	}

	if claims.UserID != user.ID {
		t.Errorf("UserID = %s, want %s", claims.UserID, user.ID)
	}
	if claims.Username != "user" || claims.Email != "user@example.com" {
		t.Errorf("unexpected identity claims: %+v", claims)
	}
	if len(claims.Roles) != 1 || claims.Roles[0] != "Client" {
		t.Errorf("Roles = %v, want [Client]", claims.Roles)
	}
	if claims.Type != "access" {
		t.Errorf("Type = %q, want access", claims.Type)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	s := &Service{}
	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := s.validateToken(token); err == nil {
			t.Errorf("token %q accepted", token)
		}
	}
}
