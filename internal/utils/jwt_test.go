package utils

import (
	"testing"

	"github.com/mayastay/booking-api/internal/model"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	ti := NewTokenIssuer("test-secret", 15, 7)
	u := model.User{ID: 12, Email: "maria@example.com", FirstName: "Maria", LastName: "Lopez", Role: model.RoleListingOwner}

	tok, err := ti.NewAccessToken(u)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	p, err := ti.ParsePrincipal(tok.Token)
	if err != nil {
		t.Fatalf("ParsePrincipal: %v", err)
	}
	if p.ID != 12 || p.Email != "maria@example.com" || p.Name != "Maria Lopez" || p.Role != model.RoleListingOwner {
		t.Errorf("principal mismatch: %+v", p)
	}
}

func TestParsePrincipalRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("secret-a", 15, 7)
	verifier := NewTokenIssuer("secret-b", 15, 7)
	tok, err := issuer.NewAccessToken(model.User{ID: 1, Email: "x@example.com", FirstName: "X", Role: model.RoleCustomer})
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if _, err := verifier.ParsePrincipal(tok.Token); err == nil {
		t.Fatal("expected error for token signed with a different secret")
	}
}

func TestParsePrincipalRejectsGarbage(t *testing.T) {
	ti := NewTokenIssuer("test-secret", 15, 7)
	if _, err := ti.ParsePrincipal("not-a-jwt"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestPasswordHashVerify(t *testing.T) {
	hash, err := HashPassword("s3cret", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !VerifyPassword(hash, "s3cret") {
		t.Error("correct password rejected")
	}
	if VerifyPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}
