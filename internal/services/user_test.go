package services

import (
	"errors"
	"testing"

	"github.com/RobinJoby/food-surplus-platform/internal/models"
)

func TestRegisterInputValidate(t *testing.T) {
	valid := func() RegisterInput {
		return RegisterInput{
			Name:     "Community Kitchen",
			Email:    "kitchen@example.org",
			Password: "s3cret",
			Role:     models.RoleDonor,
		}
	}

	in := valid()
	if err := in.Validate(); err != nil {
		t.Fatalf("valid registration rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"blank name", func(in *RegisterInput) { in.Name = " " }},
		{"blank email", func(in *RegisterInput) { in.Email = "" }},
		{"empty password", func(in *RegisterInput) { in.Password = "" }},
		{"unknown role", func(in *RegisterInput) { in.Role = "superuser" }},
		{"longitude without latitude", func(in *RegisterInput) {
			lon := -73.98
			in.Longitude = &lon
		}},
		{"latitude out of range", func(in *RegisterInput) {
			lat, lon := -90.5, 10.0
			in.Latitude, in.Longitude = &lat, &lon
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			in := valid()
			c.mutate(&in)
			err := in.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestJWTRoundTrip(t *testing.T) {
	s := NewUserService(nil, "test-secret", 24)

	token, err := s.GenerateJWT("user-123", models.RoleBeneficiary)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	userID, role, err := s.ValidateJWT(token)
	if err != nil {
		t.Fatalf("ValidateJWT: %v", err)
	}
	if userID != "user-123" {
		t.Errorf("expected user-123, got %s", userID)
	}
	if role != models.RoleBeneficiary {
		t.Errorf("expected beneficiary role, got %s", role)
	}
}

func TestValidateJWTRejectsWrongSecret(t *testing.T) {
	signer := NewUserService(nil, "secret-a", 24)
	verifier := NewUserService(nil, "secret-b", 24)

	token, err := signer.GenerateJWT("user-123", models.RoleDonor)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	if _, _, err := verifier.ValidateJWT(token); err == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	s := NewUserService(nil, "test-secret", 24)
	if _, _, err := s.ValidateJWT("not-a-token"); err == nil {
		t.Fatal("expected malformed token to be rejected")
	}
}

func TestValidateJWTRejectsExpired(t *testing.T) {
	s := NewUserService(nil, "test-secret", -1)

	token, err := s.GenerateJWT("user-123", models.RoleDonor)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	if _, _, err := s.ValidateJWT(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}
