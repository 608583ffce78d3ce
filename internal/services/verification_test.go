package services

import (
	"errors"
	"testing"
)

func TestSubmitVerificationInputValidate(t *testing.T) {
	in := SubmitVerificationInput{OrganizationName: "City Shelter", OrganizationType: "shelter"}
	if err := in.Validate(); err != nil {
		t.Fatalf("valid submission rejected: %v", err)
	}

	cases := []struct {
		name string
		in   SubmitVerificationInput
	}{
		{"blank name", SubmitVerificationInput{OrganizationName: "  ", OrganizationType: "ngo"}},
		{"unknown type", SubmitVerificationInput{OrganizationName: "City Shelter", OrganizationType: "cartel"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.in.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}
