package utils_test

import (
	"testing"

	"github.com/mmrentals/rentdesk_backend/utils"
)

func TestComparePassword_RoundTrip(t *testing.T) {
	hashed, err := utils.HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := utils.ComparePassword(string(hashed), "s3cret"); err != nil {
		t.Fatalf("matching password: %v", err)
	}
	if err := utils.ComparePassword(string(hashed), "wrong"); err == nil {
		t.Fatal("wrong password must not compare equal")
	}
}

// A stored hash that is not bcrypt at all (legacy row, empty column)
// must fail the comparison with an error too; login paths treat every
// non-nil error as a denial.
func TestComparePassword_MalformedHashFails(t *testing.T) {
	for _, hashed := range []string{"", "not-a-bcrypt-hash"} {
		if err := utils.ComparePassword(hashed, "any-password"); err == nil {
			t.Fatalf("hash %q: comparison must fail", hashed)
		}
	}
}
