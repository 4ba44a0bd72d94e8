package utils

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHashAndVerify(t *testing.T) {
	hash, err := HashPassword("hunter22", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("hash must not equal the plain password")
	}
	if !VerifyPassword(hash, "hunter22") {
		t.Fatal("correct password rejected")
	}
	if VerifyPassword(hash, "hunter23") {
		t.Fatal("wrong password accepted")
	}
}
