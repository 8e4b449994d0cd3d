package utils

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	t.Run("hashes and verifies a password", func(t *testing.T) {
		hash, err := HashPassword("correct horse battery staple")
		if err != nil {
			t.Fatalf("failed hashing password: %v", err)
		}
		if hash == "correct horse battery staple" {
			t.Fatal("hash must not equal the plaintext")
		}
		if !CheckPassword(hash, "correct horse battery staple") {
			t.Fatal("expected matching password to verify")
		}
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		hash, err := HashPassword("password123")
		if err != nil {
			t.Fatalf("failed hashing password: %v", err)
		}
		if CheckPassword(hash, "password124") {
			t.Fatal("expected wrong password to fail verification")
		}
	})

	t.Run("produces distinct hashes for the same input", func(t *testing.T) {
		first, err := HashPassword("password123")
		if err != nil {
			t.Fatalf("failed hashing password: %v", err)
		}
		second, err := HashPassword("password123")
		if err != nil {
			t.Fatalf("failed hashing password: %v", err)
		}
		if first == second {
			t.Fatal("expected salted hashes to differ")
		}
	})
}
