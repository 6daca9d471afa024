package password

import (
	"strings"
	"testing"
)

func TestHash_ProducesVerifiableDigest(t *testing.T) {
	digest, err := Hash("my-secret-password")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if digest == "my-secret-password" {
		t.Fatal("digest must not equal the plaintext password")
	}
	if !strings.HasPrefix(digest, "$2") {
		t.Errorf("digest = %q, want bcrypt format", digest)
	}
	if !Verify("my-secret-password", digest) {
		t.Error("Verify should succeed for the original password")
	}
}

func TestHash_SamePasswordProducesDifferentDigests(t *testing.T) {
	// bcryptはソルト付きのため、同一パスワードでもダイジェストは毎回異なる
	d1, err := Hash("same-password")
	if err != nil {
		t.Fatal(err)
	}
	d2, err := Hash("same-password")
	if err != nil {
		t.Fatal(err)
	}
	if d1 == d2 {
		t.Error("two hashes of the same password should differ")
	}
}

func TestVerify_WrongPassword_Fails(t *testing.T) {
	digest, err := Hash("correct-password")
	if err != nil {
		t.Fatal(err)
	}

	if Verify("wrong-password", digest) {
		t.Error("Verify should fail for a wrong password")
	}
}

func TestVerify_InvalidDigest_Fails(t *testing.T) {
	if Verify("any", "not-a-bcrypt-digest") {
		t.Error("Verify should fail for a malformed digest")
	}
	if Verify("any", "") {
		t.Error("Verify should fail for an empty digest")
	}
}
