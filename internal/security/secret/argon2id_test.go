package secret

import (
	"strings"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	phc, err := Hash(Default, "super-secret")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !strings.HasPrefix(phc, "$argon2id$v=19$") {
		t.Fatalf("unexpected PHC format: %q", phc)
	}

	if !Verify("super-secret", phc) {
		t.Fatal("verify should succeed with correct secret")
	}
	if Verify("wrong", phc) {
		t.Fatal("verify should fail with wrong secret")
	}
}

func TestHash_EmptySecret(t *testing.T) {
	if _, err := Hash(Default, ""); err == nil {
		t.Fatal("empty secret must fail")
	}
}

func TestVerify_Garbage(t *testing.T) {
	for _, phc := range []string{"", "not-a-phc", "$argon2id$v=18$m=1,t=1,p=1$a$b", "$bcrypt$x"} {
		if Verify("x", phc) {
			t.Fatalf("garbage PHC must not verify: %q", phc)
		}
	}
}

func TestHash_SaltedDiffers(t *testing.T) {
	a, _ := Hash(Default, "same")
	b, _ := Hash(Default, "same")
	if a == b {
		t.Fatal("two hashes of the same secret must differ (random salt)")
	}
}
