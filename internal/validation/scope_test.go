package validation

import (
	"strings"
	"testing"
)

func TestValidScopeName_Valid(t *testing.T) {
	valids := []string{
		"a",
		"ab",
		"profile",
		"users:read",
		"email:read:e2e123",
		"a_b-c.d:scope2",
		// 64 chars (start/end alnum)
		"a" + strings.Repeat("a", 62) + "b",
	}
	for _, v := range valids {
		if !ValidScopeName(v) {
			t.Fatalf("expected valid: %q", v)
		}
	}
}

func TestValidScopeName_Invalid(t *testing.T) {
	invalids := []string{
		"",               // empty
		":lead",          // starts with non-alnum
		"trail:",         // ends with non-alnum
		"bad space",      // space
		"UPPER",          // uppercase
		"semicolon;hack", // semicolon
		"*",              // wildcard is a catalog marker, not a name
		strings.Repeat("a", 65),
		strings.Repeat("a", 100),
	}
	for _, v := range invalids {
		if ValidScopeName(v) {
			t.Fatalf("expected invalid: %q", v)
		}
	}
}

func TestCatalog_Validate(t *testing.T) {
	c := NewCatalog("users:read", "users:write")

	got, err := c.Validate([]string{"users:read", "profile"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != "users:read" || got[1] != "profile" {
		t.Fatalf("scopes must come back unchanged, got %v", got)
	}

	_, err = c.Validate([]string{"users:read", "users:admin"})
	if err == nil {
		t.Fatal("expected error for unknown scope")
	}
	if !strings.Contains(err.Error(), "users:admin") {
		t.Fatalf("error must name the first unknown scope, got: %v", err)
	}
}

func TestCatalog_Wildcard(t *testing.T) {
	c := NewCatalog("*")

	if _, err := c.Validate([]string{"anything:goes", "really"}); err != nil {
		t.Fatalf("wildcard catalog must accept any valid name: %v", err)
	}

	// Structural rules still apply under wildcard.
	if _, err := c.Validate([]string{"NOT VALID"}); err == nil {
		t.Fatal("wildcard catalog must still reject malformed names")
	}
	if c.Exists("BAD") {
		t.Fatal("Exists must reject malformed names under wildcard")
	}
}

func TestCatalog_Defaults(t *testing.T) {
	c := NewCatalog()
	for _, s := range DefaultScopes {
		if !c.Exists(s) {
			t.Fatalf("default scope missing: %s", s)
		}
	}
	if c.Exists("users:read") {
		t.Fatal("non-default scope should not exist in empty catalog")
	}
}
