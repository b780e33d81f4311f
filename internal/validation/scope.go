package validation

import "regexp"

// Wildcard is the catch-all scope entry. A catalog containing it accepts any
// structurally valid scope name; a client whose allowance contains it may
// request any catalog-valid scope.
const Wildcard = "*"

// Scope name rules:
// - Lowercase only.
// - Start and end with [a-z0-9].
// - Middle chars may include [a-z0-9:_.-].
// - Length 1..64.
// - Excludes semicolon and whitespace explicitly.
//
// Examples valid: users:read, profile, a, a_b-c.d:scope2
// Examples invalid: ;hack, BAD, bad space, :leader, trailer:, "", 65+ chars.
var scopeNameRe = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9:_\.-]{0,62}[a-z0-9])?$`)

// ValidScopeName returns true if the provided scope name matches the allowed pattern.
// The wildcard entry is handled separately by the catalog and is not a valid name here.
func ValidScopeName(name string) bool {
	return scopeNameRe.MatchString(name)
}
