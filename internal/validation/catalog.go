package validation

import "fmt"

// DefaultScopes son los scopes built-in que todo catálogo conoce.
var DefaultScopes = []string{"openid", "profile", "email", "offline_access"}

// Catalog is the fixed in-memory registry of known scope strings.
// Lookup only; it performs no I/O and is safe for concurrent reads.
type Catalog struct {
	known    map[string]struct{}
	wildcard bool
}

// NewCatalog crea un catálogo con los defaults más entradas custom.
// Una entrada "*" convierte al catálogo en wildcard: acepta cualquier scope
// estructuralmente válido (el filtrado por client sigue aplicando aparte).
func NewCatalog(custom ...string) *Catalog {
	c := &Catalog{known: make(map[string]struct{}, len(DefaultScopes)+len(custom))}
	for _, s := range DefaultScopes {
		c.known[s] = struct{}{}
	}
	for _, s := range custom {
		if s == Wildcard {
			c.wildcard = true
			continue
		}
		c.known[s] = struct{}{}
	}
	return c
}

// Exists verifica si un scope está en el catálogo.
func (c *Catalog) Exists(scope string) bool {
	if c.wildcard {
		return ValidScopeName(scope)
	}
	_, ok := c.known[scope]
	return ok
}

// Validate retorna los scopes pedidos sin cambios si todos existen en el
// catálogo. Falla nombrando el primer scope desconocido.
func (c *Catalog) Validate(requested []string) ([]string, error) {
	for _, s := range requested {
		if !c.Exists(s) {
			return nil, fmt.Errorf("unknown scope: %s", s)
		}
	}
	return requested, nil
}
