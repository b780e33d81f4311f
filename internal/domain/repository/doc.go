// Package repository define las entidades del dominio OAuth2 y las interfaces
// de persistencia que el engine consume.
//
// El engine depende únicamente de estas interfaces; los adapters concretos
// viven en internal/store (memory para tests/dev, pg para producción).
package repository
