// Package cache provee una abstracción mínima de cache byte-oriented con
// soporte multi-backend.
//
// Soporta:
//   - Memory (in-process, para desarrollo/testing)
//   - Redis (distribuido, para producción)
//
// Los authorization codes viven acá: son de corta vida y el TTL del backend
// hace la expiración por nosotros.
package cache

import "time"

// Cache define las operaciones mínimas que necesita el engine.
type Cache interface {
	// Get obtiene un valor. El segundo retorno es false si la key no existe
	// o ya expiró.
	Get(key string) ([]byte, bool)

	// Set guarda un valor con TTL. Un TTL <= 0 no expira.
	Set(key string, value []byte, ttl time.Duration)

	// Delete elimina una key. Idempotente.
	Delete(key string)
}
