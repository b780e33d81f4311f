// Package redis implementa cache.Cache sobre go-redis.
package redis

import (
	"context"
	"time"

	rdb "github.com/redis/go-redis/v9"
)

type Cache struct{ c *rdb.Client }

// New crea un cache Redis contra addr/db.
func New(addr, password string, db int) *Cache {
	return &Cache{c: rdb.NewClient(&rdb.Options{Addr: addr, Password: password, DB: db})}
}

func (r *Cache) Get(k string) ([]byte, bool) {
	b, err := r.c.Get(context.Background(), k).Bytes()
	if err != nil {
		return nil, false
	}
	return b, true
}

func (r *Cache) Set(k string, v []byte, ttl time.Duration) {
	_ = r.c.Set(context.Background(), k, v, ttl).Err()
}

func (r *Cache) Delete(k string) { _ = r.c.Del(context.Background(), k).Err() }

// Ping verifica la conexión.
func (r *Cache) Ping(ctx context.Context) error { return r.c.Ping(ctx).Err() }

// Close cierra la conexión subyacente.
func (r *Cache) Close() error { return r.c.Close() }
