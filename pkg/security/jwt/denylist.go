package jwt

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Denylist хранит jti отозванных токенов в Redis до их естественного
// истечения; после него ключ не нужен и TTL его убирает.
type Denylist struct {
	rdb *redis.Client
}

func NewDenylist(rdb *redis.Client) *Denylist {
	return &Denylist{rdb: rdb}
}

func (d *Denylist) key(tokenID string) string { return "revoked:" + tokenID }

// Revoke implements auth.TokenRevoker.
func (d *Denylist) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return d.rdb.Set(ctx, d.key(tokenID), "1", ttl).Err()
}

// Revoked reports whether the token was logged out.
func (d *Denylist) Revoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.rdb.Exists(ctx, d.key(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
