package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	valkey "github.com/valkey-io/valkey-go"

	"github.com/vendra/marketplace/models"
)

// ValkeyStore keeps sessions and carts in Valkey (Redis-compatible).
// Session keys are sha256-hashed so raw tokens never land in the keyspace.
type ValkeyStore struct {
	client valkey.Client
	prefix string
	ttl    time.Duration
}

// NewValkeyStore connects to addr. prefix namespaces keys; ttl bounds both
// session and cart lifetime.
func NewValkeyStore(addr, prefix string, ttl time.Duration) (*ValkeyStore, error) {
	cli, err := valkey.NewClient(valkey.ClientOption{InitAddress: []string{addr}})
	if err != nil {
		return nil, err
	}
	if prefix == "" {
		prefix = "market:"
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &ValkeyStore{client: cli, prefix: prefix, ttl: ttl}, nil
}

// Close releases the underlying Valkey connection.
func (vs *ValkeyStore) Close() { vs.client.Close() }

func (vs *ValkeyStore) key(k string) string { return vs.prefix + k }

// tokenHash returns a stable hex sha256 for a token string.
func tokenHash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// Save stores session JSON under session:<sha256(token)> with the session's
// remaining lifetime as TTL.
func (vs *ValkeyStore) Save(ctx context.Context, s models.Session) error {
	jv, err := json.Marshal(s)
	if err != nil {
		return err
	}
	ttl := vs.ttl
	if !s.ExpiresAt.IsZero() {
		ttl = time.Until(s.ExpiresAt)
	}
	return vs.client.Do(ctx, vs.client.B().Set().
		Key(vs.key("session:"+tokenHash(s.Token))).Value(string(jv)).Ex(ttl).Build()).Error()
}

// Get loads a session by token; expired or missing is ErrSessionNotFound.
func (vs *ValkeyStore) Get(ctx context.Context, token string) (*models.Session, error) {
	res := vs.client.Do(ctx, vs.client.B().Get().Key(vs.key("session:"+tokenHash(token))).Build())
	if res.Error() != nil {
		if valkey.IsValkeyNil(res.Error()) {
			return nil, ErrSessionNotFound
		}
		return nil, res.Error()
	}
	val, err := res.ToString()
	if err != nil || val == "" {
		return nil, ErrSessionNotFound
	}
	var s models.Session
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return nil, err
	}
	if s.Expired(time.Now()) {
		_ = vs.Delete(ctx, token)
		return nil, ErrSessionNotFound
	}
	return &s, nil
}

// Delete removes a session; missing is not an error.
func (vs *ValkeyStore) Delete(ctx context.Context, token string) error {
	return vs.client.Do(ctx, vs.client.B().Del().Key(vs.key("session:"+tokenHash(token))).Build()).Error()
}

// ValkeyCartStore keeps carts under cart:<key> with a sliding TTL.
type ValkeyCartStore struct{ *ValkeyStore }

// NewValkeyCartStore wraps an existing ValkeyStore connection for carts.
func NewValkeyCartStore(vs *ValkeyStore) *ValkeyCartStore { return &ValkeyCartStore{vs} }

func (cs *ValkeyCartStore) Get(ctx context.Context, key string) (models.Cart, error) {
	res := cs.client.Do(ctx, cs.client.B().Get().Key(cs.key("cart:"+key)).Build())
	if res.Error() != nil {
		if valkey.IsValkeyNil(res.Error()) {
			return models.Cart{}, nil
		}
		return models.Cart{}, res.Error()
	}
	val, err := res.ToString()
	if err != nil || val == "" {
		return models.Cart{}, nil
	}
	var cart models.Cart
	if err := json.Unmarshal([]byte(val), &cart); err != nil {
		return models.Cart{}, err
	}
	return cart, nil
}

func (cs *ValkeyCartStore) Save(ctx context.Context, key string, cart models.Cart) error {
	jv, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return cs.client.Do(ctx, cs.client.B().Set().
		Key(cs.key("cart:"+key)).Value(string(jv)).Ex(cs.ttl).Build()).Error()
}

func (cs *ValkeyCartStore) Delete(ctx context.Context, key string) error {
	return cs.client.Do(ctx, cs.client.B().Del().Key(cs.key("cart:"+key)).Build()).Error()
}
