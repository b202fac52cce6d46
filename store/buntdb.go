package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/tidwall/buntdb"

	"github.com/vendra/marketplace/models"
)

// BuntStore is the in-memory session/cart store used for development and
// tests, mirroring the Valkey layout on buntdb.
type BuntStore struct {
	db  *buntdb.DB
	ttl time.Duration
}

// NewBuntStore opens an in-memory buntdb instance.
func NewBuntStore(ttl time.Duration) (*BuntStore, error) {
	db, err := buntdb.Open(":memory:")
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &BuntStore{db: db, ttl: ttl}, nil
}

// Close releases the underlying database.
func (bs *BuntStore) Close() error { return bs.db.Close() }

func (bs *BuntStore) set(key, val string, ttl time.Duration) error {
	return bs.db.Update(func(tx *buntdb.Tx) error {
		opts := &buntdb.SetOptions{Expires: true, TTL: ttl}
		_, _, err := tx.Set(key, val, opts)
		return err
	})
}

func (bs *BuntStore) get(key string) (string, error) {
	var val string
	err := bs.db.View(func(tx *buntdb.Tx) error {
		v, err := tx.Get(key)
		if err != nil {
			return err
		}
		val = v
		return nil
	})
	return val, err
}

func (bs *BuntStore) del(key string) error {
	err := bs.db.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete(key)
		return err
	})
	if errors.Is(err, buntdb.ErrNotFound) {
		return nil
	}
	return err
}

// Save stores session JSON under session:<sha256(token)>.
func (bs *BuntStore) Save(_ context.Context, s models.Session) error {
	jv, err := json.Marshal(s)
	if err != nil {
		return err
	}
	ttl := bs.ttl
	if !s.ExpiresAt.IsZero() {
		ttl = time.Until(s.ExpiresAt)
	}
	return bs.set("session:"+tokenHash(s.Token), string(jv), ttl)
}

// Get loads a session by token; expired or missing is ErrSessionNotFound.
func (bs *BuntStore) Get(_ context.Context, token string) (*models.Session, error) {
	val, err := bs.get("session:" + tokenHash(token))
	if errors.Is(err, buntdb.ErrNotFound) {
		return nil, ErrSessionNotFound
	} else if err != nil {
		return nil, err
	}
	var s models.Session
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return nil, err
	}
	if s.Expired(time.Now()) {
		_ = bs.del("session:" + tokenHash(token))
		return nil, ErrSessionNotFound
	}
	return &s, nil
}

// Delete removes a session; missing is not an error.
func (bs *BuntStore) Delete(_ context.Context, token string) error {
	return bs.del("session:" + tokenHash(token))
}

// BuntCartStore keeps carts on the same buntdb instance.
type BuntCartStore struct{ *BuntStore }

// NewBuntCartStore wraps an existing BuntStore for carts.
func NewBuntCartStore(bs *BuntStore) *BuntCartStore { return &BuntCartStore{bs} }

func (cs *BuntCartStore) Get(_ context.Context, key string) (models.Cart, error) {
	val, err := cs.get("cart:" + key)
	if errors.Is(err, buntdb.ErrNotFound) {
		return models.Cart{}, nil
	} else if err != nil {
		return models.Cart{}, err
	}
	var cart models.Cart
	if err := json.Unmarshal([]byte(val), &cart); err != nil {
		return models.Cart{}, err
	}
	return cart, nil
}

func (cs *BuntCartStore) Save(_ context.Context, key string, cart models.Cart) error {
	jv, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return cs.set("cart:"+key, string(jv), cs.ttl)
}

func (cs *BuntCartStore) Delete(_ context.Context, key string) error {
	return cs.del("cart:" + key)
}
