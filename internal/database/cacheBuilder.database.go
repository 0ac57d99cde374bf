package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

const (
	defaultCacheTTL     = time.Hour
	defaultCacheTimeout = 5 * time.Second
)

type KeyType interface {
	string | uuid.UUID
}

// CacheBuilder assembles a single cache operation fluently. Errors from the
// builder steps are held and surfaced by the terminal Set/Get/Delete call.
type CacheBuilder struct {
	client  valkey.Client
	key     string
	payload string
	ttl     time.Duration
	ctx     context.Context
	timeout time.Duration
	err     error
}

func NewCacheBuilder[K KeyType](client valkey.Client, key K) *CacheBuilder {
	cb := &CacheBuilder{
		client:  client,
		ttl:     defaultCacheTTL,
		timeout: defaultCacheTimeout,
		ctx:     context.Background(),
	}

	switch k := any(key).(type) {
	case string:
		cb.key = k
	case uuid.UUID:
		cb.key = k.String()
	}

	return cb
}

// WithStruct JSON-encodes value as the cached payload.
func (cb *CacheBuilder) WithStruct(value any) *CacheBuilder {
	encoded, err := json.Marshal(value)
	if err != nil {
		cb.err = fmt.Errorf("failed to encode cache value: %w", err)
		return cb
	}
	cb.payload = string(encoded)
	return cb
}

func (cb *CacheBuilder) WithValue(value string) *CacheBuilder {
	cb.payload = value
	return cb
}

func (cb *CacheBuilder) WithTTL(ttl time.Duration) *CacheBuilder {
	cb.ttl = ttl
	return cb
}

func (cb *CacheBuilder) WithContext(ctx context.Context) *CacheBuilder {
	cb.ctx = ctx
	return cb
}

func (cb *CacheBuilder) WithTimeout(timeout time.Duration) *CacheBuilder {
	cb.timeout = timeout
	return cb
}

func (cb *CacheBuilder) Set() error {
	if err := cb.validate(true); err != nil {
		return err
	}

	ctx, cancel := cb.opContext()
	defer cancel()

	cmd := cb.client.B().Set().Key(cb.key).Value(cb.payload).Ex(cb.ttl).Build()
	return cb.client.Do(ctx, cmd).Error()
}

// Get decodes the cached payload into result. The bool reports whether the
// key was present; a miss is not an error.
func (cb *CacheBuilder) Get(result any) (bool, error) {
	if err := cb.validate(false); err != nil {
		return false, err
	}

	ctx, cancel := cb.opContext()
	defer cancel()

	data, err := cb.client.Do(ctx, cb.client.B().Get().Key(cb.key).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return false, nil
		}
		return false, err
	}
	if data == "" {
		return false, nil
	}

	if err := json.Unmarshal([]byte(data), result); err != nil {
		return false, err
	}
	return true, nil
}

func (cb *CacheBuilder) Delete() error {
	if err := cb.validate(false); err != nil {
		return err
	}

	ctx, cancel := cb.opContext()
	defer cancel()

	return cb.client.Do(ctx, cb.client.B().Del().Key(cb.key).Build()).Error()
}

func (cb *CacheBuilder) validate(needsPayload bool) error {
	if cb.err != nil {
		return cb.err
	}
	if cb.key == "" {
		return fmt.Errorf("cache key is required")
	}
	if needsPayload && cb.payload == "" {
		return fmt.Errorf("cache value is required")
	}
	return nil
}

// opContext applies the builder timeout unless the caller's context already
// expires sooner.
func (cb *CacheBuilder) opContext() (context.Context, context.CancelFunc) {
	if deadline, ok := cb.ctx.Deadline(); ok && time.Until(deadline) < cb.timeout {
		return context.WithCancel(cb.ctx)
	}
	return context.WithTimeout(cb.ctx, cb.timeout)
}
