// Package redis stores accounts as JSON documents in Redis. Email and slug
// uniqueness is kept by index keys written in the same MULTI as the
// document, under WATCH.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/accounts/internal/accounts/store"
	"github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key the store writes.
const DefaultPrefix = "accounts"

// maxTxRetries bounds optimistic retries when a watched key changes under us.
const maxTxRetries = 8

var errTxConflict = errors.New("redis store: too much contention, giving up")

type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

type Store struct {
	client redis.UniversalClient
	prefix string
}

var _ store.Store = (*Store)(nil)

// NewStore wraps an existing client. The store owns the client and closes it.
func NewStore(client redis.UniversalClient, prefix string) *Store {
	prefix = strings.TrimSuffix(prefix, ":")
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{client: client, prefix: prefix}
}

// Open connects to the server described by opts and checks it answers.
func Open(ctx context.Context, opts Options) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis store: ping %s: %w", opts.Addr, err)
	}
	return NewStore(client, opts.Prefix), nil
}

func (s *Store) Users() store.Users { return &usersRepo{client: s.client, keys: keyspace(s.prefix)} }

func (s *Store) Close() error { return s.client.Close() }

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// keyspace builds the keys for one prefix.
type keyspace string

func (k keyspace) user(id string) string     { return string(k) + ":user:" + id }
func (k keyspace) email(email string) string { return string(k) + ":email:" + email }
func (k keyspace) slug(slug string) string   { return string(k) + ":slug:" + slug }

// withRetry runs fn until it commits, retrying on WATCH conflicts.
func withRetry(ctx context.Context, fn func() error) error {
	for range maxTxRetries {
		err := fn()
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return errTxConflict
}
