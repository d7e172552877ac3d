package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/contact-desk/internal/config"
	"github.com/iliyamo/contact-desk/internal/logging"
	"github.com/iliyamo/contact-desk/internal/model"
)

// MessageStore is implemented by MessageRepo and CachedMessageRepo.
type MessageStore interface {
	Create(ctx context.Context, m model.Message) (int64, error)
	ListNewestFirst(ctx context.Context) ([]model.Message, error)
}

// CachedMessageRepo puts a Redis read-through cache in front of the message
// listing.  Listings are stored under a generation number that Create bumps
// after every insert, so a listing computed before the insert can only ever
// land under a generation nobody reads again.  With a nil client or a
// disabled config every call goes straight to the wrapped store.
type CachedMessageRepo struct {
	next MessageStore
	rdb  *redis.Client
	cfg  config.CacheConfig
	log  *slog.Logger
}

func NewCachedMessageRepo(next MessageStore, rdb *redis.Client, cfg config.CacheConfig, log *slog.Logger) *CachedMessageRepo {
	return &CachedMessageRepo{next: next, rdb: rdb, cfg: cfg, log: log}
}

func (r *CachedMessageRepo) enabled() bool { return r.rdb != nil && r.cfg.Enabled }

func (r *CachedMessageRepo) genKey() string { return r.cfg.Prefix + ":messages:gen" }

func (r *CachedMessageRepo) listKey(gen int64) string {
	return r.cfg.Prefix + ":messages:" + strconv.FormatInt(gen, 10)
}

func (r *CachedMessageRepo) Create(ctx context.Context, m model.Message) (int64, error) {
	id, err := r.next.Create(ctx, m)
	if err != nil || !r.enabled() {
		return id, err
	}
	if err := r.rdb.Incr(ctx, r.genKey()).Err(); err != nil {
		r.log.Error("message cache invalidation failed; listing may be stale until ttl",
			slog.String("key", r.genKey()), slog.Duration("ttl", r.cfg.TTL), logging.Err(err))
	}
	return id, nil
}

func (r *CachedMessageRepo) ListNewestFirst(ctx context.Context) ([]model.Message, error) {
	if !r.enabled() {
		return r.next.ListNewestFirst(ctx)
	}

	gen, err := r.rdb.Get(ctx, r.genKey()).Int64()
	switch {
	case errors.Is(err, redis.Nil):
		gen = 0
	case err != nil:
		r.log.Warn("message cache read failed", slog.String("key", r.genKey()), logging.Err(err))
		return r.next.ListNewestFirst(ctx)
	}

	key := r.listKey(gen)
	bs, err := r.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var msgs []model.Message
		if jerr := json.Unmarshal(bs, &msgs); jerr == nil {
			return msgs, nil
		}
		r.log.Warn("message cache entry unreadable", slog.String("key", key))
	case !errors.Is(err, redis.Nil):
		r.log.Warn("message cache read failed", slog.String("key", key), logging.Err(err))
	}

	msgs, err := r.next.ListNewestFirst(ctx)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(msgs); err == nil {
		if err := r.rdb.Set(ctx, key, payload, r.cfg.TTL).Err(); err != nil {
			r.log.Warn("message cache write failed", slog.String("key", key), logging.Err(err))
		}
	}
	return msgs, nil
}
