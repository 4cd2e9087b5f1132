package slotstore

import (
	"context"
	"fmt"
	"strings"

	"faculty-connect/internal/catalog"
	"faculty-connect/internal/config"
	domain "faculty-connect/internal/domain/selection"
	interfaces "faculty-connect/internal/interfaces/infrastructure"

	"github.com/go-redis/redis/v8"
)

// decrementScript lazily creates the counter at full capacity, then
// decrements only if the value is positive. One script call, so concurrent
// decrements against the same key serialize inside Redis and the counter
// can never go below zero.
const decrementScript = `
	local current = redis.call("GET", KEYS[1])
	if current == false then
		redis.call("SET", KEYS[1], ARGV[1])
		current = ARGV[1]
	end
	local value = tonumber(current)
	if value <= 0 then
		return redis.error_reply("no seats available")
	end
	return redis.call("DECR", KEYS[1])
`

// incrementScript restores one seat, capped at the faculty's capacity. An
// increment against a full counter is a no-op that still reports the cap,
// so compensation never errors on an already-restored slot.
const incrementScript = `
	local cap = tonumber(ARGV[1])
	local current = redis.call("GET", KEYS[1])
	if current == false then
		redis.call("SET", KEYS[1], cap)
		return cap
	end
	local value = tonumber(current)
	if value >= cap then
		return value
	end
	return redis.call("INCR", KEYS[1])
`

// readScript returns the current value, lazily initializing at capacity.
const readScript = `
	local current = redis.call("GET", KEYS[1])
	if current == false then
		redis.call("SET", KEYS[1], ARGV[1])
		return tonumber(ARGV[1])
	end
	return tonumber(current)
`

// RedisSlotStore keeps every (faculty, subject) counter in Redis and
// mutates it exclusively through Lua scripts.
type RedisSlotStore struct {
	client  *redis.Client
	catalog *catalog.Catalog
}

func NewRedisSlotStore(addr, password string, db int, cat *catalog.Catalog) *RedisSlotStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisSlotStore{
		client:  rdb,
		catalog: cat,
	}
}

func NewRedisSlotStoreWithConfig(cfg *config.CacheConfig, cat *catalog.Catalog) *RedisSlotStore {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	return NewRedisSlotStore(addr, cfg.Password, cfg.DB, cat)
}

func slotRedisKey(facultyID, subjectID string) string {
	return "slots:" + catalog.SlotKey(facultyID, subjectID)
}

func (r *RedisSlotStore) capacityFor(facultyID, subjectID string) (int, error) {
	if !r.catalog.Eligible(subjectID, facultyID) {
		return 0, fmt.Errorf("faculty %s is not assigned to subject %s", facultyID, subjectID)
	}
	return r.catalog.FacultyByID(facultyID).Capacity, nil
}

func (r *RedisSlotStore) Decrement(ctx context.Context, facultyID, subjectID string) (int, error) {
	cap, err := r.capacityFor(facultyID, subjectID)
	if err != nil {
		return 0, err
	}

	result, err := r.client.Eval(ctx, decrementScript, []string{slotRedisKey(facultyID, subjectID)}, cap).Result()
	if err != nil {
		if strings.Contains(err.Error(), "no seats available") {
			return 0, domain.ErrNoSeats
		}
		return 0, fmt.Errorf("%w: failed to decrement slot: %v", domain.ErrStoreUnavailable, err)
	}

	remaining, ok := result.(int64)
	if !ok {
		return 0, fmt.Errorf("unexpected result type from Redis")
	}

	return int(remaining), nil
}

func (r *RedisSlotStore) Increment(ctx context.Context, facultyID, subjectID string) (int, error) {
	cap, err := r.capacityFor(facultyID, subjectID)
	if err != nil {
		return 0, err
	}

	result, err := r.client.Eval(ctx, incrementScript, []string{slotRedisKey(facultyID, subjectID)}, cap).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: failed to increment slot: %v", domain.ErrStoreUnavailable, err)
	}

	remaining, ok := result.(int64)
	if !ok {
		return 0, fmt.Errorf("unexpected result type from Redis")
	}

	return int(remaining), nil
}

func (r *RedisSlotStore) GetAll(ctx context.Context) (map[string]int, error) {
	out := make(map[string]int)

	for _, pair := range r.catalog.Pairs() {
		result, err := r.client.Eval(ctx, readScript, []string{slotRedisKey(pair.FacultyID, pair.SubjectID)}, pair.Capacity).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read slot %s: %v",
				domain.ErrStoreUnavailable, catalog.SlotKey(pair.FacultyID, pair.SubjectID), err)
		}

		remaining, ok := result.(int64)
		if !ok {
			return nil, fmt.Errorf("unexpected result type from Redis")
		}

		out[catalog.SlotKey(pair.FacultyID, pair.SubjectID)] = int(remaining)
	}

	return out, nil
}

func (r *RedisSlotStore) WarmMissing(ctx context.Context, values map[string]int) error {
	pipe := r.client.Pipeline()
	for _, pair := range r.catalog.Pairs() {
		key := catalog.SlotKey(pair.FacultyID, pair.SubjectID)
		if remaining, ok := values[key]; ok {
			pipe.SetNX(ctx, slotRedisKey(pair.FacultyID, pair.SubjectID), remaining, 0)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: failed to warm slot counters: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func (r *RedisSlotStore) ResetAll(ctx context.Context) error {
	pipe := r.client.Pipeline()
	for _, pair := range r.catalog.Pairs() {
		pipe.Set(ctx, slotRedisKey(pair.FacultyID, pair.SubjectID), pair.Capacity, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: failed to reset slot counters: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func (r *RedisSlotStore) Health(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisSlotStore) Close() error {
	return r.client.Close()
}

var _ interfaces.SlotStore = (*RedisSlotStore)(nil)
