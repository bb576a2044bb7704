package plan

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// encodingVersion tags the flat record layout written to redis. Bump it when
// the field set changes shape; readers reject versions they do not know.
const encodingVersion = "1"

// Record field names within the redis hash. Nested values (coordinates, legs)
// are stored as JSON-encoded strings to fit the flat field map.
const (
	fieldEncoding    = "enc"
	fieldID          = "id"
	fieldDuration    = "duration"
	fieldStartTime   = "start_time"
	fieldEndTime     = "end_time"
	fieldOrigin      = "origin"
	fieldDestination = "destination"
	fieldLegs        = "legs"
)

// RedisClient is the subset of the go-redis client used by the repository.
type RedisClient interface {
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisRepository stores detailed itineraries as redis hashes with a
// per-key expiration.
type RedisRepository struct {
	client RedisClient
	logger zerolog.Logger
}

// NewRedisRepository creates a redis-backed itinerary repository.
func NewRedisRepository(client RedisClient, logger zerolog.Logger) *RedisRepository {
	return &RedisRepository{client: client, logger: logger}
}

// Put writes the itinerary as a flat field map under its id and sets the key
// to expire after ttl. A non-positive ttl is rejected: a record must never
// outlive its itinerary.
func (r *RedisRepository) Put(ctx context.Context, it *Itinerary, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidTTL, ttl)
	}

	origin, err := json.Marshal(it.Origin)
	if err != nil {
		return fmt.Errorf("encoding origin: %w", err)
	}
	destination, err := json.Marshal(it.Destination)
	if err != nil {
		return fmt.Errorf("encoding destination: %w", err)
	}
	legs, err := json.Marshal(it.Legs)
	if err != nil {
		return fmt.Errorf("encoding legs: %w", err)
	}

	fields := map[string]interface{}{
		fieldEncoding:    encodingVersion,
		fieldID:          it.ID,
		fieldDuration:    strconv.Itoa(it.Duration),
		fieldStartTime:   strconv.FormatInt(it.StartTime.UnixMilli(), 10),
		fieldEndTime:     strconv.FormatInt(it.EndTime.UnixMilli(), 10),
		fieldOrigin:      string(origin),
		fieldDestination: string(destination),
		fieldLegs:        string(legs),
	}

	if err := r.client.HSet(ctx, it.ID, fields).Err(); err != nil {
		return fmt.Errorf("writing itinerary %s: %w", it.ID, err)
	}

	if err := r.client.Expire(ctx, it.ID, ttl).Err(); err != nil {
		// A key without a lifetime must not linger; drop it rather than
		// leave an immortal record behind.
		if delErr := r.client.Del(ctx, it.ID).Err(); delErr != nil {
			r.logger.Error().Err(delErr).
				Str("itinerary_id", it.ID).
				Msg("failed to remove itinerary after expire failure")
		}
		return fmt.Errorf("setting expiry on itinerary %s: %w", it.ID, err)
	}

	return nil
}

// Get reads the flat field map stored under id and reconstructs the
// detailed itinerary.
func (r *RedisRepository) Get(ctx context.Context, id string) (*Itinerary, error) {
	fields, err := r.client.HGetAll(ctx, id).Result()
	if err != nil {
		return nil, fmt.Errorf("reading itinerary %s: %w", id, err)
	}
	// HGETALL on an absent or expired key yields an empty map, not an error.
	if len(fields) == 0 {
		return nil, ErrNotFound
	}

	return decodeRecord(id, fields)
}

// decodeRecord reconstructs an itinerary from its flat field encoding.
func decodeRecord(id string, fields map[string]string) (*Itinerary, error) {
	if v := fields[fieldEncoding]; v != encodingVersion {
		return nil, fmt.Errorf("%w: unknown encoding version %q", ErrCorruptRecord, v)
	}

	duration, err := strconv.Atoi(fields[fieldDuration])
	if err != nil {
		return nil, fmt.Errorf("%w: bad duration field: %v", ErrCorruptRecord, err)
	}
	startMilli, err := strconv.ParseInt(fields[fieldStartTime], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad start_time field: %v", ErrCorruptRecord, err)
	}
	endMilli, err := strconv.ParseInt(fields[fieldEndTime], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad end_time field: %v", ErrCorruptRecord, err)
	}

	var origin, destination Coordinates
	if err := json.Unmarshal([]byte(fields[fieldOrigin]), &origin); err != nil {
		return nil, fmt.Errorf("%w: bad origin field: %v", ErrCorruptRecord, err)
	}
	if err := json.Unmarshal([]byte(fields[fieldDestination]), &destination); err != nil {
		return nil, fmt.Errorf("%w: bad destination field: %v", ErrCorruptRecord, err)
	}

	var legs []Leg
	if err := json.Unmarshal([]byte(fields[fieldLegs]), &legs); err != nil {
		return nil, fmt.Errorf("%w: bad legs field: %v", ErrCorruptRecord, err)
	}

	return &Itinerary{
		ID:          id,
		Duration:    duration,
		StartTime:   time.UnixMilli(startMilli),
		EndTime:     time.UnixMilli(endMilli),
		Origin:      origin,
		Destination: destination,
		Legs:        legs,
	}, nil
}
