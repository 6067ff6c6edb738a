package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"doctor-directory/internal/domain/entity"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	// DoctorListKey holds the JSON encoded result of the last full listing
	// together with the generation it was read under.
	DoctorListKey = "doctors:list"

	// DoctorListGenerationKey is bumped by every write. A cached listing is
	// only served while its generation matches.
	DoctorListGenerationKey = "doctors:list:generation"

	// NoGeneration is returned by GetList when the generation could not be
	// read. SetList ignores it.
	NoGeneration int64 = -1

	redisOpTimeout = 2 * time.Second
)

var errStaleGeneration = errors.New("doctor list generation changed")

// DoctorCacheService caches the full doctor listing. Failures are logged and
// swallowed: the database stays the source of truth.
//
// GetList returns the generation observed before the caller reads the store;
// that generation must be handed back to SetList so a listing read before a
// concurrent write is never stored.
type DoctorCacheService interface {
	GetList(ctx context.Context) (doctors []entity.Doctor, generation int64, hit bool)
	SetList(ctx context.Context, generation int64, doctors []entity.Doctor)
	Invalidate(ctx context.Context)
}

type cachedDoctorList struct {
	Generation int64           `json:"generation"`
	Doctors    []entity.Doctor `json:"doctors"`
}

type redisDoctorCache struct {
	redisClient *redis.Client
	log         *logrus.Logger
	ttl         time.Duration
}

func NewRedisDoctorCache(redisClient *redis.Client, log *logrus.Logger, ttl time.Duration) DoctorCacheService {
	return &redisDoctorCache{
		redisClient: redisClient,
		log:         log,
		ttl:         ttl,
	}
}

func (s *redisDoctorCache) GetList(ctx context.Context) ([]entity.Doctor, int64, bool) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	values, err := s.redisClient.MGet(ctx, DoctorListGenerationKey, DoctorListKey).Result()
	if err != nil {
		s.log.Warnf("Failed to read doctor list from cache: %+v", err)
		return nil, NoGeneration, false
	}

	var generation int64
	if raw, ok := values[0].(string); ok {
		generation, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			s.log.Warnf("Failed to parse doctor list generation: %+v", err)
			return nil, NoGeneration, false
		}
	}

	raw, ok := values[1].(string)
	if !ok {
		return nil, generation, false
	}

	var cached cachedDoctorList
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		s.log.Warnf("Failed to decode cached doctor list: %+v", err)
		return nil, generation, false
	}
	if cached.Generation != generation {
		return nil, generation, false
	}

	return cached.Doctors, generation, true
}

func (s *redisDoctorCache) SetList(ctx context.Context, generation int64, doctors []entity.Doctor) {
	if generation < 0 {
		return
	}

	raw, err := json.Marshal(cachedDoctorList{Generation: generation, Doctors: doctors})
	if err != nil {
		s.log.Warnf("Failed to encode doctor list for cache: %+v", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	// WATCH aborts the write if a writer bumps the generation between the
	// check and EXEC.
	err = s.redisClient.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, DoctorListGenerationKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return errStaleGeneration
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, DoctorListKey, raw, s.ttl)
			return nil
		})
		return err
	}, DoctorListGenerationKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleGeneration), errors.Is(err, redis.TxFailedErr):
		s.log.Debugf("Skip caching doctor list read under generation %d", generation)
	default:
		s.log.Warnf("Failed to write doctor list to cache: %+v", err)
	}
}

func (s *redisDoctorCache) Invalidate(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	pipe := s.redisClient.TxPipeline()
	pipe.Incr(ctx, DoctorListGenerationKey)
	pipe.Del(ctx, DoctorListKey)
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warnf("Failed to invalidate doctor list cache: %+v", err)
		return
	}
	s.log.Debug("Doctor list cache invalidated")
}

type noopDoctorCache struct{}

// NewNoopDoctorCache is used when no Redis host is configured.
func NewNoopDoctorCache() DoctorCacheService {
	return noopDoctorCache{}
}

func (noopDoctorCache) GetList(context.Context) ([]entity.Doctor, int64, bool) {
	return nil, NoGeneration, false
}

func (noopDoctorCache) SetList(context.Context, int64, []entity.Doctor) {}

func (noopDoctorCache) Invalidate(context.Context) {}
