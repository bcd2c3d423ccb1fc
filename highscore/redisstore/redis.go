package redisstore

import (
	"context"
	"strconv"

	"github.com/battlesnakeio/gravitysnake/config"
	"github.com/battlesnakeio/gravitysnake/highscore"
	"github.com/go-redis/redis"
	"github.com/pkg/errors"
)

// Store keeps every high score as a field of one redis hash.
type Store struct {
	client *redis.Client
	hash   string
}

// NewStore connects to the redis server at connectURL (see ParseURL in
// go-redis for the format) and pings it. Share the store between goroutines
// rather than opening one per caller.
func NewStore(connectURL string) (*Store, error) {
	o, err := redis.ParseURL(connectURL)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse redis URL")
	}

	client := redis.NewClient(o)

	// Validate it's connected
	err = client.Ping().Err()
	if err != nil {
		return nil, errors.Wrap(err, "unable to connect")
	}

	return &Store{client: client, hash: config.RedisHashKey}, nil
}

// Get returns the score stored under key.
func (rs *Store) Get(ctx context.Context, key string) (int, error) {
	score, err := rs.client.WithContext(ctx).HGet(rs.hash, key).Int()
	if err == redis.Nil {
		return 0, highscore.ErrNotFound
	}
	if err != nil {
		return 0, errors.Wrapf(err, "unable to get %s", key)
	}
	return score, nil
}

// Put stores score under key.
func (rs *Store) Put(ctx context.Context, key string, score int) error {
	err := rs.client.WithContext(ctx).HSet(rs.hash, key, score).Err()
	return errors.Wrapf(err, "unable to put %s", key)
}

// putIfHigher runs server side so no other writer lands between the read and
// the write.
var putIfHigher = redis.NewScript(`
local cur = tonumber(redis.call('HGET', KEYS[1], ARGV[1]) or '0')
if cur < tonumber(ARGV[2]) then
	redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
	return 1
end
return 0
`)

// PutIfHigher stores score under key if it beats the stored one.
func (rs *Store) PutIfHigher(ctx context.Context, key string, score int) (bool, error) {
	wrote, err := putIfHigher.Run(rs.client.WithContext(ctx), []string{rs.hash}, key, score).Int64()
	if err != nil {
		return false, errors.Wrapf(err, "unable to put %s", key)
	}
	return wrote == 1, nil
}

// List returns every stored score.
func (rs *Store) List(ctx context.Context) (map[string]int, error) {
	raw, err := rs.client.WithContext(ctx).HGetAll(rs.hash).Result()
	if err != nil {
		return nil, errors.Wrap(err, "unable to list scores")
	}
	scores := make(map[string]int, len(raw))
	for k, v := range raw {
		score, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.Wrapf(err, "corrupt score for %s", k)
		}
		scores[k] = score
	}
	return scores, nil
}

// Close closes the underlying redis client.
func (rs *Store) Close() error {
	return rs.client.Close()
}
