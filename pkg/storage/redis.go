package storage

import (
	"context"
	"strings"

	goredislib "github.com/redis/go-redis/v9"

	"github.com/pkg/errors"
)

const (
	pong               = "PONG"
	redisScanBatchSize = 1000
	namespaceSeparator = ":"
)

func init() {
	if err := RegisterStorage(&RedisDB{}); err != nil {
		panic(err)
	}
}

// RedisDB is a storage provider backed by redis. Namespaces are encoded as
// key prefixes.
type RedisDB struct {
	db *goredislib.Client
}

func (r *RedisDB) Init(opts ...Option) error {
	address, ok := optionValue[string](opts, RedisAddressOption)
	if !ok {
		return errors.New("redis address option is required")
	}
	password, _ := optionValue[string](opts, PasswordOption)
	r.db = goredislib.NewClient(&goredislib.Options{
		Addr:     address,
		Password: password,
	})
	return nil
}

func (r *RedisDB) Type() Type {
	return Redis
}

func (r *RedisDB) URI() string {
	return r.db.Options().Addr
}

func (r *RedisDB) IsOpen() bool {
	res, err := r.db.Ping(context.Background()).Result()
	if err != nil {
		return false
	}
	return res == pong
}

func (r *RedisDB) Close() error {
	return r.db.Close()
}

func (r *RedisDB) Write(ctx context.Context, namespace, key string, value []byte) error {
	return r.db.Set(ctx, getRedisKey(namespace, key), value, 0).Err()
}

func (r *RedisDB) Read(ctx context.Context, namespace, key string) ([]byte, error) {
	value, err := r.db.Get(ctx, getRedisKey(namespace, key)).Bytes()
	if errors.Is(err, goredislib.Nil) {
		return nil, nil
	}
	return value, err
}

func (r *RedisDB) Exists(ctx context.Context, namespace, key string) (bool, error) {
	count, err := r.db.Exists(ctx, getRedisKey(namespace, key)).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *RedisDB) ReadAll(ctx context.Context, namespace string) (map[string][]byte, error) {
	keys, err := r.readAllKeys(ctx, namespace)
	if err != nil {
		return nil, errors.Wrap(err, "reading all keys")
	}
	result := make(map[string][]byte, len(keys))
	for _, key := range keys {
		value, err := r.db.Get(ctx, key).Bytes()
		if err != nil {
			return nil, errors.Wrapf(err, "getting value for key %s", key)
		}
		result[strings.TrimPrefix(key, namespace+namespaceSeparator)] = value
	}
	return result, nil
}

func (r *RedisDB) Delete(ctx context.Context, namespace, key string) error {
	exists, err := r.Exists(ctx, namespace, key)
	if err != nil {
		return err
	}
	if !exists {
		return errors.Errorf("key<%s> does not exist in namespace<%s>", key, namespace)
	}
	return r.db.Del(ctx, getRedisKey(namespace, key)).Err()
}

func (r *RedisDB) DeleteNamespace(ctx context.Context, namespace string) error {
	keys, err := r.readAllKeys(ctx, namespace)
	if err != nil {
		return errors.Wrap(err, "reading all keys")
	}
	if len(keys) == 0 {
		return errors.Errorf("namespace<%s> does not exist", namespace)
	}
	return r.db.Del(ctx, keys...).Err()
}

func (r *RedisDB) readAllKeys(ctx context.Context, namespace string) ([]string, error) {
	var keys []string
	var cursor uint64
	for {
		batch, nextCursor, err := r.db.Scan(ctx, cursor, namespace+namespaceSeparator+"*", redisScanBatchSize).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, batch...)
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	return keys, nil
}

func getRedisKey(namespace, key string) string {
	return namespace + namespaceSeparator + key
}
