package storage

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"
)

// RedisStore keeps the whole collection as one JSON array under a single
// key. Store operations carry no cancellation concept, so calls run under
// context.Background().
type RedisStore struct {
	Client *redis.Client
	Key    string
}

func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{Client: client, Key: key}
}

func (s *RedisStore) Load(v any) error {
	data, err := s.Client.Get(context.Background(), s.Key).Result()
	if err != nil {
		if err == redis.Nil {
			return json.Unmarshal([]byte("[]"), v)
		}
		return err
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	dec.UseNumber()
	return dec.Decode(v)
}

func (s *RedisStore) Save(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Client.Set(context.Background(), s.Key, data, 0).Err()
}
