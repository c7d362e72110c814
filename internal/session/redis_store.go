package session

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"xunlei/internal/constants"
)

// RedisStore keeps sessions in Redis with per-key TTLs, so a panel
// restart does not log everyone out. Opt-in; the default deployment uses
// the in-memory store.
type RedisStore struct {
	client *redis.Client
	ctx    context.Context
	cancel func()
}

func NewRedisStore(host, port, username, password string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Username: username,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithCancel(context.Background())
	store := &RedisStore{client: client, ctx: ctx, cancel: cancel}

	if err := store.client.Ping(ctx).Err(); err != nil {
		cancel()
		return nil, err
	}
	return store, nil
}

func (st *RedisStore) Get(id string) (*Session, bool) {
	data, err := st.client.Get(st.ctx, constants.RedisKeyPrefix+id).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("❌ Failed to get session from Redis: %v", err)
		return nil, false
	}

	var sess Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		log.Printf("❌ Failed to unmarshal session: %v", err)
		return nil, false
	}
	if sess.IsExpired() {
		st.Remove(id)
		return nil, false
	}
	return &sess, true
}

func (st *RedisStore) Put(sess *Session) {
	data, err := json.Marshal(sess)
	if err != nil {
		log.Printf("❌ Failed to marshal session: %v", err)
		return
	}

	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return
	}
	if err := st.client.Set(st.ctx, constants.RedisKeyPrefix+sess.ID, data, ttl).Err(); err != nil {
		log.Printf("❌ Failed to save session to Redis: %v", err)
	}
}

func (st *RedisStore) Remove(id string) {
	if err := st.client.Del(st.ctx, constants.RedisKeyPrefix+id).Err(); err != nil {
		log.Printf("❌ Failed to delete session from Redis: %v", err)
	}
}

func (st *RedisStore) Close() error {
	st.cancel()
	return st.client.Close()
}
