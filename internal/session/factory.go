package session

import (
	"log"

	"xunlei/internal/utils"
)

const (
	EnvRedisHost     = "XUNLEI_REDIS_HOST"
	EnvRedisPort     = "XUNLEI_REDIS_PORT"
	EnvRedisUser     = "XUNLEI_REDIS_USERNAME"
	EnvRedisPassword = "XUNLEI_REDIS_PASSWORD"
)

// NewStore picks the session backend: Redis when XUNLEI_REDIS_HOST is
// set, the in-memory map otherwise. A failed Redis connection falls back
// to memory rather than blocking panel startup.
func NewStore() Store {
	redisHost := utils.GetEnv(EnvRedisHost, "")

	if redisHost != "" {
		redisPort := utils.GetEnv(EnvRedisPort, "6379")
		redisUser := utils.GetEnv(EnvRedisUser, "")
		redisPassword := utils.GetEnv(EnvRedisPassword, "")

		store, err := NewRedisStore(redisHost, redisPort, redisUser, redisPassword)
		if err != nil {
			log.Printf("⚠️ Redis connection failed: %v", err)
			log.Println("💾 Falling back to in-memory session store")
			return NewMemoryStore()
		}
		log.Printf("💾 Using Redis session store: %s:%s", redisHost, redisPort)
		return store
	}

	log.Println("💾 Using in-memory session store")
	return NewMemoryStore()
}
