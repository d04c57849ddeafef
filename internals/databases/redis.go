package database

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

// ConnectRedis returns nil when REDIS_ADDR is empty; callers fall back to in-process locking.
func ConnectRedis() (*redis.Client, error) {
	addr := getenv("REDIS_ADDR", "")
	if addr == "" {
		log.Println("[REDIS] REDIS_ADDR not set, redis disabled")
		return nil, nil
	}
	dbIndex, _ := strconv.Atoi(getenv("REDIS_DB", "0"))

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: getenv("REDIS_PASSWORD", ""),
		DB:       dbIndex,
		PoolSize: 10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Printf("[REDIS] connected to %s", addr)
	return client, nil
}
