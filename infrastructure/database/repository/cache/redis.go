package cache

import (
	"context"
	"time"

	redisClient "campuspass.io/infrastructure/database/connection/cache"
	"campuspass.io/infrastructure/logger"
)

var Cache RedisRepository

type RedisRepository struct {
	connected bool
}

func (redisRepo *RedisRepository) preRequest() bool {
	if !redisRepo.connected {
		if redisClient.Client == nil {
			return false
		}
		redisRepo.connected = true
		logger.Info("redis repository initialisation complete")
	}
	return true
}

func (redisRepo *RedisRepository) CreateEntry(key string, payload interface{}, ttl time.Duration) bool {
	if !redisRepo.preRequest() {
		return false
	}
	ctx := context.Background()
	_, err := redisClient.Client.Set(ctx, key, payload, ttl).Result()
	if err != nil {
		logger.Error("redis error occured while running CreateEntry", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "key",
			Data: key,
		})
		return false
	}

	return true
}

func (redisRepo *RedisRepository) FindOne(key string) *string {
	if !redisRepo.preRequest() {
		return nil
	}
	ctx := context.Background()

	result, err := redisClient.Client.Get(ctx, key).Result()
	if err != nil {
		if err.Error() == "redis: nil" {
			return nil
		}
		logger.Error("redis error occured while running FindOne", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "key",
			Data: key,
		})
		return nil
	}

	return &result
}

func (redisRepo *RedisRepository) DeleteOne(key string) bool {
	if !redisRepo.preRequest() {
		return false
	}
	ctx := context.Background()

	result, err := redisClient.Client.Del(ctx, key).Result()
	if err != nil {
		logger.Error("redis error occured while running DeleteOne", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "key",
			Data: key,
		})
		return false
	}

	return result == 1
}
