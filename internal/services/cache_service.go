package services

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"care-dispatch/internal/config"
	"care-dispatch/internal/logger"
	"care-dispatch/internal/redis"
)

// CacheService управляет кешированием данных
type CacheService struct {
	redis  *redis.Client
	config *config.CacheConfig
	logger *logger.Logger
	hits   atomic.Uint64 // Количество попаданий в кеш
	misses atomic.Uint64 // Количество промахов
}

// CacheMetrics представляет метрики кеширования
type CacheMetrics struct {
	Hits      uint64  `json:"hits"`
	Misses    uint64  `json:"misses"`
	TotalReqs uint64  `json:"total_requests"`
	HitRate   float64 `json:"hit_rate"`
}

// NewCacheService создает новый сервис кеширования
func NewCacheService(redis *redis.Client, cfg *config.CacheConfig, log *logger.Logger) *CacheService {
	return &CacheService{
		redis:  redis,
		config: cfg,
		logger: log,
	}
}

// Get получает данные из кеша и десериализует в target
func (s *CacheService) Get(ctx context.Context, key string, target interface{}) (bool, error) {
	if !s.config.Enabled {
		s.misses.Add(1)
		return false, nil
	}

	err := s.redis.Get(ctx, key, target)
	if err != nil {
		// Любая ошибка "not found" считается miss (данных нет в кеше)
		if strings.Contains(err.Error(), "not found") {
			s.misses.Add(1)
			return false, nil
		}
		s.logger.WithError(err).WithField("key", key).Error("Failed to get from cache")
		return false, err
	}

	s.hits.Add(1)
	return true, nil
}

// Set сохраняет данные в кеш с TTL
func (s *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !s.config.Enabled {
		return nil
	}

	err := s.redis.Set(ctx, key, value, ttl)
	if err != nil {
		s.logger.WithError(err).WithField("key", key).Error("Failed to set cache")
		return err
	}

	return nil
}

// Delete удаляет ключи из кеша (инвалидация)
func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	if !s.config.Enabled || len(keys) == 0 {
		return nil
	}

	err := s.redis.Delete(ctx, keys...)
	if err != nil {
		s.logger.WithError(err).Error("Failed to invalidate cache")
		return err
	}

	return nil
}

// Metrics возвращает счетчики кеша
func (s *CacheService) Metrics() CacheMetrics {
	hits := s.hits.Load()
	misses := s.misses.Load()
	total := hits + misses

	hitRate := 0.0
	if total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return CacheMetrics{
		Hits:      hits,
		Misses:    misses,
		TotalReqs: total,
		HitRate:   hitRate,
	}
}

// GetDefaultTTL возвращает TTL по умолчанию
func (s *CacheService) GetDefaultTTL() time.Duration {
	return time.Duration(s.config.DefaultTTL) * time.Second
}

// GetHotDataTTL возвращает TTL для горячих данных
func (s *CacheService) GetHotDataTTL() time.Duration {
	return time.Duration(s.config.HotDataTTL) * time.Second
}

// BuildKey создает ключ для кеша с префиксом
func BuildKey(prefix string, id string) string {
	return fmt.Sprintf("%s:%s", prefix, id)
}
