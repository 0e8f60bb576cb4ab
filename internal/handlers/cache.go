package handlers

import (
	"net/http"

	"care-dispatch/internal/logger"
	"care-dispatch/internal/services"
)

// CacheHandler представляет обработчик для кеша
type CacheHandler struct {
	cacheService *services.CacheService
	log          *logger.Logger
}

// NewCacheHandler создает новый обработчик кеша
func NewCacheHandler(cacheService *services.CacheService, log *logger.Logger) *CacheHandler {
	return &CacheHandler{
		cacheService: cacheService,
		log:          log,
	}
}

// GetMetrics возвращает метрики кеширования
func (h *CacheHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	writeJSONResponse(w, http.StatusOK, h.cacheService.Metrics())
}
