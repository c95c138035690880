package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"civic/internal/pkg/cache"
	"civic/internal/pkg/mongodb"
)

// probeTimeout 单次依赖探测的超时时间
const probeTimeout = 2 * time.Second

// HealthHandler 健康检查处理器
type HealthHandler struct {
	mongo *mongodb.Client
	redis *cache.RedisCache // 可为 nil，未启用缓存时不参与就绪判断
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(mongo *mongodb.Client, redis *cache.RedisCache) *HealthHandler {
	return &HealthHandler{mongo: mongo, redis: redis}
}

// Health 存活检查，不触达任何依赖
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Ready 就绪检查：探测实际接入的存储依赖
// MongoDB 不可用时返回 503；Redis 是可选依赖，只上报状态不影响就绪结论
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
	defer cancel()

	components := gin.H{}
	ready := true

	if h.mongo != nil {
		if err := h.mongo.Ping(ctx); err != nil {
			components["mongodb"] = "down"
			ready = false
		} else {
			components["mongodb"] = "up"
		}
	}
	if h.redis != nil {
		if err := h.redis.Ping(ctx); err != nil {
			components["redis"] = "down"
		} else {
			components["redis"] = "up"
		}
	}

	status := "ready"
	code := http.StatusOK
	if !ready {
		status = "not ready"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":     status,
		"components": components,
	})
}
