package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

// HealthHandler reports on the optional backing services. A nil client is
// reported as disabled and does not fail readiness.
type HealthHandler struct {
	redisClient *redis.Client
	amqpConn    *amqp.Connection
}

func NewHealthHandler(redisClient *redis.Client, amqpConn *amqp.Connection) *HealthHandler {
	return &HealthHandler{redisClient: redisClient, amqpConn: amqpConn}
}

func (h *HealthHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HealthHandler) Readyz(c *gin.Context) {
	ctx := c.Request.Context()
	resp := gin.H{"status": "ok", "redis": "disabled", "rabbitmq": "disabled"}

	if h.redisClient != nil {
		if err := h.redisClient.Ping(ctx).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "redis": "unavailable"})
			return
		}
		resp["redis"] = "connected"
	}
	if h.amqpConn != nil {
		if h.amqpConn.IsClosed() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "rabbitmq": "unavailable"})
			return
		}
		resp["rabbitmq"] = "connected"
	}

	c.JSON(http.StatusOK, resp)
}
