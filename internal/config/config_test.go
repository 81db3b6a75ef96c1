package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "MYSQL_USER", "MYSQL_PASSWORD", "MYSQL_HOST", "MYSQL_PORT", "MYSQL_DATABASE",
		"REDIS_HOST", "REDIS_PORT", "RABBITMQ_URL", "RABBITMQ_EXCHANGE",
		"NOTIFICATION_TIMEOUT", "PAYMENT_MAX_DELAY", "PRODUCT_CACHE_TTL", "IDEMPOTENCY_TTL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("NOTIFICATION_URL", "http://notify.local/orders")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "orders.exchange", cfg.RabbitMQExchange)
	assert.Equal(t, time.Second, cfg.PaymentMaxDelay)
	assert.Equal(t, 5*time.Minute, cfg.ProductCacheTTL)
	assert.Equal(t, "root:@tcp(localhost:3306)/orders?charset=utf8mb4&parseTime=True&loc=Local", cfg.MySQL.DSN())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("NOTIFICATION_URL", "http://notify.local/orders")
	t.Setenv("PORT", "9090")
	t.Setenv("PAYMENT_MAX_DELAY", "250")
	t.Setenv("NOTIFICATION_TIMEOUT", "1.5s")
	t.Setenv("REDIS_HOST", "cache")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.PaymentMaxDelay)
	assert.Equal(t, 1500*time.Millisecond, cfg.NotificationTimeout)
	assert.Equal(t, "cache:6379", cfg.RedisAddr)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	t.Run("missing notification url", func(t *testing.T) {
		t.Setenv("NOTIFICATION_URL", "")
		_, err := Load()
		assert.ErrorContains(t, err, "NOTIFICATION_URL")
	})

	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("NOTIFICATION_URL", "http://notify.local/orders")
		t.Setenv("PRODUCT_CACHE_TTL", "soon")
		_, err := Load()
		assert.ErrorContains(t, err, "PRODUCT_CACHE_TTL")
	})
}
