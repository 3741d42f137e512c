package internal

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(newViper())
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, uint16(3000), cfg.Port)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "read_committed", cfg.Store.Isolation)
	assert.Equal(t, 7*24*time.Hour, cfg.Orders.DueAfter)
	assert.Equal(t, uint64(2), cfg.Checkout.MaxRetries)
	assert.Equal(t, 50*time.Millisecond, cfg.Checkout.RetryBase)
	assert.Equal(t, "log", cfg.Events.Backend)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Events.KafkaBrokers)
	assert.Equal(t, "", cfg.Email.Provider, "order emails are off by default")
	assert.Equal(t, 1025, cfg.Email.Port)
	assert.False(t, cfg.Sentry.Enabled)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/orders.db")
	t.Setenv("TX_ISOLATION", "serializable")
	t.Setenv("ORDER_DUE_DAYS", "14")
	t.Setenv("EVENTS_BACKEND", "kafka")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("DISPATCH_WORKERS", "0")

	cfg, err := loadConfig(newViper())
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "/tmp/orders.db", cfg.Store.SQLitePath)
	assert.Equal(t, "serializable", cfg.Store.Isolation)
	assert.Equal(t, 14*24*time.Hour, cfg.Orders.DueAfter)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Events.KafkaBrokers)
	assert.Equal(t, 1, cfg.Events.Workers, "workers are clamped to at least one")
}

func TestLoadConfig_Fallbacks(t *testing.T) {
	t.Setenv("ENV", "staging")
	t.Setenv("LOG_LEVEL", "verbose")
	t.Setenv("TX_ISOLATION", "chaos")
	t.Setenv("DATABASE_URL", "postgres://prod")

	cfg, err := loadConfig(newViper())
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "read_committed", cfg.Store.Isolation)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "unknown store driver",
			env:  map[string]string{"STORE_DRIVER": "mysql"},
			want: "STORE_DRIVER",
		},
		{
			name: "prod without database url",
			env:  map[string]string{"ENV": "prod"},
			want: "DATABASE_URL",
		},
		{
			name: "non-positive due days",
			env:  map[string]string{"ORDER_DUE_DAYS": "0"},
			want: "ORDER_DUE_DAYS",
		},
		{
			name: "unknown events backend",
			env:  map[string]string{"EVENTS_BACKEND": "carrier-pigeon"},
			want: "EVENTS_BACKEND",
		},
		{
			name: "postmark without token",
			env:  map[string]string{"EMAIL_PROVIDER": "postmark"},
			want: "POSTMARK_API_TOKEN",
		},
		{
			name: "unknown email provider",
			env:  map[string]string{"EMAIL_PROVIDER": "fax"},
			want: "EMAIL_PROVIDER",
		},
		{
			name: "sentry enabled without dsn",
			env:  map[string]string{"SENTRY_ENABLED": "true"},
			want: "SENTRY_DSN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := loadConfig(newViper())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	NewLogger(&buf, "prod", "info").Info("order created", "order_id", "abc")
	assert.True(t, strings.HasPrefix(buf.String(), "{"), "prod logger writes JSON")
	assert.Contains(t, buf.String(), `"order_id":"abc"`)

	buf.Reset()
	NewLogger(&buf, "dev", "warn").Info("hidden")
	assert.Empty(t, buf.String(), "info is below warn")

	NewLogger(&buf, "dev", "debug").Debug("shown", "k", "v")
	assert.Contains(t, buf.String(), "k=v")
}
