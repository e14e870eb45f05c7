package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minesafe/rockfall/internal/domain/valueobject"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 9090, cfg.GRPCPort)
	assert.Equal(t, ":8080", cfg.HTTPAddr())
	assert.Equal(t, ":9090", cfg.GRPCAddr())
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "rockfall.events", cfg.Kafka.Topic)
	assert.Equal(t, "@every 5m", cfg.Monitor.Schedule)
	assert.Equal(t, "weighted", cfg.Monitor.RiskModel)
	assert.True(t, cfg.Monitor.AutoAlert)
	assert.Empty(t, cfg.CatalogPath)
	assert.Equal(t, time.Minute, cfg.Monitor.Timeout)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.False(t, cfg.TLS.Enabled())
	require.NoError(t, cfg.Validate())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("HTTP_PORT", "8181")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,,")
	t.Setenv("MONITOR_SCHEDULE", "")
	t.Setenv("RISK_MODEL", "selection")
	t.Setenv("AUTO_ALERT", "false")
	t.Setenv("SIMULATOR_SEED", "42")
	t.Setenv("ALERT_RECIPIENT_SMS", "+44-20-0000")
	t.Setenv("RATE_LIMIT", "not-a-number")
	t.Setenv("SESSION_TTL", "5m")
	t.Setenv("MONITOR_TIMEOUT", "soon")

	cfg := Load()

	assert.Equal(t, 8181, cfg.HTTPPort)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Empty(t, cfg.Monitor.Schedule)
	assert.Equal(t, "selection", cfg.Monitor.RiskModel)
	assert.False(t, cfg.Monitor.AutoAlert)
	assert.Equal(t, uint32(42), cfg.Monitor.SimulatorSeed)
	assert.Equal(t, 100, cfg.RateLimit)
	assert.Equal(t, 5*time.Minute, cfg.SessionTTL)
	assert.Equal(t, time.Minute, cfg.Monitor.Timeout)

	r, ok := cfg.Recipients.Recipient(valueobject.AlertChannelSMS)
	assert.True(t, ok)
	assert.Equal(t, "+44-20-0000", r)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{name: "unknown risk model", mutate: func(c *Config) { c.Monitor.RiskModel = "neural" }, wantErr: "RISK_MODEL"},
		{name: "zero rate limit", mutate: func(c *Config) { c.RateLimit = 0 }, wantErr: "RATE_LIMIT"},
		{name: "tls key without cert", mutate: func(c *Config) { c.TLS.KeyFile = "server-key.pem" }, wantErr: "TLS_CERT_FILE"},
		{name: "zero sweep timeout", mutate: func(c *Config) { c.Monitor.Timeout = 0 }, wantErr: "MONITOR_TIMEOUT"},
		{name: "default secret in production", mutate: func(c *Config) { c.Environment = "production" }, wantErr: "JWT_SECRET"},
		{
			name: "custom secret in production",
			mutate: func(c *Config) {
				c.Environment = "production"
				c.JWTSecret = "s3cr3t"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRecipients_Recipient(t *testing.T) {
	r := Recipients{"email": "ops@example.com", "push": "  "}

	got, ok := r.Recipient(valueobject.AlertChannelEmail)
	assert.True(t, ok)
	assert.Equal(t, "ops@example.com", got)

	_, ok = r.Recipient(valueobject.AlertChannelPush)
	assert.False(t, ok)

	_, ok = r.Recipient(valueobject.AlertChannelCall)
	assert.False(t, ok)
}
