package kafka_config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, " broker-1:9092 , ,broker-2:9092")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.Brokers)
	assert.Equal(t, DefaultProducerCompression, cfg.ProducerCompression)
	assert.Equal(t, int64(DefaultConsumerStartOffset), cfg.ConsumerStartOffset)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv(EnvKafkaProducerCompression, "brotli")
	t.Setenv(EnvKafkaConsumerHeartbeatInterval, "20s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ProducerCompression")
	assert.Contains(t, err.Error(), "shorter than ConsumerSessionTimeout")
}

func TestValidate_NonPositiveDurations(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	cfg.ConsumerMaxWait = 0
	cfg.ConsumerMinBytes = -1
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ConsumerMaxWait")
	assert.Contains(t, err.Error(), "ConsumerMinBytes")
}
