package config

import (
	"io"
	"strings"
	"testing"
	"time"

	"stayhub/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig(service string) *Config {
	return &Config{
		ServiceName:           service,
		MongoURI:              DefaultMongoURI,
		MongoDatabaseName:     DefaultMongoDatabaseName,
		MongoConnTimeout:      DefaultMongoConnTimeout,
		Port:                  DefaultPort,
		RateLimitRequests:     DefaultRateLimitRequests,
		RateLimitWindow:       DefaultRateLimitWindow,
		RequestTimeout:        DefaultRequestTimeout,
		IdempotencyTTL:        DefaultIdempotencyTTL,
		MaxRequestSize:        DefaultMaxRequestSize,
		ReadTimeout:           DefaultReadTimeout,
		WriteTimeout:          DefaultWriteTimeout,
		IdleTimeout:           DefaultIdleTimeout,
		ShutdownTimeout:       DefaultShutdownTimeout,
		JWTSecret:             strings.Repeat("s", MinJWTSecretLength),
		JWTIssuer:             DefaultJWTIssuer,
		LockTTL:               DefaultLockTTL,
		LockWaitTimeout:       DefaultLockWaitTimeout,
		NotificationTransport: DefaultNotificationTransport,
		NotificationTopic:     DefaultNotificationTopic,
		NotificationWorkers:   DefaultNotificationWorkers,
		NotificationQueueSize: DefaultNotificationQueueSize,
		PropertyCacheSize:     DefaultPropertyCacheSize,
		PropertyCacheTTL:      DefaultPropertyCacheTTL,
		Log:                   logger.New(logger.Config{Output: io.Discard}),
	}
}

func TestValidate_Defaults(t *testing.T) {
	assert.NoError(t, validConfig(ServiceBookings).Validate())
}

func TestValidate_CollectsEveryProblem(t *testing.T) {
	cfg := validConfig(ServiceBookings)
	cfg.Port = "70000"
	cfg.MongoURI = "postgres://db"
	cfg.JWTSecret = "short"
	cfg.NotificationTransport = "pigeon"

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"Port", "MongoURI", "JWTSecret", "NotificationTransport"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestValidate_JWTSecretOnlyForBookings(t *testing.T) {
	for _, service := range []string{ServiceNotifier, ServiceMigrate} {
		cfg := validConfig(service)
		cfg.JWTSecret = ""
		assert.NoError(t, cfg.Validate(), service)
	}
}

func TestValidate_LockWaitBoundedByRequestTimeout(t *testing.T) {
	cfg := validConfig(ServiceBookings)
	cfg.LockWaitTimeout = cfg.RequestTimeout + time.Second
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LockWaitTimeout")
}

func TestRedactMongoURI(t *testing.T) {
	assert.Equal(t, "mongodb://***:***@db:27017", redactMongoURI("mongodb://admin:hunter2@db:27017"))
	assert.Equal(t, "mongodb://db:27017", redactMongoURI("mongodb://db:27017"))
}

func TestGetEnvList(t *testing.T) {
	t.Setenv(EnvMemcachedHosts, " a:11211, ,b:11211 ")
	assert.Equal(t, []string{"a:11211", "b:11211"}, getEnvList(EnvMemcachedHosts))
}

func TestNormalizePagination(t *testing.T) {
	assert.Equal(t, DefaultPageSize, NormalizePaginationLimit(0))
	assert.Equal(t, DefaultPaginationLimit, NormalizePaginationLimit(5000))
	assert.Equal(t, int64(0), NormalizeOffset(-3))
}
