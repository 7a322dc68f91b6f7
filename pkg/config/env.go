package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvJWTSecret = "JWT_SECRET"
	EnvJWTIssuer = "JWT_ISSUER"

	EnvLockTTL         = "LOCK_TTL"
	EnvLockWaitTimeout = "LOCK_WAIT_TIMEOUT"

	EnvNotificationTransport = "NOTIFICATION_TRANSPORT"
	EnvNotificationTopic     = "NOTIFICATION_TOPIC"
	EnvNotificationDLQTopic  = "NOTIFICATION_DLQ_TOPIC"
	EnvNotificationWorkers   = "NOTIFICATION_WORKERS"
	EnvNotificationQueueSize = "NOTIFICATION_QUEUE_SIZE"

	EnvPropertyCacheSize = "PROPERTY_CACHE_SIZE"
	EnvPropertyCacheTTL  = "PROPERTY_CACHE_TTL"
	EnvMemcachedHosts    = "MEMCACHED_HOSTS"
)
