package config

import "time"

const (
	ServiceBookings = "bookings"
	ServiceNotifier = "notifier"
	ServiceMigrate  = "mongo-migration"

	DefaultMongoURI          = "mongodb://localhost:27017/?replicaSet=rs0"
	DefaultMongoDatabaseName = "stayhub"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultJWTIssuer   = "stayhub-auth"
	MinJWTSecretLength = 32

	DefaultLockTTL         = 30 * time.Second
	DefaultLockWaitTimeout = 10 * time.Second

	NotificationTransportKafka   = "kafka"
	NotificationTransportInbox   = "inbox"
	DefaultNotificationTransport = NotificationTransportInbox
	DefaultNotificationTopic     = "stayhub.notifications"
	DefaultNotificationDLQTopic  = "stayhub.notifications.dlq"
	DefaultNotificationWorkers   = 4
	DefaultNotificationQueueSize = 1024

	DefaultPropertyCacheSize = 1000
	DefaultPropertyCacheTTL  = 5 * time.Minute

	DefaultPageSize        = 10
	DefaultPaginationLimit = 100
)
