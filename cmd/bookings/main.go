package main

import (
	"context"

	bookinghandler "stayhub/internal/bookings/handler"
	bookingrepo "stayhub/internal/bookings/repository"
	bookingservice "stayhub/internal/bookings/service"
	bookingvalidator "stayhub/internal/bookings/validator"
	"stayhub/internal/identity"
	"stayhub/internal/locking"
	"stayhub/internal/notifications/dispatcher"
	notificationhandler "stayhub/internal/notifications/handler"
	notificationrepo "stayhub/internal/notifications/repository"
	notificationservice "stayhub/internal/notifications/service"
	propertycache "stayhub/internal/properties/cache"
	propertyhandler "stayhub/internal/properties/handler"
	propertyrepo "stayhub/internal/properties/repository"
	reviewhandler "stayhub/internal/reviews/handler"
	reviewservice "stayhub/internal/reviews/service"
	reviewvalidator "stayhub/internal/reviews/validator"
	userrepo "stayhub/internal/users/repository"
	"stayhub/pkg/app"
	"stayhub/pkg/config"
	"stayhub/pkg/contracts"
	mongodb "stayhub/pkg/db/mongo"
	"stayhub/pkg/kafka"
	kafka_config "stayhub/pkg/kafka/config"
	kafka_middleware "stayhub/pkg/kafka/middleware"
)

func main() {
	cfg := config.Load(config.ServiceBookings)
	cfg.SetMongo()
	cfg.SetMemcache()

	cfg.Log.Info("Starting Bookings service")
	serverApp := app.NewApplication(cfg)

	deliverer, stopTransport := initDeliverer(cfg)
	notifier := dispatcher.New(deliverer, cfg.NotificationWorkers, cfg.NotificationQueueSize, cfg.Log)
	serverApp.OnShutdown(stopTransport)
	serverApp.OnShutdown(notifier.Stop)

	var remote propertycache.RemoteStore
	if cfg.Client.Memcache != nil {
		remote = cfg.Client.Memcache
	}
	cache := propertycache.New(int64(cfg.PropertyCacheSize), cfg.PropertyCacheTTL, remote, cfg.Log)
	serverApp.OnShutdown(func(context.Context) { cache.Stop() })

	serverApp.SetApp(cfg.Client.Mongo, initHandlers(cfg, notifier, cache)...)
	serverApp.Run()
}

func initHandlers(cfg *config.Config, notifier contracts.Notifier, cache *propertycache.PropertyCache) []contracts.Handler {
	properties := propertyrepo.NewMongoPropertyRepository(cfg)
	users := userrepo.NewMongoUserRepository(cfg)
	bookings := bookingrepo.NewMongoBookingRepository(cfg)
	inbox := notificationrepo.NewMongoInboxRepository(cfg)
	tx := mongodb.NewTransactionManager(cfg.Client.Mongo)
	locker := locking.NewPropertyLocker(locking.NewMongoRepository(cfg), cfg.LockTTL, cfg.LockWaitTimeout, cfg.Log)
	resolver := identity.NewJWTResolver(cfg.JWTSecret, cfg.JWTIssuer)

	bookingService := bookingservice.NewBookingService(bookingservice.Dependencies{
		Bookings:   bookings,
		Properties: properties,
		Users:      users,
		Tx:         tx,
		Locker:     locker,
		Notifier:   notifier,
		Cache:      cache,
		Validator:  bookingvalidator.NewBookingValidator(cfg.Log),
		Log:        cfg.Log,
	})
	reviewService := reviewservice.NewReviewService(
		properties,
		users,
		tx,
		locker,
		notifier,
		cache,
		reviewvalidator.NewReviewValidator(),
		cfg.Log,
	)
	notificationService := notificationservice.NewNotificationService(inbox, cfg.Log)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)
	return []contracts.Handler{
		bookinghandler.NewBookingHandler(bookingService, resolver, cfg.Log),
		reviewhandler.NewReviewHandler(reviewService, resolver, cfg.Log),
		propertyhandler.NewPropertyHandler(propertycache.NewReadThrough(properties, cache), cfg.Log),
		notificationhandler.NewNotificationHandler(notificationService, resolver, cfg.Log),
	}
}

// initDeliverer picks the notification transport. The returned stop func
// releases it once the dispatcher has drained.
func initDeliverer(cfg *config.Config) (dispatcher.Deliverer, app.ShutdownHook) {
	if cfg.NotificationTransport == config.NotificationTransportInbox {
		cfg.Log.Info("Notifications delivered directly to inbox")
		return dispatcher.NewInboxDeliverer(notificationrepo.NewMongoInboxRepository(cfg)), func(context.Context) {}
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.NotificationTopic, cfg.NotificationDLQTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	metrics := kafka_middleware.NewMetrics()
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	producer.Use(metrics.ProducerMiddleware())

	cfg.Log.Info("Notifications published to Kafka", "topic", cfg.NotificationTopic)
	return dispatcher.NewKafkaDeliverer(producer, cfg.ServiceName), func(context.Context) {
		metrics.Log(cfg.Log)
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	}
}
