package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"stayhub/internal/notifications/consumer"
	notificationrepo "stayhub/internal/notifications/repository"
	"stayhub/pkg/config"
	"stayhub/pkg/kafka"
	kafka_config "stayhub/pkg/kafka/config"
	kafka_middleware "stayhub/pkg/kafka/middleware"
)

const ConsumerGroup = "notifier"

func main() {
	cfg := config.Load(config.ServiceNotifier)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	inbox := notificationrepo.NewMongoInboxRepository(cfg)
	c, err := kafka.NewConsumer(
		kafkaCfg,
		cfg.NotificationTopic,
		ConsumerGroup,
		cfg.NotificationDLQTopic,
		consumer.NewInboxWriter(inbox, cfg.Log),
		cfg.Log,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}

	metrics := kafka_middleware.NewMetrics()
	c.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))
	c.Use(metrics.ConsumerMiddleware())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Starting notifier", "topic", cfg.NotificationTopic, "group", ConsumerGroup)
	if err := c.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Notifier stopped unexpectedly", "error", err)
	}

	cfg.Log.Info("Shutting down notifier")
	if err := c.Close(); err != nil {
		cfg.Log.Error("Failed to close Kafka consumer", "error", err)
	}
	metrics.Log(cfg.Log)
}
