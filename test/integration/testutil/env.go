package testutil

import (
	"fmt"
	"os"
	"testing"
	"time"

	"stayhub/internal/identity"
	"stayhub/pkg/client"
	"stayhub/pkg/config"
)

const DefaultHealthCheckTimeout = 30 * time.Second

type TestEnv struct {
	MongoURI     string
	DatabaseName string
	ServerURL    string
	JWTSecret    string
	JWTIssuer    string
}

func NewTestEnv() *TestEnv {
	serverPort := getEnv("TEST_SERVER_PORT", config.DefaultPort)
	return &TestEnv{
		MongoURI:     getEnv("TEST_MONGO_URI", config.DefaultMongoURI),
		DatabaseName: getEnv("TEST_DB_NAME", config.DefaultMongoDatabaseName),
		ServerURL:    getEnv("TEST_SERVER_URL", fmt.Sprintf("http://localhost:%s", serverPort)),
		JWTSecret:    os.Getenv(config.EnvJWTSecret),
		JWTIssuer:    getEnv(config.EnvJWTIssuer, config.DefaultJWTIssuer),
	}
}

// Setup connects to the service's database, empties it and waits for the
// service to report healthy.
func (e *TestEnv) Setup(t *testing.T) *MongoHelper {
	t.Helper()

	if len(e.JWTSecret) < config.MinJWTSecretLength {
		t.Skipf("%s must match the running service", config.EnvJWTSecret)
	}

	mongo := NewMongoHelper(t, e.MongoURI, e.DatabaseName)
	mongo.CleanDatabase(t)

	if err := client.NewBookingClient(e.ServerURL, "").WaitForHealthy(DefaultHealthCheckTimeout); err != nil {
		t.Fatalf("service not healthy: %v", err)
	}

	t.Cleanup(func() {
		mongo.CleanDatabase(t)
		mongo.Close(t)
	})
	return mongo
}

// ClientFor returns a client authenticated as userID.
func (e *TestEnv) ClientFor(t *testing.T, userID, username string) *client.BookingClient {
	t.Helper()
	token, err := identity.NewJWTResolver(e.JWTSecret, e.JWTIssuer).IssueToken(userID, username, time.Hour)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return client.NewBookingClient(e.ServerURL, token)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
