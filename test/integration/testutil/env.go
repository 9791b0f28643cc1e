package testutil

import (
	"os"
	"testing"
)

type TestEnv struct {
	MongoURI     string
	DatabaseName string
	ServerURL    string
}

// NewTestEnv reads the integration target from the environment. Tests
// skip when TEST_SERVER_URL is unset so the suite stays green without a
// running stack.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	serverURL := os.Getenv("TEST_SERVER_URL")
	if serverURL == "" {
		t.Skip("TEST_SERVER_URL not set, skipping integration tests")
	}

	return &TestEnv{
		MongoURI:     getEnv("TEST_MONGO_URI", "mongodb://localhost:27017"),
		DatabaseName: getEnv("TEST_DB_NAME", "otabridge"),
		ServerURL:    serverURL,
	}
}

func (e *TestEnv) Setup(t *testing.T) (*MongoHelper, *Client) {
	t.Helper()

	mongo := NewMongoHelper(t, e.MongoURI, e.DatabaseName)
	mongo.CleanDatabase(t)

	client := NewClient(e.ServerURL)
	client.WaitForHealthy(t, DefaultHealthCheckTimeout)

	return mongo, client
}

func (e *TestEnv) Cleanup(t *testing.T, mongo *MongoHelper) {
	t.Helper()

	if mongo != nil {
		mongo.CleanDatabase(t)
		mongo.Close(t)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
