package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "otabridge"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB
	DefaultRequestTimeout = 30 * time.Second

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Rooms without a capacity attribute count as two beds, matching the
	// property system's historical default.
	DefaultDefaultRoomCapacity = 2

	DefaultKafkaTopic = "reservation-events"
	DefaultTokenTTL   = 24 * time.Hour
)
