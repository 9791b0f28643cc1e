package kafka

import "time"

// Message is the transport-neutral event the bridge publishes after a
// reservation is reconciled.
type Message struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}
