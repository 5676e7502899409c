package domain

import (
	"context"
	"time"
)

// RawMessage is an unprocessed message from the lookup request topic.
type RawMessage struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// EnrichedPropertyMessage is published to the sink topic for every accepted
// lookup request, found or not.
type EnrichedPropertyMessage struct {
	RequestID  string                `json:"request_id"`
	Request    PropertyLookupRequest `json:"request"`
	Profile    EnrichedProfile       `json:"profile"`
	Home       HomeFields            `json:"home"`
	EnrichedAt time.Time             `json:"enriched_at"`
}
