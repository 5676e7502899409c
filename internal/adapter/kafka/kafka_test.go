package kafka

import (
	"encoding/json"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/home-data-enrichment/internal/domain"
)

func TestMapMessageToRawMessage(t *testing.T) {
	now := time.Now()
	msg := kafkago.Message{
		Key:       []byte("key-1"),
		Value:     []byte(`{"address":"123 Test St"}`),
		Topic:     "property-lookup-requests",
		Partition: 2,
		Offset:    42,
		Time:      now,
		Headers: []kafkago.Header{
			{Key: "origin", Value: []byte("onboarding")},
		},
	}

	raw := mapMessageToRawMessage(msg)

	assert.Equal(t, []byte("key-1"), raw.Key)
	assert.JSONEq(t, `{"address":"123 Test St"}`, string(raw.Value))
	assert.Equal(t, "property-lookup-requests", raw.Topic)
	assert.Equal(t, 2, raw.Partition)
	assert.Equal(t, int64(42), raw.Offset)
	assert.Equal(t, now, raw.Timestamp)
	assert.Equal(t, "onboarding", raw.Headers["origin"])
	assert.Nil(t, raw.Commit, "commit is attached by the reader")
}

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	msg := domain.EnrichedPropertyMessage{
		RequestID: "req-1",
		Request:   domain.PropertyLookupRequest{RequestID: "req-1", Address: "123 Test St"},
		Profile: domain.EnrichedProfile{
			Found:     true,
			Sources:   []string{"census_geocoder"},
			Latitude:  domain.Ptr(37.78),
			Longitude: domain.Ptr(-122.41),
		},
		EnrichedAt: now,
	}

	out, err := serializeToMessage(msg)
	require.NoError(t, err)

	assert.Equal(t, []byte("req-1"), out.Key)
	require.Len(t, out.Headers, 2)
	assert.Equal(t, "found", out.Headers[0].Key)
	assert.Equal(t, []byte("true"), out.Headers[0].Value)
	assert.Equal(t, "enriched_at", out.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), out.Headers[1].Value)

	var decoded domain.EnrichedPropertyMessage
	require.NoError(t, json.Unmarshal(out.Value, &decoded))
	assert.Equal(t, []string{"census_geocoder"}, decoded.Profile.Sources)
	assert.Equal(t, "123 Test St", decoded.Request.Address)
}
