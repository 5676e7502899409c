package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// ParseLookupMessage decodes and validates a property lookup request from the
// request topic. A request without an ID takes the message key, or failing
// that a hash of its normalized address, so redelivered messages keep a
// stable ID.
func ParseLookupMessage(raw RawMessage) (PropertyLookupRequest, error) {
	var req PropertyLookupRequest
	if err := json.Unmarshal(raw.Value, &req); err != nil {
		return PropertyLookupRequest{}, fmt.Errorf("parse lookup message: %w", err)
	}
	if err := req.Validate(); err != nil {
		return PropertyLookupRequest{}, err
	}

	req.RequestID = strings.TrimSpace(req.RequestID)
	if req.RequestID == "" {
		req.RequestID = strings.TrimSpace(string(raw.Key))
	}
	if req.RequestID == "" || len(req.RequestID) > 64 {
		req.RequestID = generateRequestID(req)
	}
	return req, nil
}

// NewEnrichedPropertyMessage pairs a request with its enrichment result and
// the home fields mapped from it.
func NewEnrichedPropertyMessage(req PropertyLookupRequest, profile EnrichedProfile) EnrichedPropertyMessage {
	return EnrichedPropertyMessage{
		RequestID:  req.RequestID,
		Request:    req,
		Profile:    profile,
		Home:       MapToHomeSchema(profile),
		EnrichedAt: clock.Now().UTC(),
	}
}

// generateRequestID returns the first 16 hex characters of the SHA-256 of the
// normalized property key.
func generateRequestID(req PropertyLookupRequest) string {
	key := NormalizeAddress(req.Address, req.City, req.State, req.Zip).PropertyKey()
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:8])
}
