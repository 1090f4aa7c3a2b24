package leads

import (
	"encoding/json"
	"time"
)

// EventType labels the CRM events the worker consumes.
type EventType string

const (
	EventLeadCreated EventType = "lead_created"
	EventDealUpdated EventType = "deal_updated"
)

// Envelope is the stable payload structure published on the CRM topic.
type Envelope struct {
	Version    int             `json:"version"`
	EventID    string          `json:"eventId"`
	EventType  EventType       `json:"eventType"`
	OccurredAt time.Time       `json:"occurredAt"`
	Data       json.RawMessage `json:"data"`
}

// LeadCreatedPayload carries the new lead and the visitor tracking id the
// capture script attached to the form submission.
type LeadCreatedPayload struct {
	LeadID     string `json:"leadId"`
	TrackingID string `json:"trackingId"`
}

// DealUpdatedPayload carries a deal stage/status transition.
type DealUpdatedPayload struct {
	DealID string `json:"dealId"`
	Status string `json:"status"`
	Stage  string `json:"stage"`
}
