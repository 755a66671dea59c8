package main

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// SubmittedEvent is published for the admin review side whenever a request
// reaches the core API successfully.
type SubmittedEvent struct {
	ResidentID      string `json:"residentId"`
	RequestID       string `json:"requestId"`
	ClientReference string `json:"clientReference"`
	DocumentType    string `json:"documentType"`
	SubmittedAt     string `json:"submittedAt"`
}

type EventPublisher interface {
	PublishSubmitted(event SubmittedEvent)
	Close()
}

type NatsPublisher struct {
	conn    *nats.Conn
	subject string
}

func NewNatsPublisher(url, subject string) (*NatsPublisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}
	slog.Info("Connected to NATS", "url", url, "subject", subject)
	return &NatsPublisher{conn: conn, subject: subject}, nil
}

// PublishSubmitted is fire-and-forget: a broker hiccup must never fail a
// submission that the core API already accepted.
func (p *NatsPublisher) PublishSubmitted(event SubmittedEvent) {
	if event.SubmittedAt == "" {
		event.SubmittedAt = time.Now().UTC().Format(time.RFC3339)
	}
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Error("Failed to marshal submitted event", "error", err)
		return
	}
	if err := p.conn.Publish(p.subject, payload); err != nil {
		slog.Warn("Failed to publish submitted event", "subject", p.subject, "error", err)
		return
	}
	slog.Debug("Published submitted event", "subject", p.subject, "request_id", event.RequestID)
}

func (p *NatsPublisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}
