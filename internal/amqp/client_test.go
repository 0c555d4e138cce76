package amqp

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"kakeibo/internal/ledger"
)

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},
		{10, 30 * time.Second},
		{64, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tt.attempt), func(t *testing.T) {
			if got := exponentialBackoff(tt.attempt); got != tt.expected {
				t.Errorf("exponentialBackoff(%d) = %v, want %v", tt.attempt, got, tt.expected)
			}
		})
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"connection refused", errors.New("dial tcp: connection refused"), true},
		{"closed connection", errors.New("connection closed"), true},
		{"EOF", errors.New("unexpected EOF"), true},
		{"broken pipe", errors.New("write: broken pipe"), true},
		{"closed network connection", errors.New("use of closed network connection"), true},
		{"amqp closed", fmt.Errorf("publish: %w", amqp091.ErrClosed), true},
		{"other error", errors.New("some other error"), false},
		{"validation error", errors.New("invalid input"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isConnectionError(tt.err); got != tt.expected {
				t.Errorf("isConnectionError(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestNewLedgerChangedMessage(t *testing.T) {
	change := ledger.Change{Op: ledger.OpAppend, Revision: 7, Count: 12}
	msg := NewLedgerChangedMessage(change)

	if msg.ID == "" {
		t.Fatal("expected a message id")
	}
	if msg.Change() != change {
		t.Fatalf("Change() = %+v, want %+v", msg.Change(), change)
	}
	if time.Since(msg.Timestamp) > time.Minute {
		t.Fatalf("timestamp not set: %v", msg.Timestamp)
	}

	other := NewLedgerChangedMessage(change)
	if other.ID == msg.ID {
		t.Fatal("message ids should be unique")
	}
}

func TestLedgerChangedMessage_JSON(t *testing.T) {
	original := NewLedgerChangedMessage(ledger.Change{Op: ledger.OpReplace, Revision: 3, Count: 0})

	data, err := original.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	decoded, err := LedgerChangedMessageFromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if decoded.ID != original.ID || decoded.Op != original.Op || decoded.Revision != original.Revision {
		t.Fatalf("decoded %+v, want %+v", decoded, original)
	}
	if !decoded.Timestamp.Equal(original.Timestamp) {
		t.Fatalf("timestamp changed: %v vs %v", decoded.Timestamp, original.Timestamp)
	}
}

func TestLedgerChangedMessage_InvalidJSON(t *testing.T) {
	if _, err := LedgerChangedMessageFromJSON([]byte("{not json")); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

type fakeDelivery struct {
	acks    int
	nacks   int
	requeue bool
}

func (d *fakeDelivery) Ack(bool) error { d.acks++; return nil }

func (d *fakeDelivery) Nack(_, requeue bool) error {
	d.nacks++
	d.requeue = d.requeue || requeue
	return nil
}

func TestHandleDelivery(t *testing.T) {
	valid, err := NewLedgerChangedMessage(ledger.Change{Op: ledger.OpAppend, Revision: 1, Count: 1}).ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	tests := []struct {
		name       string
		body       []byte
		handlerErr error
		wantAcks   int
		wantNacks  int
	}{
		{"handled", valid, nil, 1, 0},
		{"handler fails", valid, errors.New("sheets unavailable"), 0, 1},
		{"undecodable", []byte("{"), nil, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &fakeDelivery{}
			calls := 0
			handleDelivery(context.Background(), d, tt.body, func(context.Context, *LedgerChangedMessage) error {
				calls++
				return tt.handlerErr
			})

			if d.acks != tt.wantAcks || d.nacks != tt.wantNacks {
				t.Fatalf("acks=%d nacks=%d, want %d/%d", d.acks, d.nacks, tt.wantAcks, tt.wantNacks)
			}
			if d.requeue {
				t.Fatal("failed messages must not be requeued")
			}
			if tt.name == "undecodable" && calls != 0 {
				t.Fatal("handler called for an undecodable message")
			}
		})
	}
}
