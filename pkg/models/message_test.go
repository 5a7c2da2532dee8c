package models

import "testing"

func TestMessageType_Valid(t *testing.T) {
	tests := []struct {
		name string
		typ  MessageType
		want bool
	}{
		{"request is valid", MessageTypeRequest, true},
		{"response is valid", MessageTypeResponse, true},
		{"status_update is valid", MessageTypeStatusUpdate, true},
		{"error is valid", MessageTypeError, true},
		{"approval is valid", MessageTypeApproval, true},
		{"rejection is valid", MessageTypeRejection, true},
		{"empty string is invalid", MessageType(""), false},
		{"unknown type is invalid", MessageType("broadcast"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.Valid(); got != tt.want {
				t.Errorf("MessageType(%q).Valid() = %v, want %v", tt.typ, got, tt.want)
			}
		})
	}
}

func TestNewMessage(t *testing.T) {
	msg := NewMessage("researcher", "conductor", MessageTypeStatusUpdate, map[string]any{"progress": 0.5})

	if len(msg.ID) != 8 {
		t.Errorf("message ID length = %d, want 8", len(msg.ID))
	}
	if msg.Sender != "researcher" {
		t.Errorf("Sender = %q, want %q", msg.Sender, "researcher")
	}
	if msg.Receiver != "conductor" {
		t.Errorf("Receiver = %q, want %q", msg.Receiver, "conductor")
	}
	if msg.Type != MessageTypeStatusUpdate {
		t.Errorf("Type = %q, want %q", msg.Type, MessageTypeStatusUpdate)
	}
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp should be stamped at creation")
	}
	if msg.Content["progress"] != 0.5 {
		t.Errorf("Content[progress] = %v, want 0.5", msg.Content["progress"])
	}
}
