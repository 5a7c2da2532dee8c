package models

import "time"

// MessageType classifies an inter-agent message.
type MessageType string

const (
	// MessageTypeRequest asks the receiver to do something.
	MessageTypeRequest MessageType = "request"
	// MessageTypeResponse answers an earlier request.
	MessageTypeResponse MessageType = "response"
	// MessageTypeStatusUpdate reports progress without asking for anything.
	MessageTypeStatusUpdate MessageType = "status_update"
	// MessageTypeError reports a failure to the receiver.
	MessageTypeError MessageType = "error"
	// MessageTypeApproval grants an approval request.
	MessageTypeApproval MessageType = "approval"
	// MessageTypeRejection denies an approval request.
	MessageTypeRejection MessageType = "rejection"
)

// Valid returns true if the type is a known value.
func (m MessageType) Valid() bool {
	switch m {
	case MessageTypeRequest, MessageTypeResponse, MessageTypeStatusUpdate,
		MessageTypeError, MessageTypeApproval, MessageTypeRejection:
		return true
	default:
		return false
	}
}

// Message is the typed envelope agents exchange. Delivery is push-only:
// a sender appends the message to its own outbox and the caller is
// responsible for handing it to the receiver's inbox. The engine does no
// routing and no request/response correlation; callers that need
// correlation use the message ID or metadata.
type Message struct {
	// ID is the unique identifier for this message.
	ID string `json:"id"`
	// Sender is the ID of the agent that produced the message.
	Sender string `json:"sender"`
	// Receiver is the ID of the intended recipient. It is not validated
	// against any registry.
	Receiver string `json:"receiver"`
	// Type classifies the message.
	Type MessageType `json:"type"`
	// Content is the opaque message body.
	Content map[string]any `json:"content,omitempty"`
	// Metadata carries optional routing or correlation hints.
	Metadata map[string]string `json:"metadata,omitempty"`
	// Timestamp is when the message was created.
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates a message stamped with the current time.
func NewMessage(sender, receiver string, typ MessageType, content map[string]any) *Message {
	return &Message{
		ID:        NewID(),
		Sender:    sender,
		Receiver:  receiver,
		Type:      typ,
		Content:   content,
		Timestamp: time.Now(),
	}
}
