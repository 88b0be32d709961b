// Package queue defines message payloads exchanged over the message broker
// and the consumer that drains them.
package queue

import "time"

// Queue names, one per broker-delivered channel.
const (
	EmailQueue = "notification.email"
	SMSQueue   = "notification.sms"
)

// NotificationEvent is published for every email or SMS notice.  It carries
// everything a provider integration needs so consumers never have to call
// back into the booking service.
type NotificationEvent struct {
	Channel        string    `json:"channel"`
	UserID         string    `json:"user_id,omitempty"`
	Email          string    `json:"email,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	Subject        string    `json:"subject,omitempty"`
	Message        string    `json:"message"`
	AttachmentName string    `json:"attachment_name,omitempty"`
	Attachment     []byte    `json:"attachment,omitempty"`
	QueuedAt       time.Time `json:"queued_at"`
}

// Recipient returns the address the notice is meant for on its channel.
func (e NotificationEvent) Recipient() string {
	switch e.Channel {
	case "email":
		return e.Email
	case "sms":
		return e.Phone
	}
	return e.UserID
}
