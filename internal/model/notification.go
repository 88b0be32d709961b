package model

import "time"

// Channel names a notification delivery channel.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelInApp Channel = "in_app"
)

// NotificationPayload carries one logical notice.  Recipient fields are
// optional and only the one matching the channel is meaningful.
type NotificationPayload struct {
	UserID         string
	Email          string
	Phone          string
	Message        string
	Subject        string
	AttachmentName string
	Attachment     []byte
}

// NotificationRecord is an entry of the in-app inbox.
type NotificationRecord struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"ts"`
}
