package queue

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestWriteDeliveryLine(t *testing.T) {
	t.Parallel()

	body, _ := json.Marshal(NotificationEvent{
		Channel:        "email",
		Email:          "ada@example.com",
		Subject:        "Your BookSphere Tickets",
		Message:        "Your tickets for RockWave Live 2026 are attached.",
		AttachmentName: "ROCKWAVE.pdf",
		Attachment:     []byte("%PDF-1.3"),
		QueuedAt:       time.Date(2026, 2, 18, 12, 0, 0, 0, time.UTC),
	})

	var sb strings.Builder
	if err := writeDeliveryLine(&sb, body); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	line := sb.String()
	for _, want := range []string{
		"[2026-02-18T12:00:00Z]",
		"channel=email",
		`to="ada@example.com"`,
		"attachment=ROCKWAVE.pdf (8 bytes)",
	} {
		if !strings.Contains(line, want) {
			t.Fatalf("line %q missing %q", line, want)
		}
	}
}

func TestWriteDeliveryLine_Rejects(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	if err := writeDeliveryLine(&sb, []byte("not json")); err == nil {
		t.Fatalf("expected unmarshal error")
	}
	if err := writeDeliveryLine(&sb, []byte(`{"message":"x"}`)); err == nil {
		t.Fatalf("expected error for missing channel")
	}
	if sb.Len() != 0 {
		t.Fatalf("nothing should be written for rejected messages")
	}
}

func TestConsumer_HandleAppends(t *testing.T) {
	t.Parallel()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	path := filepath.Join(t.TempDir(), "nested", "notifications.log")
	c := NewConsumer("", path, logger)

	for _, ch := range []string{"sms", "email"} {
		body, _ := json.Marshal(NotificationEvent{Channel: ch, Phone: "+15550100", Message: "hi"})
		if err := c.handle(body); err != nil {
			t.Fatalf("handle %s: %v", ch, err)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if n := strings.Count(string(data), "\n"); n != 2 {
		t.Fatalf("expected 2 lines, got %d: %s", n, data)
	}
}

func TestRecipient(t *testing.T) {
	t.Parallel()

	ev := NotificationEvent{UserID: "u", Email: "e", Phone: "p"}
	for ch, want := range map[string]string{"email": "e", "sms": "p", "in_app": "u"} {
		ev.Channel = ch
		if got := ev.Recipient(); got != want {
			t.Fatalf("%s: expected %s, got %s", ch, want, got)
		}
	}
}
