package mail

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/soldertec/site/internal/pkg/apperr"
)

// DevSender writes each message as an HTML file plus JSON metadata instead
// of sending it. The id is the shared file stem.
type DevSender struct {
	dir string
	now func() time.Time
}

func NewDevSender(dir string) *DevSender {
	return &DevSender{dir: dir, now: time.Now}
}

type devMetadata struct {
	ID        string   `json:"id"`
	Timestamp string   `json:"timestamp"`
	To        []string `json:"to"`
	ReplyTo   string   `json:"reply_to,omitempty"`
	Subject   string   `json:"subject"`
	Tag       string   `json:"tag,omitempty"`
}

func (d *DevSender) Send(ctx context.Context, msg Message) (string, error) {
	if err := validate(msg); err != nil {
		return "", err
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return "", apperr.EmailDispatch("dev send", fmt.Errorf("create directory: %w", err))
	}

	now := d.now()
	identifier := msg.Tag
	if identifier == "" {
		identifier = msg.Subject
	}
	stem := fmt.Sprintf("%s_%s_%s", now.Format("2006_01_02_150405"), sanitizeFilename(identifier), uuid.NewString()[:8])

	if err := os.WriteFile(filepath.Join(d.dir, stem+".html"), []byte(msg.HTML), 0o644); err != nil {
		return "", apperr.EmailDispatch("dev send", fmt.Errorf("write html: %w", err))
	}
	meta, err := json.MarshalIndent(devMetadata{
		ID:        stem,
		Timestamp: now.Format(time.RFC3339),
		To:        msg.To,
		ReplyTo:   msg.ReplyTo,
		Subject:   msg.Subject,
		Tag:       msg.Tag,
	}, "", "  ")
	if err != nil {
		return "", apperr.EmailDispatch("dev send", err)
	}
	if err := os.WriteFile(filepath.Join(d.dir, stem+".json"), meta, 0o644); err != nil {
		return "", apperr.EmailDispatch("dev send", fmt.Errorf("write metadata: %w", err))
	}
	return stem, nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = unsafeFilenameChars.ReplaceAllString(s, "")
	if len(s) > 60 {
		s = s[:60]
	}
	if s == "" {
		s = "email"
	}
	return strings.ToLower(s)
}
