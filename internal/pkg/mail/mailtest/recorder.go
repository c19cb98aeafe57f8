// Package mailtest provides an in-memory mail.Sender for tests.
package mailtest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/soldertec/site/internal/pkg/apperr"
	"github.com/soldertec/site/internal/pkg/mail"
)

// Recorder stores every message it is asked to send.
type Recorder struct {
	mu   sync.Mutex
	sent []mail.Message
	// FailFor makes Send fail for messages addressed to these recipients.
	FailFor map[string]bool
	// FailTags makes Send fail for messages carrying these tags.
	FailTags map[string]bool
}

func New() *Recorder {
	return &Recorder{FailFor: map[string]bool{}, FailTags: map[string]bool{}}
}

func (r *Recorder) Send(_ context.Context, msg mail.Message) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, to := range msg.To {
		if r.FailFor[strings.ToLower(to)] {
			return "", apperr.EmailDispatch("send", fmt.Errorf("recipient %s rejected", to))
		}
	}
	if r.FailTags[msg.Tag] {
		return "", apperr.EmailDispatch("send", fmt.Errorf("tag %s rejected", msg.Tag))
	}
	r.sent = append(r.sent, msg)
	return fmt.Sprintf("msg-%d", len(r.sent)), nil
}

// Sent returns a copy of the delivered messages.
func (r *Recorder) Sent() []mail.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]mail.Message(nil), r.sent...)
}

// Last returns the most recent message, or false when nothing was sent.
func (r *Recorder) Last() (mail.Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sent) == 0 {
		return mail.Message{}, false
	}
	return r.sent[len(r.sent)-1], true
}

// ByTag returns the delivered messages with tag.
func (r *Recorder) ByTag(tag string) []mail.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []mail.Message
	for _, m := range r.sent {
		if m.Tag == tag {
			out = append(out, m)
		}
	}
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = nil
}
