// Package notify is the best-effort, ephemeral user-facing status channel.
// One message is emitted per failure/success event; there is no queue, no
// history, and delivery is never guaranteed.
package notify

import (
	"context"
	"sync"

	"github.com/jkalnina/docshelf/internal/logging"
)

// Sink receives one short human-readable message per event.
type Sink interface {
	Notify(ctx context.Context, ownerID, message string)
}

// LogSink writes notifications to the structured logger. This is the default
// sink; a real UI collaborator would replace it.
type LogSink struct {
	logger logging.Logger
}

func NewLogSink(l logging.Logger) *LogSink {
	return &LogSink{logger: l.With("module", "notify")}
}

func (s *LogSink) Notify(ctx context.Context, ownerID, message string) {
	s.logger.Info(ctx, message, "owner", ownerID)
}

// RecordingSink captures notifications for assertions in tests.
type RecordingSink struct {
	mu       sync.Mutex
	messages []string
}

func NewRecordingSink() *RecordingSink {
	return &RecordingSink{}
}

func (s *RecordingSink) Notify(ctx context.Context, ownerID, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, message)
}

// Messages returns a copy of everything notified so far.
func (s *RecordingSink) Messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.messages))
	copy(out, s.messages)
	return out
}
