// Package feedback carries user-facing alerts out of the client components.
package feedback

import (
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// Notifier shows a blocking alert to the operator.
type Notifier interface {
	Alert(message string)
}

// WriterNotifier prints alerts to w and records them at info level.
type WriterNotifier struct {
	w      io.Writer
	logger *logrus.Logger
}

func NewWriterNotifier(w io.Writer, logger *logrus.Logger) *WriterNotifier {
	return &WriterNotifier{w: w, logger: logger}
}

func (n *WriterNotifier) Alert(message string) {
	fmt.Fprintln(n.w, message)
	if n.logger != nil {
		n.logger.WithField("module", "feedback").Info(message)
	}
}

// Recorder keeps every alert. Safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	alerts []string
}

func (r *Recorder) Alert(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, message)
}

func (r *Recorder) Alerts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.alerts))
	copy(out, r.alerts)
	return out
}

// Last returns the most recent alert or "".
func (r *Recorder) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.alerts) == 0 {
		return ""
	}
	return r.alerts[len(r.alerts)-1]
}
