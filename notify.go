package connectctl

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// NotificationKind classifies a notification request.
type NotificationKind int

const (
	// NoticeSuccess reports a completed user-initiated action
	NoticeSuccess NotificationKind = iota
	// NoticeError reports a failed user-initiated action or launch step
	NoticeError
)

// String returns a human-readable representation of the kind.
func (k NotificationKind) String() string {
	switch k {
	case NoticeSuccess:
		return "success"
	case NoticeError:
		return "error"
	default:
		return "unknown"
	}
}

// Notification is a transient user-facing message request. The core only
// emits these; scheduling dismissal is the presentation layer's job,
// guided by ExpiresAt.
type Notification struct {
	ID        string
	Kind      NotificationKind
	Message   string
	ExpiresAt time.Time
}

// Notifier is the notification request stream exposed to the presentation
// layer. Emission never blocks: when the buffer is full the oldest pending
// event is dropped in favor of the new one.
type Notifier struct {
	ttl time.Duration

	mu sync.Mutex
	ch chan Notification
}

// NotifierOption configures a Notifier
type NotifierOption func(*Notifier)

// WithNotificationTTL sets how far in the future ExpiresAt is stamped
func WithNotificationTTL(d time.Duration) NotifierOption {
	return func(n *Notifier) {
		n.ttl = d
	}
}

// WithNotificationBuffer sets the pending-event buffer size
func WithNotificationBuffer(size int) NotifierOption {
	return func(n *Notifier) {
		if size > 0 {
			n.ch = make(chan Notification, size)
		}
	}
}

// NewNotifier creates a Notifier with the default TTL and buffer.
func NewNotifier(opts ...NotifierOption) *Notifier {
	n := &Notifier{
		ttl: DefaultNotificationTTL,
		ch:  make(chan Notification, 16),
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

// Events returns the stream of pending notification requests.
func (n *Notifier) Events() <-chan Notification {
	return n.ch
}

// Success emits a success notification.
func (n *Notifier) Success(format string, args ...any) {
	n.emit(NoticeSuccess, fmt.Sprintf(format, args...))
}

// Error emits an error notification.
func (n *Notifier) Error(format string, args ...any) {
	n.emit(NoticeError, fmt.Sprintf(format, args...))
}

func (n *Notifier) emit(kind NotificationKind, message string) {
	event := Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		Message:   message,
		ExpiresAt: time.Now().Add(n.ttl),
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	for {
		select {
		case n.ch <- event:
			return
		default:
		}
		// Buffer full: drop the oldest pending event.
		select {
		case <-n.ch:
		default:
		}
	}
}

// notifySuccess and notifyError tolerate a nil Notifier so components can
// run without a notification sink (library usage, tests).
func notifySuccess(n *Notifier, format string, args ...any) {
	if n != nil {
		n.Success(format, args...)
	}
}

func notifyError(n *Notifier, format string, args ...any) {
	if n != nil {
		n.Error(format, args...)
	}
}
