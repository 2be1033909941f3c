package testing

import (
	"strings"
	"sync"
)

// NoticeCapture records server NOTICE messages. Thread-safe.
//
//	capture := NewNoticeCapture()
//	connector := Connector(t, connString, db.WithNoticeHandler(capture.Handler()))
type NoticeCapture struct {
	mu       sync.Mutex
	messages []string
}

func NewNoticeCapture() *NoticeCapture {
	return &NoticeCapture{}
}

// Handler returns a function suitable for db.WithNoticeHandler.
func (nc *NoticeCapture) Handler() func(message string) {
	return func(message string) {
		nc.mu.Lock()
		defer nc.mu.Unlock()
		nc.messages = append(nc.messages, message)
	}
}

// Messages returns a copy of all captured messages.
func (nc *NoticeCapture) Messages() []string {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	result := make([]string, len(nc.messages))
	copy(result, nc.messages)
	return result
}

// Contains reports whether any captured message contains substr.
func (nc *NoticeCapture) Contains(substr string) bool {
	for _, m := range nc.Messages() {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

func (nc *NoticeCapture) Reset() {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	nc.messages = nil
}
