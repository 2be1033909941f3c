package testing

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoticeCapture(t *testing.T) {
	capture := NewNoticeCapture()
	handler := capture.Handler()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			handler(`relation "ghost" does not exist, skipping`)
		}()
	}
	wg.Wait()

	assert.Len(t, capture.Messages(), 10)
	assert.True(t, capture.Contains("skipping"))
	assert.False(t, capture.Contains("created"))

	capture.Reset()
	assert.Empty(t, capture.Messages())
}
