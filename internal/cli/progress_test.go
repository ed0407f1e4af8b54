package cli

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/inkwell/internal/engine"
)

var _ engine.ProgressReporter = (*ProgressBar)(nil)

func TestProgressBar_ConcurrentIncrements(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressBar(&buf)

	p.Start(50, "Cross-validating")

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 10 {
				p.Increment()
			}
		}()
	}
	wg.Wait()
	p.Finish()

	assert.Contains(t, buf.String(), "50/50")
}

func TestProgressBar_IncrementBeforeStart(t *testing.T) {
	p := NewProgressBar(&bytes.Buffer{})
	assert.NotPanics(t, func() {
		p.Increment()
		p.Finish()
	})
}
