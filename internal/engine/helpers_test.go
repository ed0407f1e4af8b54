package engine

import (
	"context"
	"sync"

	"github.com/Veraticus/inkwell/internal/model"
	"github.com/Veraticus/inkwell/internal/service"
	"github.com/Veraticus/inkwell/internal/storage"
)

// stubReader serves a fixed sample list, failing the first failures calls.
type stubReader struct {
	err      error
	samples  []model.RawSample
	failures int
	calls    int
	mu       sync.Mutex
}

func (s *stubReader) GetSamples(_ context.Context, _ service.SampleFilter) ([]model.RawSample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls <= s.failures {
		return nil, s.err
	}
	return s.samples, nil
}

// countingProgress records progress callbacks.
type countingProgress struct {
	description string
	total       int
	increments  int
	finished    bool
	mu          sync.Mutex
}

func (p *countingProgress) Start(total int, description string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = total
	p.description = description
}

func (p *countingProgress) Increment() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.increments++
}

func (p *countingProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.finished = true
}

// stubSnapshotter records automatic snapshot requests.
type stubSnapshotter struct {
	err        error
	operations []string
}

func (s *stubSnapshotter) Auto(_ context.Context, operation string) (*storage.SnapshotInfo, error) {
	s.operations = append(s.operations, operation)
	if s.err != nil {
		return nil, s.err
	}
	return &storage.SnapshotInfo{ID: "auto-" + operation, IsAuto: true}, nil
}
