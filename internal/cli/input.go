package cli

import (
	"context"
	"errors"
	"io"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

// ReadAll reads r to EOF in the background so that a blocked read from a
// terminal can be abandoned when ctx is canceled.
func ReadAll(ctx context.Context, r io.Reader) ([]byte, error) {
	type result struct {
		err  error
		data []byte
	}
	resultCh := make(chan result, 1)

	go func() {
		data, err := io.ReadAll(r)
		resultCh <- result{data: data, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ErrInputCancelled
	case res := <-resultCh:
		return res.data, res.err
	}
}
