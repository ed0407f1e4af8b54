package align

import (
	"fmt"

	"github.com/Veraticus/inkwell/internal/common"
)

// Mode selects the alignment algorithm.
type Mode string

const (
	// ModeDTW is exact dynamic time warping. It is the default.
	ModeDTW Mode = "dtw"

	// ModeGreedy is the cursor-based approximation.
	ModeGreedy Mode = "greedy"
)

// ParseMode validates a textual mode. The empty string means ModeDTW.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeDTW:
		return ModeDTW, nil
	case ModeGreedy:
		return ModeGreedy, nil
	default:
		return "", fmt.Errorf("%w: unknown alignment mode %q (want dtw or greedy)", common.ErrInvalidConfig, s)
	}
}

// Options configures an alignment call. A nil *Options means ModeDTW with
// diagnostics discarded.
type Options struct {
	Diagnostics *common.Diagnostics
	Mode        Mode
}
