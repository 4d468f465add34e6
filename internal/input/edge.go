package input

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/mkuiper/rclink/internal/clock"
)

// DebounceSettle is how long contacts are given to stop bouncing after an
// observed level change.
const DebounceSettle = 2 * time.Millisecond

// EdgeDetector turns held button levels into one-shot press events. Each
// button's previous level starts at released, so a button held across
// boot still produces its first edge.
type EdgeDetector struct {
	src  Source
	clk  clock.Clock
	log  zerolog.Logger
	last [buttonCount]bool
}

func NewEdgeDetector(src Source, clk clock.Clock, log zerolog.Logger) *EdgeDetector {
	return &EdgeDetector{src: src, clk: clk, log: log}
}

// Detect returns true exactly once per released→pressed transition of b,
// false while held, released, or on any sampling problem. After a level
// change is registered the debounce settle elapses before returning; the
// loop is single-threaded so nothing else runs during the settle.
func (e *EdgeDetector) Detect(b Button) bool {
	if b < 0 || b >= buttonCount {
		e.log.Error().Stringer("button", b).Msg("edge detect on unknown button")
		return false
	}

	level, err := e.src.Level(b)
	if err != nil {
		e.log.Error().Err(err).Stringer("button", b).Msg("button sample failed")
		return false
	}

	if level == e.last[b] {
		return false
	}
	e.last[b] = level
	e.clk.Sleep(DebounceSettle)
	return level
}
