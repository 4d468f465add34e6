package input

import (
	"sync"

	"github.com/mkuiper/rclink/internal/protocol"
)

// ScriptSource is a Source backed by settable state, used by tests and
// the link simulator. Safe for a writer goroutine driving a sampling
// loop.
type ScriptSource struct {
	mu      sync.Mutex
	buttons map[Button]bool
	axes    map[Axis]int
	err     error
}

func NewScriptSource() *ScriptSource {
	return &ScriptSource{
		buttons: make(map[Button]bool),
		axes:    make(map[Axis]int),
	}
}

func (s *ScriptSource) Level(b Button) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	return s.buttons[b], nil
}

func (s *ScriptSource) Read(a Axis) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	if v, ok := s.axes[a]; ok {
		return v, nil
	}
	return protocol.AxisCenter, nil
}

func (s *ScriptSource) Press(b Button) {
	s.mu.Lock()
	s.buttons[b] = true
	s.mu.Unlock()
}

func (s *ScriptSource) Release(b Button) {
	s.mu.Lock()
	s.buttons[b] = false
	s.mu.Unlock()
}

func (s *ScriptSource) SetAxis(a Axis, v int) {
	s.mu.Lock()
	s.axes[a] = v
	s.mu.Unlock()
}

func (s *ScriptSource) Fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}
