package display

import "strings"

// Capture records presented frames so tests can assert on what the
// operator would have seen.
type Capture struct {
	current []string
	Frames  [][]string
}

func NewCapture() *Capture { return &Capture{} }

func (c *Capture) Clear() { c.current = c.current[:0] }

func (c *Capture) Text(x, y int, s string) { c.current = append(c.current, s) }

func (c *Capture) HLine(y int) {}

func (c *Capture) Present() {
	frame := make([]string, len(c.current))
	copy(frame, c.current)
	c.Frames = append(c.Frames, frame)
	c.current = c.current[:0]
}

// LastFrame returns the most recently presented frame, empty if none.
func (c *Capture) LastFrame() []string {
	if len(c.Frames) == 0 {
		return nil
	}
	return c.Frames[len(c.Frames)-1]
}

// LastContains reports whether any text on the last frame contains s.
func (c *Capture) LastContains(s string) bool {
	for _, line := range c.LastFrame() {
		if strings.Contains(line, s) {
			return true
		}
	}
	return false
}
