// Package display is the narrow surface the transmitter draws its menus
// through. Rendering hardware is out of scope; anything that can put text
// and lines on a frame and present it qualifies.
package display

// Width and Height describe the 128x64 OLED the layouts were designed for.
const (
	Width  = 128
	Height = 64
)

type Display interface {
	Clear()
	Text(x, y int, s string)
	HLine(y int)
	Present()
}

// Null is a Display that draws nothing, for headless receivers and
// benches without a screen.
type Null struct{}

func (Null) Clear()                  {}
func (Null) Text(x, y int, s string) {}
func (Null) HLine(y int)             {}
func (Null) Present()                {}
