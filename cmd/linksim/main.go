// linksim runs both nodes of the control link in one process, joined by
// the loopback radio driver and driven by a scripted operator. It
// exercises the full stack end to end without any hardware attached.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/mkuiper/rclink/internal/input"
	"github.com/mkuiper/rclink/internal/observability"
	"github.com/mkuiper/rclink/internal/protocol"
	"github.com/mkuiper/rclink/internal/radio"
	"github.com/mkuiper/rclink/internal/receiver"
	"github.com/mkuiper/rclink/internal/settings"
	"github.com/mkuiper/rclink/internal/transmitter"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "linksim: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	hold := flag.Duration("hold", 2*time.Second, "how long the script holds each phase")
	flag.Parse()

	logger := observability.InitLogger("linksim")

	txEnd, rxEnd := radio.NewLoopbackPair()
	src := input.NewScriptSource()

	tx := transmitter.New(transmitter.Config{
		Source:  src,
		Store:   settings.NewMemStore(),
		Driver:  txEnd,
		Battery: fixedBattery(806),
		Logger:  logger.With().Str("node", "tx").Logger(),
	})

	rxLog := logger.With().Str("node", "rx").Logger()
	rx := receiver.New(receiver.Config{
		Driver: rxEnd,
		Outputs: receiver.Outputs{
			Steering:        &logActuator{log: rxLog, name: "steering"},
			Drive:           &logActuator{log: rxLog, name: "drive"},
			HeadLight:       &logOut{log: rxLog, name: "headlight"},
			TailLight:       &logOut{log: rxLog, name: "taillight"},
			InterferenceLED: &logOut{log: rxLog, name: "interference"},
			Horn:            &logSounder{log: rxLog},
		},
		Logger: rxLog,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{}, 2)
	go func() { _ = tx.Run(ctx); done <- struct{}{} }()
	go func() { _ = rx.Run(ctx); done <- struct{}{} }()

	script(logger, src, txEnd, *hold)

	cancel()
	<-done
	<-done

	snap := rx.Snapshot()
	logger.Info().Str("final_mode", snap.Mode).Msg("simulation complete")
	return nil
}

// script walks the link through its observable behaviors: mode entry,
// driving, accessories, interference and a link drop with recovery.
func script(log zerolog.Logger, src *input.ScriptSource, txEnd *radio.Loopback, hold time.Duration) {
	pace := func(name string) {
		log.Info().Str("phase", name).Msg("script phase")
		time.Sleep(hold)
	}

	// Let the startup animation pass, then confirm Easy from the menu.
	src.Press(input.BtnAck)
	time.Sleep(100 * time.Millisecond)
	src.Release(input.BtnAck)
	pace("boot")

	tap(src, input.BtnAck)
	pace("easy mode")

	src.SetAxis(input.AxisLeftX, 200)
	src.SetAxis(input.AxisRightY, 900)
	pace("steer left, drive forward")

	src.Press(input.BtnAux1)
	pace("brake override")
	src.Release(input.BtnAux1)

	src.Press(input.BtnRightStick)
	pace("honk")
	src.Release(input.BtnRightStick)

	tap(src, input.BtnLeftStick)
	pace("headlight toggle")

	src.SetAxis(input.AxisLeftX, protocol.AxisCenter)
	src.SetAxis(input.AxisRightY, protocol.AxisCenter)
	tap(src, input.BtnBack)
	pace("back to menu")

	// Black out the link long enough for the receiver to fall back,
	// then restore it and listen for the reconnect cue.
	txEnd.SetDrop(true)
	time.Sleep(3500 * time.Millisecond)
	pace("link blackout")
	txEnd.SetDrop(false)
	pace("link recovered")
}

func tap(src *input.ScriptSource, b input.Button) {
	src.Press(b)
	time.Sleep(50 * time.Millisecond)
	src.Release(b)
	time.Sleep(50 * time.Millisecond)
}

// fixedBattery stands in for the remote's battery sense channel.
type fixedBattery int

func (b fixedBattery) Read() (int, error) { return int(b), nil }

type logActuator struct {
	log  zerolog.Logger
	name string
	last int
	set  bool
}

func (a *logActuator) Write(pos int) {
	if a.set && pos == a.last {
		return
	}
	a.last, a.set = pos, true
	a.log.Info().Str("actuator", a.name).Int("pos", pos).Msg("actuator write")
}

type logOut struct {
	log  zerolog.Logger
	name string
	last bool
	set  bool
}

func (o *logOut) Set(on bool) {
	if o.set && on == o.last {
		return
	}
	o.last, o.set = on, true
	o.log.Info().Str("output", o.name).Bool("on", on).Msg("output set")
}

type logSounder struct {
	log  zerolog.Logger
	last int
}

// Tone logs frequency changes only; a held horn re-triggers the same
// tone every loop pass.
func (s *logSounder) Tone(hz int, d time.Duration) {
	if hz == s.last {
		return
	}
	s.last = hz
	s.log.Info().Int("hz", hz).Dur("duration", d).Msg("tone")
}
