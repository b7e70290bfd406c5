// Command headless runs a Game Boy ROM with no video or audio output
// device at all: it puts the controlling terminal into raw mode with
// github.com/pkg/term and drives the emulation from keystrokes alone,
// printing nothing but a running frame counter. It exists to exercise
// the system shells' SetInputs/TickOne contract from a frontend that
// isn't SDL, and to give pkg/term (present in the dependency pack but,
// like the teacher's own debugger terminal, otherwise only reachable
// through the much heavier termios/easyterm wrapper) a second, simpler
// consumer.
//
// Because a raw terminal reports key presses but not key releases,
// held-button input (e.g. running Mario by holding B) cannot be
// modeled here: each keystroke is latched for exactly one emulated
// frame and then cleared. This is a frontend limitation, not a System
// one.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/pkg/term"

	"github.com/silicontrace/multicore/logger"
	"github.com/silicontrace/multicore/system/gb"
)

// framesPerSecond is the Game Boy's nominal refresh rate, used only to
// pace this frontend's polling loop; the System itself has no notion
// of wall-clock time.
const framesPerSecond = 59.7275

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "headless:", err)
		os.Exit(1)
	}
}

func run() error {
	romPath := flag.String("rom", "", "path to a Game Boy ROM image")
	flag.Parse()
	if *romPath == "" {
		return fmt.Errorf("-rom is required")
	}

	rom, err := os.ReadFile(*romPath)
	if err != nil {
		return fmt.Errorf("read rom: %w", err)
	}

	log := logger.NewLogger(256)
	sys, err := gb.NewSystem(rom, log)
	if err != nil {
		return fmt.Errorf("new system: %w", err)
	}

	tty, err := term.Open("/dev/tty", term.RawMode)
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	defer tty.Restore()
	defer tty.Close()

	// SIGINT still arrives in raw mode (it's a line-discipline feature
	// separate from the signal character) but the normal terminal echo
	// doesn't come back on unless we restore explicitly first.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)

	keys := make(chan byte, 8)
	go readKeys(tty, keys)

	ticker := time.NewTicker(time.Duration(float64(time.Second) / framesPerSecond))
	defer ticker.Stop()

	var frames uint64
	for {
		select {
		case <-sig:
			tty.Restore()
			fmt.Println("\nheadless: interrupted")
			return nil
		case k := <-keys:
			if k == 'q' {
				tty.Restore()
				fmt.Println("\nheadless: quit")
				return nil
			}
			sys.SetInputs(buttonsForKey(k))
		case <-ticker.C:
			for !sys.FrameComplete() {
				if err := sys.TickOne(); err != nil {
					tty.Restore()
					return fmt.Errorf("tick: %w", err)
				}
			}
			sys.SetInputs(0)
			frames++
			fmt.Printf("\rframe %d", frames)
		}
	}
}

// readKeys feeds raw bytes read from tty to keys until the read fails
// (e.g. the terminal was restored and closed by the main goroutine).
func readKeys(tty *term.Term, keys chan<- byte) {
	buf := make([]byte, 1)
	for {
		n, err := tty.Read(buf)
		if err != nil {
			return
		}
		if n > 0 {
			keys <- buf[0]
		}
	}
}

// buttonsForKey maps a single keystroke onto the directional/face button
// it represents; unmapped keys press nothing.
func buttonsForKey(k byte) gb.Buttons {
	switch k {
	case 'w':
		return gb.ButtonUp
	case 's':
		return gb.ButtonDown
	case 'a':
		return gb.ButtonLeft
	case 'd':
		return gb.ButtonRight
	case 'j':
		return gb.ButtonA
	case 'k':
		return gb.ButtonB
	case ' ':
		return gb.ButtonSelect
	case '\r', '\n':
		return gb.ButtonStart
	default:
		return 0
	}
}
