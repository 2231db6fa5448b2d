// Package console is the terminal front end of a duel: colored, optionally
// typewriter-paced output and line-based prompts.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cory-johannsen/duel/internal/game/battle"
	"github.com/cory-johannsen/duel/internal/game/combat"
)

// ErrQuit is returned by prompts when the user asks to stop.
var ErrQuit = errors.New("quit requested")

// Options configures a Presenter.
type Options struct {
	// Interactive enables the action menu and the continuation prompt.
	Interactive bool
	// Color enables ANSI styling.
	Color bool
	// RevealDelay is the pause after each printed character; 0 prints whole lines.
	RevealDelay time.Duration
}

// Presenter implements battle.Presenter on a line-oriented terminal.
type Presenter struct {
	in      *bufio.Reader
	out     io.Writer
	opts    Options
	palette Palette
	sleep   func(time.Duration)
}

var _ battle.Presenter = (*Presenter)(nil)

// NewPresenter creates a Presenter reading answers from in and writing to out.
//
// Precondition: in and out must be non-nil.
func NewPresenter(in io.Reader, out io.Writer, opts Options) *Presenter {
	return &Presenter{
		in:      bufio.NewReader(in),
		out:     out,
		opts:    opts,
		palette: Palette{Enabled: opts.Color},
		sleep:   time.Sleep,
	}
}

// Palette returns the styling used by p.
func (p *Presenter) Palette() Palette { return p.palette }

// Reveal prints text followed by a newline, one character at a time when a
// reveal delay is configured. Escape sequences are written whole.
func (p *Presenter) Reveal(text string) {
	if p.opts.RevealDelay <= 0 {
		fmt.Fprintln(p.out, text)
		return
	}
	for i := 0; i < len(text); {
		if n := escapeLen(text[i:]); n > 0 {
			_, _ = io.WriteString(p.out, text[i:i+n])
			i += n
			continue
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		_, _ = io.WriteString(p.out, text[i:i+size])
		i += size
		p.sleep(p.opts.RevealDelay)
	}
	_, _ = io.WriteString(p.out, "\n")
}

// ReportTurn prints one resolved action.
func (p *Presenter) ReportTurn(ev battle.TurnEvent) { p.Reveal(RenderTurn(p.palette, ev)) }

// ReportOutcome prints the final banner.
func (p *Presenter) ReportOutcome(outcome battle.Outcome, turns int) {
	p.Reveal(RenderOutcome(p.palette, outcome, turns))
}

// Narrate prints hook or narrator text.
func (p *Presenter) Narrate(text string) {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		p.Reveal(p.palette.Colorize(Italic+Magenta, line))
	}
}

// ChooseAction returns ActionAttack in non-interactive mode. Otherwise it shows
// a numbered menu and reads a choice by number or name, re-prompting on invalid
// input. "q" or "quit" returns ErrQuit; end of input returns io.ErrUnexpectedEOF.
func (p *Presenter) ChooseAction(player combat.Combatant, options []battle.Action) (battle.Action, error) {
	if !p.opts.Interactive {
		return battle.ActionAttack, nil
	}
	for {
		fmt.Fprintf(p.out, "%s, choose your action (LP %d):\n", DisplayName(player.Entity().Name), player.Entity().LifePoints)
		_, _ = io.WriteString(p.out, RenderMenu(p.palette, options))

		line, err := p.readLine()
		if err != nil {
			return battle.ActionUnknown, err
		}
		if a, ok := parseChoice(line, options); ok {
			return a, nil
		}
		fmt.Fprintln(p.out, p.palette.Colorf(Yellow, "Unknown choice %q.", line))
	}
}

func parseChoice(line string, options []battle.Action) (battle.Action, bool) {
	if n, err := strconv.Atoi(line); err == nil {
		if n >= 1 && n <= len(options) {
			return options[n-1], true
		}
		return battle.ActionUnknown, false
	}
	for _, a := range options {
		if strings.EqualFold(line, a.String()) {
			return a, true
		}
	}
	return battle.ActionUnknown, false
}

// AwaitContinue waits for Enter in interactive mode and returns at once otherwise.
func (p *Presenter) AwaitContinue() error {
	if !p.opts.Interactive {
		return nil
	}
	_, _ = io.WriteString(p.out, p.palette.Colorize(Dim, "Press Enter to continue (q to quit)..."))
	_, err := p.readLine()
	return err
}

func (p *Presenter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		if errors.Is(err, io.EOF) {
			return "", io.ErrUnexpectedEOF
		}
		return "", fmt.Errorf("reading input: %w", err)
	}
	line = strings.TrimSpace(line)
	switch strings.ToLower(line) {
	case "q", "quit":
		return "", ErrQuit
	}
	return line, nil
}
