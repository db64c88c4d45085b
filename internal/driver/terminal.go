package driver

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/peterkuimelis/tftx/internal/game"
)

// TerminalPolicy lets a human play a seat: it draws the agent's state,
// lists the legal actions and reads a choice.
type TerminalPolicy struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminalPolicy reads choices from in and writes prompts to out.
func NewTerminalPolicy(in io.Reader, out io.Writer) *TerminalPolicy {
	return &TerminalPolicy{in: bufio.NewReader(in), out: out}
}

func (t *TerminalPolicy) ChooseAction(ctx context.Context, id game.AgentID, view game.PlayerView, mask []bool) (int, error) {
	t.renderView(id, view)
	space := game.NewActionSpace(len(view.Board), len(view.Bench), len(view.Shop))
	legal := legalCodes(mask)

	fmt.Fprintln(t.out, "\nActions:")
	for i, code := range legal {
		a, err := space.Decode(code)
		if err != nil {
			return 0, err
		}
		fmt.Fprintf(t.out, "  %d) %s\n", i+1, a)
	}

	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		fmt.Fprint(t.out, "> ")
		line, err := t.in.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "" && err != nil {
			return 0, fmt.Errorf("read choice: %w", err)
		}
		n, convErr := strconv.Atoi(line)
		if convErr != nil || n < 1 || n > len(legal) {
			fmt.Fprintf(t.out, "Enter a number between 1 and %d\n", len(legal))
			if err != nil {
				return 0, fmt.Errorf("read choice: %w", err)
			}
			continue
		}
		return legal[n-1], nil
	}
}

func (t *TerminalPolicy) renderView(id game.AgentID, v game.PlayerView) {
	fmt.Fprintln(t.out)
	fmt.Fprintln(t.out, "╔══════════════════════════════════════════════════════╗")
	fmt.Fprintf(t.out, "║  %s  HP: %d  Gold: %d  Power: %d\n", id, v.HP, v.Gold, v.Power)
	fmt.Fprintf(t.out, "║  Board: %s%s\n", formatSlots(v.Board), fullMark(v.BoardFull))
	fmt.Fprintf(t.out, "║  Bench: %s%s\n", formatSlots(v.Bench), fullMark(v.BenchFull))
	fmt.Fprintln(t.out, "║──────────────────────────────────────────────────────")
	fmt.Fprintf(t.out, "║  Shop:  %s\n", formatSlots(v.Shop))
	fmt.Fprintln(t.out, "╚══════════════════════════════════════════════════════╝")
}

func fullMark(full bool) string {
	if full {
		return "  (full)"
	}
	return ""
}

func formatSlots(slots []game.Slot) string {
	parts := make([]string, len(slots))
	for i, s := range slots {
		if c, ok := s.Get(); ok {
			parts[i] = fmt.Sprintf("[%s]", c)
		} else {
			parts[i] = "[ ]"
		}
	}
	return strings.Join(parts, " ")
}
