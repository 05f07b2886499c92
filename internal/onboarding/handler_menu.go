package onboarding

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// HandlerMenu toggles specialist handlers by number.
type HandlerMenu struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func NewHandlerMenu(scanner *bufio.Scanner, out io.Writer) *HandlerMenu {
	return &HandlerMenu{scanner: scanner, out: out}
}

// Run shows the menu until the user picks 0, enters nothing or input ends,
// and returns the edited toggles.
func (m *HandlerMenu) Run(settings []HandlerToggle) []HandlerToggle {
	settings = append([]HandlerToggle(nil), settings...)
	for {
		fmt.Fprintln(m.out, "\nHandlers:")
		fmt.Fprintln(m.out, strings.Repeat("-", 30))
		for i, s := range settings {
			status := "✅ [ON] "
			if !s.Enabled {
				status = "❌ [OFF]"
			}
			fmt.Fprintf(m.out, "%2d) %s %s\n", i+1, status, s.ID)
		}
		fmt.Fprintln(m.out, " 0) Finish")
		fmt.Fprint(m.out, "\nSelect a number to toggle (or 0 to finish): ")

		if !m.scanner.Scan() {
			return settings
		}
		input := strings.TrimSpace(m.scanner.Text())
		if input == "0" || input == "" {
			return settings
		}

		idx, err := strconv.Atoi(input)
		if err != nil || idx < 1 || idx > len(settings) {
			fmt.Fprintln(m.out, "⚠️  Invalid selection. Please try again.")
			continue
		}
		settings[idx-1].Enabled = !settings[idx-1].Enabled
	}
}
