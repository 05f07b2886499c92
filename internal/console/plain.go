package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// RunPlain reads one utterance per line from in until EOF, /exit or ctx is
// done.
func RunPlain(ctx context.Context, s Session, in io.Reader, out io.Writer, opts Options) error {
	fmt.Fprintln(out, "Vehicle assistant. Type /help for commands, /exit to quit.")

	loc := opts.Location
	scanner := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		cmd := parseCommand(input)
		switch cmd.kind {
		case cmdExit:
			return nil
		case cmdState:
			fmt.Fprintln(out, FormatState(s.VehicleState()))
			continue
		case cmdWhere:
			next, err := parseLocation(cmd.arg)
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				continue
			}
			loc = next
			fmt.Fprintln(out, describeLocation(loc))
			continue
		case cmdClear:
			continue
		case cmdHelp:
			fmt.Fprintln(out, helpText)
			continue
		case cmdUnknown:
			fmt.Fprintf(out, "unknown command %s, try /help\n", cmd.arg)
			continue
		}

		resp := s.Turn(ctx, opts.userID(), input, loc)
		fmt.Fprintf(out, "[%s] %s\n", speaker(resp.AgentID), resp.Content)
	}
}
