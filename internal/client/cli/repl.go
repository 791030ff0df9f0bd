package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strings"
)

// Root runs the interactive loop on stdin until EOF, "exit" or "quit".
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to neatly CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader), a.out)
}

func (a *App) getStatus(ctx context.Context) string {
	s, err := a.authService.Current(ctx)
	if err != nil || s.User.Email == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", s.User.Email)
}

type execIface interface {
	exec(ctx context.Context, cmd string, args []string) error
}

// runREPL reads one command per line and dispatches it. Command errors are
// logged and the loop carries on.
func runREPL(ctx context.Context, a execIface, statusFn func(context.Context) string, scanner *bufio.Scanner, w io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(w, "neatly %s> ", statusFn(ctx))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		default:
			if err := a.exec(ctx, parts[0], parts[1:]); err != nil {
				log.Printf("error: %v", err)
			}
		}
	}
}
