package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// printlnFn and printFn are test seams for user-facing output.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

// isTerminal is a test seam; the prompt is only shown to a human.
var isTerminal = term.IsTerminal

// execIface is the command surface the REPL drives. App satisfies it;
// tests provide a lightweight stub.
type execIface interface {
	Show(ctx context.Context) error
	Edit(ctx context.Context) error
	Set(ctx context.Context, field, value string) error
	SetGender(ctx context.Context, value string) error
	Capture(ctx context.Context) error
	Status(ctx context.Context) error
	Save(ctx context.Context) error
	Cancel(ctx context.Context) error
	Abandon(ctx context.Context) error
}

const helpText = `Available commands:
  show                  show the profile and photo
  edit                  edit every field (empty input keeps the value)
  set <field> <value>   set one field: name, email, phone, class, major, gender
  gender <male|female>  choose gender
  capture               take a new photo
  status                show the photo session state
  save                  save the profile and the new photo, then leave
  cancel                drop the new photo and unsaved edits, then leave
  exit | quit           leave without saving`

// runREPL reads commands line by line and dispatches them to a.
//
// The loop ends after a successful save or cancel. On exit, quit or EOF the
// session is abandoned, which discards any staged photo. Handler errors are
// reported and the loop carries on.
func runREPL(ctx context.Context, a execIface, promptFn func() string, reader *bufio.Reader) {
	interactive := isTerminal(int(os.Stdin.Fd()))

	report := func(err error) {
		if err != nil {
			printlnFn("Error:", err)
		}
	}

	for {
		if interactive {
			printFn(promptFn())
		}

		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			report(a.Abandon(ctx))
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn(helpText)

		case "show":
			report(a.Show(ctx))

		case "edit":
			report(a.Edit(ctx))

		case "set":
			if len(args) == 0 {
				printlnFn("Usage: set <field> <value>")
				continue
			}
			report(a.Set(ctx, args[0], strings.Join(args[1:], " ")))

		case "gender":
			if len(args) != 1 {
				printlnFn("Usage: gender <male|female>")
				continue
			}
			report(a.SetGender(ctx, args[0]))

		case "capture":
			report(a.Capture(ctx))

		case "status":
			report(a.Status(ctx))

		case "save":
			if err := a.Save(ctx); err != nil {
				report(err)
				continue
			}
			return

		case "cancel":
			if err := a.Cancel(ctx); err != nil {
				report(err)
				continue
			}
			return

		case "exit", "quit":
			report(a.Abandon(ctx))
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
