package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"

	"github.com/mb3rlab/pilotdesk/internal/application"
)

// Test seams for user-facing output.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

// dispatcher is the part of application.SessionController the REPL drives.
type dispatcher interface {
	Dispatch(ctx context.Context, cmd application.Command) application.View
}

// RunAdmin starts the admin REPL on in. Each command is dispatched to the
// session controller and the resulting view is printed. The loop ends on EOF,
// "quit" or "exit", or when ctx is canceled.
//
//	login     read the password and load the table
//	          (without echo on a terminal, else the next input line)
//	refresh   reload with the stored password
//	reset     forget the stored password and lock the table
//	help      list commands
//	quit      leave
func RunAdmin(ctx context.Context, d dispatcher, lang language.Tag, in io.Reader) {
	scanner := bufio.NewScanner(in)
	runREPL(ctx, d, lang, scanner, passwordSource(in, scanner))
}

func runREPL(ctx context.Context, d dispatcher, lang language.Tag, scanner *bufio.Scanner, password func() (string, error)) {
	show := func(cmd application.Command) {
		printlnFn(renderView(lang, d.Dispatch(ctx, cmd)))
	}

	show(application.StartSession{})

	for ctx.Err() == nil {
		printFn("pilotctl> ")
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "help":
			printlnFn("Available commands: login, refresh, reset, help, quit")

		case "login":
			secret, err := password()
			if err != nil {
				printlnFn("Error:", err)
				continue
			}
			show(application.SubmitCredential{Credential: secret})

		case "refresh", "r":
			show(application.Refresh{})

		case "reset", "logout":
			show(application.ResetCredential{})

		case "quit", "exit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", parts[0])
		}
	}
}
