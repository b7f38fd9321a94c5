package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Test seams for the terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// passwordSource returns how the REPL reads the admin password. On a
// terminal the password is read without echo; any other input supplies it
// as the next line.
func passwordSource(in io.Reader, scanner *bufio.Scanner) func() (string, error) {
	if f, ok := in.(*os.File); ok && isTerminal(int(f.Fd())) {
		return func() (string, error) {
			printFn("Password: ")
			pw, err := readPassword(int(f.Fd()))
			printlnFn()
			if err != nil {
				return "", fmt.Errorf("read password: %w", err)
			}
			return string(pw), nil
		}
	}

	return func() (string, error) {
		printFn("Password: ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", fmt.Errorf("read password: %w", err)
			}
			return "", fmt.Errorf("read password: %w", io.ErrUnexpectedEOF)
		}
		return scanner.Text(), nil
	}
}
