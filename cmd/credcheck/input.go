package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Test seams for the terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

var errNoInput = errors.New("no password given on stdin")

func terminalFd(in io.Reader) (int, bool) {
	f, ok := in.(*os.File)
	if !ok {
		return 0, false
	}
	fd := int(f.Fd()) //nolint:gosec // file descriptors fit in int
	return fd, isTerminal(fd)
}

// readSecret prompts without echo on a terminal, otherwise it takes the first
// line of in.
func readSecret(in io.Reader, prompt io.Writer) (string, error) {
	if fd, ok := terminalFd(in); ok {
		fmt.Fprint(prompt, "Password: ")
		pw, err := readPassword(fd)
		fmt.Fprintln(prompt)
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}

	sc := bufio.NewScanner(in)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", err
		}
		return "", errNoInput
	}
	return strings.TrimSuffix(sc.Text(), "\r"), nil
}

// eachCandidate calls fn once for a terminal prompt, or once per line of a
// piped stdin.
func eachCandidate(in io.Reader, prompt io.Writer, fn func(string) error) error {
	if _, ok := terminalFd(in); ok {
		pw, err := readSecret(in, prompt)
		if err != nil {
			return err
		}
		return fn(pw)
	}

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if err := fn(strings.TrimSuffix(sc.Text(), "\r")); err != nil {
			return err
		}
	}
	return sc.Err()
}
