package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
)

var errAborted = errors.New("aborted")

// promptYesNoIO prints message and reads one line from in. Only "y" or
// "yes" (any case) confirm; an empty line or EOF declines.
func promptYesNoIO(in io.Reader, out io.Writer, message string) bool {
	if out != nil {
		fmt.Fprint(out, message)
	}

	text, err := readPromptLine(in)
	if err != nil && text == "" {
		return false
	}

	text = strings.TrimSpace(strings.ToLower(text))
	return text == "y" || text == "yes"
}

// readPromptLine reads until either LF or CR so Enter works in normal and raw terminal modes.
func readPromptLine(in io.Reader) (string, error) {
	if in == nil {
		return "", io.EOF
	}

	var buf []byte
	var one [1]byte

	for {
		n, err := in.Read(one[:])
		if n > 0 {
			switch one[0] {
			case '\n', '\r':
				return string(buf), nil
			default:
				buf = append(buf, one[0])
			}
		}

		if err != nil {
			if err == io.EOF && len(buf) > 0 {
				return string(buf), nil
			}
			return string(buf), err
		}
	}
}

// confirm asks a yes/no question, with a huh form on a terminal and a plain
// [y/N] line otherwise.
func confirm(app *App, out io.Writer, title string) (bool, error) {
	if !app.interactive() {
		return promptYesNoIO(app.input(), out, title+" [y/N]: "), nil
	}
	var ok bool
	err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().Title(title).Affirmative("Post").Negative("Cancel").Value(&ok),
	)).WithTheme(backlogHuhTheme()).WithShowHelp(false).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}

// promptAPIKey reads an API key for host. On a terminal the input is masked.
func promptAPIKey(app *App, out io.Writer, host string) (string, error) {
	if !app.interactive() {
		fmt.Fprintf(out, "API key for %s: ", host)
		key, err := readPromptLine(app.input())
		if err != nil && key == "" {
			return "", fmt.Errorf("reading API key: %w", err)
		}
		return strings.TrimSpace(key), nil
	}

	var key string
	err := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title(fmt.Sprintf("API key for %s", host)).
			Description("Personal settings → API in Backlog").
			EchoMode(huh.EchoModePassword).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("API key must not be empty")
				}
				return nil
			}).
			Value(&key),
	)).WithTheme(backlogHuhTheme()).WithShowHelp(false).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return "", errAborted
	}
	return strings.TrimSpace(key), err
}
