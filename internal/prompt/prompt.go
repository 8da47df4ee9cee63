// Package prompt asks the user yes/no questions without tying callers to a
// particular terminal toolkit.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

// ErrNoAnswer is returned when the input ends before an answer was read.
var ErrNoAnswer = errors.New("no answer")

// Request describes a confirmation question.
type Request struct {
	Title       string
	Description string
	Affirmative string
	Negative    string
}

func (r Request) labels() (string, string) {
	yes, no := r.Affirmative, r.Negative
	if yes == "" {
		yes = "Yes"
	}
	if no == "" {
		no = "No"
	}
	return yes, no
}

// Confirmer answers a Request.
type Confirmer interface {
	Confirm(ctx context.Context, req Request) (bool, error)
}

// Fixed always gives the same answer, for --yes and tests.
type Fixed bool

func (f Fixed) Confirm(context.Context, Request) (bool, error) {
	return bool(f), nil
}

// Line reads a y/n answer from a line-based reader.
type Line struct {
	In  io.Reader
	Out io.Writer
}

func (l Line) Confirm(ctx context.Context, req Request) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fmt.Fprint(l.Out, req.Title)
	if req.Description != "" {
		fmt.Fprintf(l.Out, " (%s)", req.Description)
	}
	fmt.Fprint(l.Out, " [y/N]: ")

	reader := bufio.NewReader(l.In)
	answer, err := reader.ReadString('\n')
	if err != nil && (err != io.EOF || answer == "") {
		if err == io.EOF {
			return false, ErrNoAnswer
		}
		return false, fmt.Errorf("read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Form asks with a huh confirm field. It falls back to accessible mode when
// stdin is not a terminal.
type Form struct {
	Theme *huh.Theme
}

func (f Form) Confirm(ctx context.Context, req Request) (bool, error) {
	yes, no := req.labels()
	answer := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(req.Title).
				Description(req.Description).
				Affirmative(yes).
				Negative(no).
				Value(&answer),
		),
	)
	if f.Theme != nil {
		form = form.WithTheme(f.Theme)
	}
	if !IsTerminal() {
		form = form.WithAccessible(true)
	}
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return answer, nil
}

// IsTerminal reports whether stdin is an interactive terminal.
func IsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// For picks the Confirmer for a command: Fixed(true) when the user passed
// --yes, a huh form on a terminal and a line reader otherwise.
func For(assumeYes bool, in io.Reader, out io.Writer) Confirmer {
	if assumeYes {
		return Fixed(true)
	}
	if in == os.Stdin && IsTerminal() {
		return Form{Theme: huh.ThemeCharm()}
	}
	return Line{In: in, Out: out}
}
