package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-playground/validator/v10"

	"github.com/skyfleet/skymanager/internal/api"
	"github.com/skyfleet/skymanager/internal/ui/components"
)

const defaultTransportType = "dmsg"

const (
	fieldRemote = iota
	fieldType
	fieldPublic
	fieldCount
)

// transportForm collects the input for a new transport.
type transportForm struct {
	remote     textinput.Model
	kind       textinput.Model
	public     bool
	focus      int
	err        string
	submitting bool
}

func newTransportForm() *transportForm {
	remote := textinput.New()
	remote.Placeholder = "remote visor public key"
	remote.CharLimit = 66
	remote.Width = 44
	remote.Cursor.SetMode(cursor.CursorStatic)
	remote.Focus()

	kind := textinput.New()
	kind.Placeholder = defaultTransportType
	kind.CharLimit = 16
	kind.Width = 16
	kind.Cursor.SetMode(cursor.CursorStatic)

	return &transportForm{remote: remote, kind: kind}
}

// input returns the form values; an empty type means the default.
func (f *transportForm) input() api.CreateTransportInput {
	kind := strings.TrimSpace(f.kind.Value())
	if kind == "" {
		kind = defaultTransportType
	}
	return api.CreateTransportInput{
		RemotePK: strings.ToLower(strings.TrimSpace(f.remote.Value())),
		Type:     kind,
		Public:   f.public,
	}
}

// update handles one key. submit is true when the values are valid and
// should be sent.
func (f *transportForm) update(msg tea.KeyMsg) (submit, cancel bool, cmd tea.Cmd) {
	if f.submitting {
		return false, false, nil
	}
	switch {
	case isBack(msg):
		return false, true, nil
	case isKey(msg, "tab", "down"):
		f.setFocus((f.focus + 1) % fieldCount)
		return false, false, nil
	case isKey(msg, "shift+tab", "up"):
		f.setFocus((f.focus + fieldCount - 1) % fieldCount)
		return false, false, nil
	case isEnter(msg):
		if err := api.Validate(f.input()); err != nil {
			f.err = describeInvalid(err)
			return false, false, nil
		}
		f.err = ""
		f.submitting = true
		return true, false, nil
	}

	switch f.focus {
	case fieldRemote:
		f.remote, cmd = f.remote.Update(msg)
	case fieldType:
		f.kind, cmd = f.kind.Update(msg)
	case fieldPublic:
		if isSpace(msg) {
			f.public = !f.public
		}
	}
	return false, false, cmd
}

func (f *transportForm) setFocus(field int) {
	f.focus = field
	f.remote.Blur()
	f.kind.Blur()
	switch field {
	case fieldRemote:
		f.remote.Focus()
	case fieldType:
		f.kind.Focus()
	}
}

func (f *transportForm) view() string {
	public := components.MarkUnchecked
	if f.public {
		public = components.MarkChecked
	}
	marker := func(field int) string {
		if f.focus == field {
			return "› "
		}
		return "  "
	}
	fields := []string{
		marker(fieldRemote) + "remote " + f.remote.View(),
		marker(fieldType) + "type   " + f.kind.View(),
		marker(fieldPublic) + "public " + public + "  (space toggles)",
	}
	title := "New transport"
	if f.submitting {
		title += " (creating...)"
	}
	return components.FormDialog(title, fields, f.err)
}

// describeInvalid turns validator errors into form messages.
func describeInvalid(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Field() {
		case "RemotePK":
			if fe.Tag() == "required" {
				msgs = append(msgs, "remote key is required")
			} else {
				msgs = append(msgs, "remote key must be 66 hex characters")
			}
		case "Type":
			msgs = append(msgs, "transport type is required")
		default:
			msgs = append(msgs, fe.Error())
		}
	}
	return strings.Join(msgs, "; ")
}
