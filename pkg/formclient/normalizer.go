// Package formclient is the embeddable client for the lead form: it
// normalizes heterogeneous form markup into the canonical submission payload
// and drives the submit lifecycle against the leads API.
package formclient

import (
	"regexp"
	"strings"
)

// ControlKind distinguishes how a control's value is read.
type ControlKind int

const (
	KindInput ControlKind = iota
	KindTextArea
	KindSelect
	KindSubmit
)

// Option is a single choice of a select control.
type Option struct {
	Label string
	Value string
}

// Control is a snapshot of one form control. It mirrors what the markup
// exposes: an explicit name, a placeholder, an element id, and the current
// value (or options plus selection for selects).
type Control struct {
	Kind        ControlKind
	Name        string
	Placeholder string
	ID          string
	Value       string
	Options     []Option
	Selected    int
}

// Payload is the canonical submission payload. JSON tags match the
// submit-form API request body.
type Payload struct {
	FullName         string `json:"fullName"`
	ContactNumber    string `json:"contactNumber"`
	City             string `json:"city,omitempty"`
	InterestedCourse string `json:"interestedCourse,omitempty"`
	Message          string `json:"message,omitempty"`
}

// canonicalAliases maps each canonical field to the raw field names it
// accepts, in resolution order. The lists cover every markup variant the
// marketing site has shipped (Contact Form 7 names, Elementor menu ids,
// hand-rolled callback widgets).
var canonicalAliases = []struct {
	assign  func(*Payload, string)
	aliases []string
}{
	{func(p *Payload, v string) { p.FullName = v }, []string{"fullname", "name", "full-name", "your-name"}},
	{func(p *Payload, v string) { p.ContactNumber = v }, []string{"contactnumber", "phone", "tel", "your-tel"}},
	{func(p *Payload, v string) { p.City = v }, []string{"city", "location"}},
	{func(p *Payload, v string) { p.InterestedCourse = v }, []string{"interestedcourse", "course", "select", "menu-447"}},
	{func(p *Payload, v string) { p.Message = v }, []string{"message", "textarea"}},
}

var whitespacePattern = regexp.MustCompile(`\s+`)

// controlName resolves the raw field name for a control: explicit name
// attribute, then lower-cased whitespace-stripped placeholder, then element
// id. Empty means the control is skipped.
func controlName(c Control) string {
	if c.Name != "" {
		return c.Name
	}
	if c.Placeholder != "" {
		return whitespacePattern.ReplaceAllString(strings.ToLower(c.Placeholder), "")
	}
	return c.ID
}

// controlValue reads the current value of a control. Selects contribute the
// displayed label of the selected option, not its underlying value.
func controlValue(c Control) string {
	if c.Kind == KindSelect {
		if c.Selected >= 0 && c.Selected < len(c.Options) {
			return c.Options[c.Selected].Label
		}
		return c.Value
	}
	return c.Value
}

// Normalize maps a collection of form controls onto the canonical payload.
// For each canonical field the first alias with a non-empty raw value wins;
// a canonical field with no matching alias is simply left empty. The input
// controls are not modified.
func Normalize(controls []Control) Payload {
	raw := make(map[string]string, len(controls))
	for _, c := range controls {
		if c.Kind == KindSubmit {
			continue
		}
		name := controlName(c)
		if name == "" {
			continue
		}
		raw[name] = controlValue(c)
	}

	var p Payload
	for _, field := range canonicalAliases {
		for _, alias := range field.aliases {
			if v := raw[alias]; v != "" {
				field.assign(&p, v)
				break
			}
		}
	}
	return p
}
