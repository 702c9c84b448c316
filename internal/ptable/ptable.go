package ptable

import (
	"fmt"
	"os"

	"github.com/arineng/foreman-ptable/internal/core"
)

// State is the desired state of a partition table.
type State string

const (
	StatePresent State = "present"
	StateAbsent  State = "absent"
)

func (s State) String() string {
	return string(s)
}

// Definition is the desired state of one partition table, as declared in
// the desired-state file. Name is the natural key on the Foreman side.
type Definition struct {
	Name       string   `yaml:"name"`
	Layout     string   `yaml:"layout,omitempty"`
	LayoutFile string   `yaml:"layout_file,omitempty"`
	OSFamily   string   `yaml:"os_family,omitempty"`
	Locations  []string `yaml:"locations,omitempty"`
	State      State    `yaml:"state,omitempty"`

	// Template renders the layout through the template engine before it is
	// sent to Foreman. Off by default so layouts are passed byte for byte.
	Template bool `yaml:"template,omitempty"`

	// When skips the definition unless the condition holds.
	When string `yaml:"when,omitempty"`
}

// DesiredState returns the declared state, defaulting to present.
func (d *Definition) DesiredState() State {
	if d.State == "" {
		return StatePresent
	}
	return d.State
}

// Validate checks the definition before any remote call is made.
// Exactly one of layout and layout_file must be supplied.
func (d *Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("partition table name is required")
	}
	if s := d.DesiredState(); s != StatePresent && s != StateAbsent {
		return fmt.Errorf("invalid state %q for %q, must be 'present' or 'absent'", s, d.Name)
	}
	if d.Layout == "" && d.LayoutFile == "" {
		return fmt.Errorf("%s: either layout or layout_file must be defined", d.Name)
	}
	if d.Layout != "" && d.LayoutFile != "" {
		return fmt.Errorf("%s: only one of layout or layout_file must be defined", d.Name)
	}
	return nil
}

// ResolveLayout returns the layout content: the literal layout string, or
// the full contents of layout_file. With Template set the content is
// rendered against the run context first.
func (d *Definition) ResolveLayout(ctx *core.RunContext) (string, error) {
	layout := d.Layout
	if d.LayoutFile != "" {
		data, err := os.ReadFile(d.LayoutFile)
		if err != nil {
			return "", fmt.Errorf("could not open file %s: %w", d.LayoutFile, err)
		}
		layout = string(data)
	}

	if d.Template {
		rendered, err := core.ExecuteTemplate(layout, ctx)
		if err != nil {
			return "", fmt.Errorf("%s: rendering layout: %w", d.Name, err)
		}
		layout = rendered
	}
	return layout, nil
}
