package core

import (
	"context"
	"io"
	"os"
	"runtime"
)

// RunContext carries the runtime surroundings of a single invocation.
// It wraps the standard context and adds the fields templates and
// conditions may refer to.
type RunContext struct {
	context.Context

	// Facts about the machine running the tool, exposed to `when:`
	// conditions and layout templates.
	OS       string // runtime.GOOS
	Hostname string
	User     string
	HomeDir  string

	// DryRun disables every mutating remote call; the decision tree still
	// runs so the outcome can be previewed.
	DryRun bool

	Logger Logger

	Stdout io.Writer
	Stderr io.Writer
}

// NewRunContext builds a context from the current process environment.
func NewRunContext(ctx context.Context, dryRun bool, logger Logger) *RunContext {
	hostname, _ := os.Hostname()
	home, _ := os.UserHomeDir()

	return &RunContext{
		Context:  ctx,
		OS:       runtime.GOOS,
		Hostname: hostname,
		User:     os.Getenv("USER"),
		HomeDir:  home,
		DryRun:   dryRun,
		Logger:   logger,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
	}
}
