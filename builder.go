package procman

import (
	"fmt"
	"strings"
)

// ProcessBuilder provides a fluent interface for assembling a ProcessSpec.
type ProcessBuilder struct {
	name      string
	cmd       []string
	extraArgs []string
	env       map[string]string
	cwd       string
	logDir    string
}

// NewProcessBuilder creates a ProcessBuilder for the given logical name
func NewProcessBuilder(name string) *ProcessBuilder {
	return &ProcessBuilder{
		name: name,
		env:  make(map[string]string),
	}
}

// WithCmd sets the command to execute
func (b *ProcessBuilder) WithCmd(cmd []string) *ProcessBuilder {
	b.cmd = cmd
	return b
}

// WithExtraArgs sets arguments appended after the command
func (b *ProcessBuilder) WithExtraArgs(args ...string) *ProcessBuilder {
	b.extraArgs = args
	return b
}

// WithEnv adds an environment variable
func (b *ProcessBuilder) WithEnv(key, value string) *ProcessBuilder {
	b.env[key] = value
	return b
}

// WithCwd sets the working directory
func (b *ProcessBuilder) WithCwd(cwd string) *ProcessBuilder {
	b.cwd = cwd
	return b
}

// WithLogDir sets the log directory for this process
func (b *ProcessBuilder) WithLogDir(dir string) *ProcessBuilder {
	b.logDir = dir
	return b
}

// Build validates the builder and produces a ProcessSpec. The name must
// be non-empty and free of path separators since it names files in the
// state and log directories.
func (b *ProcessBuilder) Build() (ProcessSpec, error) {
	if b.name == "" {
		return ProcessSpec{}, fmt.Errorf("%w: empty name", ErrInvalidSpec)
	}
	if strings.ContainsAny(b.name, "/\\") {
		return ProcessSpec{}, fmt.Errorf("%w: name %q contains path separators", ErrInvalidSpec, b.name)
	}
	if len(b.cmd) == 0 || b.cmd[0] == "" {
		return ProcessSpec{}, fmt.Errorf("%w: empty command", ErrInvalidSpec)
	}

	return ProcessSpec{
		Name:      b.name,
		Command:   b.cmd,
		ExtraArgs: b.extraArgs,
		Env:       b.env,
		Cwd:       b.cwd,
		LogDir:    b.logDir,
	}, nil
}
