package cpp

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/temirov/shellprompt/internal/command"
	"github.com/temirov/shellprompt/internal/prompt"
)

const (
	// CompilerEnvironmentVariable names the compiler override.
	CompilerEnvironmentVariable = "CXX"
	// DefaultCompilerCommand is used when no override is set.
	DefaultCompilerCommand = "c++"

	versionArgument = "-dumpversion"
)

var (
	// ErrCompilerUnavailable reports that the compiler could not be started.
	ErrCompilerUnavailable = errors.New("compiler unavailable")
	// ErrMalformedOutput reports compiler output that is not valid UTF-8.
	ErrMalformedOutput = errors.New("malformed compiler output")
)

// ResolverConfig holds everything the resolver needs; it never reads the process environment itself.
type ResolverConfig struct {
	// Override replaces DefaultCommand when non-empty.
	Override string
	// DefaultCommand falls back to DefaultCompilerCommand when empty.
	DefaultCommand string
	// Timeout bounds the compiler run; zero waits until it exits.
	Timeout time.Duration
	// Directory is the compiler's working directory; empty inherits the process's.
	Directory string
}

// ResolverConfigFromEnvironment reads the CXX override through lookup.
func ResolverConfigFromEnvironment(lookup prompt.EnvironmentLookup, defaultCommand string, timeout time.Duration) ResolverConfig {
	override := ""
	if lookup != nil {
		override, _ = lookup(CompilerEnvironmentVariable)
	}
	return ResolverConfig{
		Override:       override,
		DefaultCommand: defaultCommand,
		Timeout:        timeout,
	}
}

// CommandName returns the executable to run. An empty override counts as unset.
func (config ResolverConfig) CommandName() string {
	if config.Override != "" {
		return config.Override
	}
	if config.DefaultCommand != "" {
		return config.DefaultCommand
	}
	return DefaultCompilerCommand
}

// Resolver asks the compiler for its bare version number.
type Resolver struct {
	config ResolverConfig
	runner command.Runner
}

// NewResolver builds a Resolver; a nil runner uses command.ExecRunner.
func NewResolver(config ResolverConfig, runner command.Runner) Resolver {
	if runner == nil {
		runner = command.ExecRunner{}
	}
	return Resolver{config: config, runner: runner}
}

// Resolve runs "<compiler> -dumpversion" and returns its standard output untrimmed.
func (resolver Resolver) Resolve(ctx context.Context) (string, error) {
	commandName := resolver.config.CommandName()
	output, runError := resolver.runner.Output(ctx, command.Request{
		Name:      commandName,
		Arguments: []string{versionArgument},
		Directory: resolver.config.Directory,
		Timeout:   resolver.config.Timeout,
	})
	if runError != nil {
		if errors.Is(runError, command.ErrLaunchFailed) {
			return "", fmt.Errorf("%w: %w", ErrCompilerUnavailable, runError)
		}
		return "", fmt.Errorf("query %s version: %w", commandName, runError)
	}
	if !utf8.Valid(output) {
		return "", fmt.Errorf("%w from %s", ErrMalformedOutput, commandName)
	}
	return string(output), nil
}
