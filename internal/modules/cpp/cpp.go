// Package cpp shows the C++ compiler version when the directory looks like a C++ project.
package cpp

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/shellprompt/internal/command"
	"github.com/temirov/shellprompt/internal/prompt"
)

const (
	// ModuleName identifies the C++ module in configuration and output.
	ModuleName = "cpp"
	// DefaultSymbol is the text shown before the version.
	DefaultSymbol = "C++ "

	symbolSegmentName  = "symbol"
	versionSegmentName = "version"
	versionPrefix      = "v"
)

var (
	markerFiles      = []string{"Makefile", "CMakeLists.txt"}
	sourceExtensions = []string{"c", "cpp", "h", "hpp"}
)

// DefaultStyle is bold red.
var DefaultStyle = prompt.Style{Foreground: "red", Bold: true}

// IsProject reports whether the directory holds a C++ marker file or source file.
// An unavailable scan counts as no match.
func IsProject(promptContext *prompt.Context) bool {
	scan, available := promptContext.TryBeginScan()
	if !available {
		return false
	}
	return scan.
		SetFiles(markerFiles...).
		SetExtensions(sourceExtensions...).
		IsMatch()
}

// Options configures the C++ detector.
type Options struct {
	// DefaultCommand is the compiler used when CXX is unset or empty.
	DefaultCommand string
	// Timeout bounds the compiler run; zero waits until it exits.
	Timeout time.Duration
	Symbol  string
	Style   prompt.Style
}

// Detector implements prompt.Detector for C++ projects.
type Detector struct {
	defaultCommand string
	timeout        time.Duration
	runner         command.Runner
	symbol         string
	style          prompt.Style
}

// NewDetector builds a Detector. Empty symbol or style fall back to the defaults.
func NewDetector(options Options, runner command.Runner) Detector {
	symbol := options.Symbol
	if symbol == "" {
		symbol = DefaultSymbol
	}
	style := options.Style
	if style == (prompt.Style{}) {
		style = DefaultStyle
	}
	return Detector{
		defaultCommand: options.DefaultCommand,
		timeout:        options.Timeout,
		runner:         runner,
		symbol:         symbol,
		style:          style,
	}
}

// resolverFor reads CXX from the render context and runs the compiler inside the scanned directory.
func (detector Detector) resolverFor(promptContext *prompt.Context) Resolver {
	config := ResolverConfigFromEnvironment(promptContext.LookupEnvironment, detector.defaultCommand, detector.timeout)
	config.Directory = promptContext.CurrentDirectory()
	return NewResolver(config, detector.runner)
}

// Name returns ModuleName.
func (Detector) Name() string {
	return ModuleName
}

// Module returns the C++ module, or nil when the directory is not a C++ project
// or the compiler version cannot be read.
func (detector Detector) Module(ctx context.Context, promptContext *prompt.Context) *prompt.Module {
	if !IsProject(promptContext) {
		return nil
	}
	version, resolveError := detector.resolverFor(promptContext).Resolve(ctx)
	if resolveError != nil {
		logger := promptContext.Logger()
		switch {
		case errors.Is(resolveError, ErrMalformedOutput):
			logger.Warn("compiler version output ignored", zap.Error(resolveError))
		default:
			logger.Debug("compiler version unavailable", zap.Error(resolveError))
		}
		return nil
	}
	return detector.BuildModule(promptContext, version)
}

// BuildModule formats the raw compiler output into the symbol and version segments.
func (detector Detector) BuildModule(promptContext *prompt.Context, versionText string) *prompt.Module {
	module := promptContext.NewModule(ModuleName)
	module.SetStyle(detector.style)
	module.CreateSegment(symbolSegmentName, detector.symbol)
	module.CreateSegment(versionSegmentName, versionPrefix+strings.TrimSpace(versionText))
	return module
}
