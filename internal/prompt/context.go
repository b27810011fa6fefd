// Package prompt holds the shared types a prompt detector works with:
// the read-only render Context, directory scans, and the Modules detectors emit.
package prompt

import (
	"os"
	"sync"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// EnvironmentLookup resolves an environment variable the way os.LookupEnv does.
type EnvironmentLookup func(name string) (string, bool)

// Context is the read-only view of one render pass handed to every detector.
type Context struct {
	currentDirectory  string
	filesystem        afero.Fs
	lookupEnvironment EnvironmentLookup
	logger            *zap.Logger

	listingOnce  sync.Once
	listing      []os.FileInfo
	listingError error
}

// ContextOption customizes a Context at construction time.
type ContextOption func(*Context)

// WithFilesystem replaces the operating system filesystem used for scans.
func WithFilesystem(filesystem afero.Fs) ContextOption {
	return func(promptContext *Context) {
		if filesystem != nil {
			promptContext.filesystem = filesystem
		}
	}
}

// WithEnvironment replaces os.LookupEnv.
func WithEnvironment(lookup EnvironmentLookup) ContextOption {
	return func(promptContext *Context) {
		if lookup != nil {
			promptContext.lookupEnvironment = lookup
		}
	}
}

// WithLogger attaches a logger; the default discards everything.
func WithLogger(logger *zap.Logger) ContextOption {
	return func(promptContext *Context) {
		if logger != nil {
			promptContext.logger = logger
		}
	}
}

// NewContext builds a Context rooted at currentDirectory.
func NewContext(currentDirectory string, options ...ContextOption) *Context {
	promptContext := &Context{
		currentDirectory:  currentDirectory,
		filesystem:        afero.NewOsFs(),
		lookupEnvironment: os.LookupEnv,
		logger:            zap.NewNop(),
	}
	for _, option := range options {
		option(promptContext)
	}
	return promptContext
}

// CurrentDirectory returns the directory the prompt is rendered for.
func (promptContext *Context) CurrentDirectory() string {
	return promptContext.currentDirectory
}

// LookupEnvironment reads an environment variable through the configured lookup.
func (promptContext *Context) LookupEnvironment(name string) (string, bool) {
	return promptContext.lookupEnvironment(name)
}

// Logger returns the logger detectors should report through.
func (promptContext *Context) Logger() *zap.Logger {
	return promptContext.logger
}

// TryBeginScan starts a scan of the current directory.
// It reports false when the directory cannot be listed.
func (promptContext *Context) TryBeginScan() (*ScanRequest, bool) {
	entries, listingError := promptContext.directoryListing()
	if listingError != nil {
		promptContext.logger.Debug("directory scan unavailable",
			zap.String("directory", promptContext.currentDirectory),
			zap.Error(listingError))
		return nil, false
	}
	return &ScanRequest{entries: entries}, true
}

// NewModule creates an empty Module with the given identifier.
func (promptContext *Context) NewModule(name string) *Module {
	return &Module{Name: name}
}

// directoryListing reads the directory once per Context; every detector of a pass shares it.
func (promptContext *Context) directoryListing() ([]os.FileInfo, error) {
	promptContext.listingOnce.Do(func() {
		promptContext.listing, promptContext.listingError = afero.ReadDir(promptContext.filesystem, promptContext.currentDirectory)
	})
	return promptContext.listing, promptContext.listingError
}
