package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/shellprompt/internal/command"
	"github.com/temirov/shellprompt/internal/config"
	"github.com/temirov/shellprompt/internal/modules/cpp"
	"github.com/temirov/shellprompt/internal/prompt"
	"github.com/temirov/shellprompt/internal/utils"
)

const (
	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	errorAbsolutePathFormat     = "abs failed for '%s': %w"
	invalidFormatMessageFormat  = "%w: '%s'"
)

// session is everything one command invocation renders with.
type session struct {
	logger        *zap.Logger
	promptContext *prompt.Context
	engine        prompt.Engine
	palette       prompt.Palette
	format        string
}

func newSession(writer io.Writer, deps dependencies, global globalOptions, options renderOptions) (session, error) {
	directory, directoryErr := resolveDirectory(options.directory)
	if directoryErr != nil {
		return session{}, directoryErr
	}
	configuration, configurationErr := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: directory,
		ExplicitFilePath: global.configPath,
	})
	if configurationErr != nil {
		return session{}, configurationErr
	}

	format := configuration.OutputFormat()
	if options.format != "" {
		format = strings.ToLower(options.format)
	}
	if format != config.FormatRaw && format != config.FormatJSON {
		return session{}, fmt.Errorf(invalidFormatMessageFormat, errInvalidFormat, options.format)
	}
	theme := configuration.Theme
	if options.theme != "" {
		theme = options.theme
	}
	colorMode := configuration.ColorMode()
	if options.color != "" {
		colorMode = strings.ToLower(options.color)
	}
	renderer, rendererErr := prompt.NewRenderer(writer, colorMode)
	if rendererErr != nil {
		return session{}, rendererErr
	}
	palette, paletteErr := prompt.NewPalette(theme, renderer)
	if paletteErr != nil {
		return session{}, paletteErr
	}

	logger, loggerErr := utils.NewApplicationLogger(global.debug)
	if loggerErr != nil {
		return session{}, fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerErr)
	}
	detectors, detectorsErr := buildDetectors(configuration, global.timeout, deps.runner)
	if detectorsErr != nil {
		_ = logger.Sync()
		return session{}, detectorsErr
	}
	engine := prompt.NewEngine(detectors...)
	logger.Debug("session ready",
		zap.String("directory", directory),
		zap.String("format", format),
		zap.String("color", colorMode),
		zap.Strings("modules", engine.Names()))

	return session{
		logger: logger,
		promptContext: prompt.NewContext(directory,
			prompt.WithFilesystem(deps.filesystem),
			prompt.WithEnvironment(deps.lookupEnvironment),
			prompt.WithLogger(logger)),
		engine:  engine,
		palette: palette,
		format:  format,
	}, nil
}

func (currentSession session) close() {
	if currentSession.logger != nil {
		_ = currentSession.logger.Sync()
	}
}

func resolveDirectory(directory string) (string, error) {
	if directory == "" {
		workingDirectory, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf(workingDirectoryErrorFormat, err)
		}
		return workingDirectory, nil
	}
	absolutePath, err := filepath.Abs(directory)
	if err != nil {
		return "", fmt.Errorf(errorAbsolutePathFormat, directory, err)
	}
	return absolutePath, nil
}

// buildDetectors registers the enabled modules in display order.
func buildDetectors(configuration config.ApplicationConfiguration, timeoutOverride time.Duration, runner command.Runner) ([]prompt.Detector, error) {
	var detectors []prompt.Detector
	cppConfiguration := configuration.Cpp
	if !cppConfiguration.IsDisabled() {
		timeout, timeoutErr := cppConfiguration.TimeoutDuration()
		if timeoutErr != nil {
			return nil, timeoutErr
		}
		if timeoutOverride > 0 {
			timeout = timeoutOverride
		}
		style := cpp.DefaultStyle
		if cppConfiguration.Style.Color != "" {
			style.Foreground = cppConfiguration.Style.Color
		}
		if cppConfiguration.Style.Bold != nil {
			style.Bold = *cppConfiguration.Style.Bold
		}
		detectors = append(detectors, cpp.NewDetector(cpp.Options{
			DefaultCommand: cppConfiguration.Command,
			Timeout:        timeout,
			Symbol:         cppConfiguration.Symbol,
			Style:          style,
		}, runner))
	}
	return detectors, nil
}

// writeModules prints the modules in the requested format. Raw output with no modules prints nothing.
func writeModules(writer io.Writer, modules []*prompt.Module, format string, palette prompt.Palette) error {
	switch format {
	case config.FormatJSON:
		if modules == nil {
			modules = []*prompt.Module{}
		}
		encoded, err := json.MarshalIndent(modules, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal modules to JSON: %w", err)
		}
		_, err = fmt.Fprintln(writer, string(encoded))
		return err
	default:
		line := prompt.Render(modules, palette)
		if line == "" {
			return nil
		}
		_, err := fmt.Fprintln(writer, line)
		return err
	}
}
