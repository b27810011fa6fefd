// Package cli provides the command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/temirov/shellprompt/internal/command"
	"github.com/temirov/shellprompt/internal/config"
	"github.com/temirov/shellprompt/internal/prompt"
	"github.com/temirov/shellprompt/internal/utils"
)

const (
	versionFlagName      = "version"
	configFlagName       = "config"
	debugFlagName        = "debug"
	timeoutFlagName      = "timeout"
	pathFlagName         = "path"
	pathFlagShorthand    = "p"
	formatFlagName       = "format"
	themeFlagName        = "theme"
	colorFlagName        = "color"
	globalFlagName       = "global"
	forceFlagName        = "force"
	versionTemplate      = "shellprompt version: %s\n"
	rootUse              = "shellprompt"
	rootShortDescription = "shellprompt renders prompt segments for the current directory"
	rootLongDescription = `shellprompt inspects a directory and prints short, styled segments for a shell prompt.
Each module decides on its own whether it applies; the C++ module shows the compiler version
when the directory holds a Makefile, CMakeLists.txt or C/C++ sources.`
	promptUse              = "prompt"
	promptShortDescription = "render every enabled module"
	promptLongDescription = `Render the prompt line for a directory.
Use --format json to print the modules instead of the styled line.`
	promptUsageExample = `  # Render the prompt for the current directory
  shellprompt prompt

  # Inspect what each module produced
  shellprompt prompt --format json --path ./src`
	moduleUse              = "module <name>"
	moduleShortDescription = "render a single module"
	moduleUsageExample = `  # Show only the C++ segment, using clang++
  CXX=clang++ shellprompt module cpp`
	listUse               = "list"
	listShortDescription  = "list available modules"
	listLongDescription   = `List every module shellprompt knows about, whether or not the configuration disables it.`
	initUse               = "init"
	initShortDescription  = "write the default configuration file"
	initLongDescription   = `Write the default configuration to ./.shellprompt.yaml, or to ~/.shellprompt/config.yaml with --global.`
	initCompletedTemplate = "configuration written to %s\n"

	versionFlagDescription = "display application version"
	configFlagDescription  = "configuration file to use instead of ./.shellprompt.yaml"
	debugFlagDescription   = "log module diagnostics to stderr"
	timeoutFlagDescription = "bound every external command (0 waits until it exits)"
	pathFlagDescription    = "directory to inspect (defaults to the working directory)"
	formatFlagDescription  = "output format: raw or json"
	themeFlagDescription   = "colour theme: ansi, latte, frappe, macchiato or mocha"
	colorFlagDescription   = "when to emit colour: always, auto or never"
	globalFlagDescription  = "write the global configuration"
	forceFlagDescription   = "overwrite an existing configuration"
)

var (
	errUnknownModule = errors.New("unknown module")
	errInvalidFormat = errors.New("invalid format")
)

// dependencies are the process-level collaborators the commands run against.
type dependencies struct {
	runner            command.Runner
	lookupEnvironment prompt.EnvironmentLookup
	filesystem        afero.Fs
}

func defaultDependencies() dependencies {
	return dependencies{
		runner:            command.ExecRunner{},
		lookupEnvironment: os.LookupEnv,
		filesystem:        afero.NewOsFs(),
	}
}

// globalOptions stores the persistent flags.
type globalOptions struct {
	configPath  string
	debug       bool
	showVersion bool
	timeout     time.Duration
}

// Execute runs the shellprompt application.
func Execute(ctx context.Context) error {
	rootCommand := createRootCommand(defaultDependencies())
	return rootCommand.ExecuteContext(ctx)
}

// createRootCommand builds the root Cobra command.
func createRootCommand(deps dependencies) *cobra.Command {
	var options globalOptions

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if options.showVersion {
				fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.ApplicationVersion(command.Context(), deps.runner))
				os.Exit(0)
			}
		},
	}
	rootCommand.PersistentFlags().BoolVar(&options.showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.PersistentFlags().StringVar(&options.configPath, configFlagName, "", configFlagDescription)
	rootCommand.PersistentFlags().BoolVar(&options.debug, debugFlagName, false, debugFlagDescription)
	rootCommand.PersistentFlags().DurationVar(&options.timeout, timeoutFlagName, 0, timeoutFlagDescription)
	rootCommand.AddCommand(
		createPromptCommand(deps, &options),
		createModuleCommand(deps, &options),
		createListCommand(deps),
		createInitCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// renderOptions stores flags shared by prompt and module.
type renderOptions struct {
	directory string
	format    string
	theme     string
	color     string
}

func addRenderFlags(command *cobra.Command, options *renderOptions) {
	command.Flags().StringVarP(&options.directory, pathFlagName, pathFlagShorthand, "", pathFlagDescription)
	command.Flags().StringVar(&options.format, formatFlagName, "", formatFlagDescription)
	command.Flags().StringVar(&options.theme, themeFlagName, "", themeFlagDescription)
	command.Flags().StringVar(&options.color, colorFlagName, "", colorFlagDescription)
}

// createPromptCommand returns the prompt subcommand.
func createPromptCommand(deps dependencies, global *globalOptions) *cobra.Command {
	var options renderOptions
	promptCommand := &cobra.Command{
		Use:     promptUse,
		Short:   promptShortDescription,
		Long:    promptLongDescription,
		Example: promptUsageExample,
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			currentSession, sessionErr := newSession(command.OutOrStdout(), deps, *global, options)
			if sessionErr != nil {
				return sessionErr
			}
			defer currentSession.close()
			modules, modulesErr := currentSession.engine.Modules(command.Context(), currentSession.promptContext)
			if modulesErr != nil {
				return modulesErr
			}
			return writeModules(command.OutOrStdout(), modules, currentSession.format, currentSession.palette)
		},
	}
	addRenderFlags(promptCommand, &options)
	return promptCommand
}

// createModuleCommand returns the module subcommand.
func createModuleCommand(deps dependencies, global *globalOptions) *cobra.Command {
	var options renderOptions
	moduleCommand := &cobra.Command{
		Use:     moduleUse,
		Short:   moduleShortDescription,
		Example: moduleUsageExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			currentSession, sessionErr := newSession(command.OutOrStdout(), deps, *global, options)
			if sessionErr != nil {
				return sessionErr
			}
			defer currentSession.close()
			detector, found := currentSession.engine.Lookup(arguments[0])
			if !found {
				return fmt.Errorf("%w: %s", errUnknownModule, arguments[0])
			}
			var modules []*prompt.Module
			if module := detector.Module(command.Context(), currentSession.promptContext); !module.IsEmpty() {
				modules = append(modules, module)
			}
			return writeModules(command.OutOrStdout(), modules, currentSession.format, currentSession.palette)
		},
	}
	addRenderFlags(moduleCommand, &options)
	return moduleCommand
}

// createListCommand returns the list subcommand. It needs no configuration, so a broken config file does not hide the module names.
func createListCommand(deps dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   listUse,
		Short: listShortDescription,
		Long:  listLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			detectors, detectorsErr := buildDetectors(config.ApplicationConfiguration{}, 0, deps.runner)
			if detectorsErr != nil {
				return detectorsErr
			}
			for _, name := range prompt.NewEngine(detectors...).Names() {
				fmt.Fprintln(command.OutOrStdout(), name)
			}
			return nil
		},
	}
}
