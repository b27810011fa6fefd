package cpp

import (
	"context"
	"errors"
	"testing"

	"github.com/temirov/shellprompt/internal/command"
)

func environment(values map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		value, found := values[name]
		return value, found
	}
}

func TestResolverConfigCommandName(t *testing.T) {
	testCases := []struct {
		name           string
		environment    map[string]string
		defaultCommand string
		expected       string
	}{
		{name: "unset_uses_default", environment: map[string]string{}, expected: "c++"},
		{name: "override_wins", environment: map[string]string{"CXX": "clang++"}, expected: "clang++"},
		{name: "empty_override_uses_default", environment: map[string]string{"CXX": ""}, expected: "c++"},
		{name: "override_used_verbatim", environment: map[string]string{"CXX": "/opt/gcc 13/bin/g++"}, expected: "/opt/gcc 13/bin/g++"},
		{name: "configured_default", environment: map[string]string{}, defaultCommand: "g++", expected: "g++"},
		{name: "override_beats_configured_default", environment: map[string]string{"CXX": "clang++"}, defaultCommand: "g++", expected: "clang++"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			config := ResolverConfigFromEnvironment(environment(testCase.environment), testCase.defaultCommand, 0)
			if actual := config.CommandName(); actual != testCase.expected {
				t.Fatalf("expected %q, got %q", testCase.expected, actual)
			}
		})
	}
}

func TestResolverInvokesDumpVersion(t *testing.T) {
	testCases := []struct {
		name         string
		environment  map[string]string
		expectedName string
	}{
		{name: "default_compiler", environment: map[string]string{}, expectedName: "c++"},
		{name: "clang_override", environment: map[string]string{"CXX": "clang++"}, expectedName: "clang++"},
		{name: "empty_override", environment: map[string]string{"CXX": ""}, expectedName: "c++"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			runner := &recordingRunner{output: []byte("11.2.0\n")}
			resolver := NewResolver(ResolverConfigFromEnvironment(environment(testCase.environment), "", 0), runner)
			version, err := resolver.Resolve(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if version != "11.2.0\n" {
				t.Fatalf("expected untrimmed output, got %q", version)
			}
			if len(runner.requests) != 1 {
				t.Fatalf("expected one request, got %d", len(runner.requests))
			}
			request := runner.requests[0]
			if request.Name != testCase.expectedName {
				t.Fatalf("expected command %q, got %q", testCase.expectedName, request.Name)
			}
			if len(request.Arguments) != 1 || request.Arguments[0] != "-dumpversion" {
				t.Fatalf("expected -dumpversion, got %v", request.Arguments)
			}
		})
	}
}

func TestResolverErrors(t *testing.T) {
	testCases := []struct {
		name        string
		output      []byte
		runnerError error
		expected    error
	}{
		{name: "launch_failure", runnerError: command.ErrLaunchFailed, expected: ErrCompilerUnavailable},
		{name: "invalid_utf8", output: []byte{0xc3, 0x28}, expected: ErrMalformedOutput},
		{name: "timeout", runnerError: command.ErrTimedOut, expected: command.ErrTimedOut},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			runner := &recordingRunner{output: testCase.output, err: testCase.runnerError}
			_, err := NewResolver(ResolverConfig{}, runner).Resolve(context.Background())
			if !errors.Is(err, testCase.expected) {
				t.Fatalf("expected %v, got %v", testCase.expected, err)
			}
		})
	}
}
