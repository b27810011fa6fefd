package command

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	if _, lookupErr := exec.LookPath("sh"); lookupErr != nil {
		t.Skip("sh not available")
	}
	scriptPath := filepath.Join(t.TempDir(), "fake-compiler")
	if err := os.WriteFile(scriptPath, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return scriptPath
}

func TestExecRunnerOutput(t *testing.T) {
	testCases := []struct {
		name           string
		body           string
		arguments      []string
		expectedOutput string
	}{
		{
			name:           "captures_stdout",
			body:           "echo 11.2.0\n",
			expectedOutput: "11.2.0\n",
		},
		{
			name:           "passes_arguments_verbatim",
			body:           "echo \"$1\"\n",
			arguments:      []string{"-dumpversion"},
			expectedOutput: "-dumpversion\n",
		},
		{
			name:           "ignores_stderr",
			body:           "echo noise 1>&2\necho 9.4.0\n",
			expectedOutput: "9.4.0\n",
		},
		{
			name:           "keeps_output_on_non_zero_exit",
			body:           "echo 13.1.0\nexit 3\n",
			expectedOutput: "13.1.0\n",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			scriptPath := writeScript(t, testCase.body)
			output, err := ExecRunner{}.Output(context.Background(), Request{Name: scriptPath, Arguments: testCase.arguments})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(output) != testCase.expectedOutput {
				t.Fatalf("expected %q, got %q", testCase.expectedOutput, string(output))
			}
		})
	}
}

func TestExecRunnerReportsLaunchFailure(t *testing.T) {
	missingPath := filepath.Join(t.TempDir(), "missing-compiler")
	_, err := ExecRunner{}.Output(context.Background(), Request{Name: missingPath})
	if !errors.Is(err, ErrLaunchFailed) {
		t.Fatalf("expected ErrLaunchFailed, got %v", err)
	}
}

func TestExecRunnerReportsEmptyNameAsLaunchFailure(t *testing.T) {
	_, err := ExecRunner{}.Output(context.Background(), Request{Name: ""})
	if !errors.Is(err, ErrLaunchFailed) {
		t.Fatalf("expected ErrLaunchFailed, got %v", err)
	}
}

func TestExecRunnerHonorsTimeout(t *testing.T) {
	scriptPath := writeScript(t, "exec sleep 5\n")
	started := time.Now()
	_, err := ExecRunner{}.Output(context.Background(), Request{Name: scriptPath, Timeout: 100 * time.Millisecond})
	if !errors.Is(err, ErrTimedOut) {
		t.Fatalf("expected ErrTimedOut, got %v", err)
	}
	if elapsed := time.Since(started); elapsed > 4*time.Second {
		t.Fatalf("timeout not enforced, took %s", elapsed)
	}
}

func TestExecRunnerHonorsCancellation(t *testing.T) {
	scriptPath := writeScript(t, "exec sleep 5\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ExecRunner{}.Output(ctx, Request{Name: scriptPath})
	if err == nil {
		t.Fatalf("expected an error for a cancelled context")
	}
}

func TestExecRunnerRunsInRequestedDirectory(t *testing.T) {
	scriptPath := writeScript(t, "pwd\n")
	workingDirectory := t.TempDir()
	output, err := ExecRunner{}.Output(context.Background(), Request{Name: scriptPath, Directory: workingDirectory})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectedDirectory, resolveErr := filepath.EvalSymlinks(workingDirectory)
	if resolveErr != nil {
		t.Fatalf("resolve %s: %v", workingDirectory, resolveErr)
	}
	if got := strings.TrimSpace(string(output)); got != expectedDirectory && got != workingDirectory {
		t.Fatalf("expected %s, got %q", expectedDirectory, got)
	}
}
