// SPDX-License-Identifier: MPL-2.0

package build

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/rpdk/rpdk-python/internal/command"
	"github.com/rpdk/rpdk-python/internal/testutil"
)

// spyRunner records invocations. When install is set, a pip invocation writes the
// given files under its --target directory.
type spyRunner struct {
	invocations []command.Invocation
	err         error
	install     map[string]string
}

func (s *spyRunner) Run(_ context.Context, inv command.Invocation) (*command.Result, error) {
	s.invocations = append(s.invocations, inv)
	if s.err != nil {
		return nil, s.err
	}
	if target := argAfter(inv.Args, "--target"); target != "" {
		if err := installInto(target, s.install); err != nil {
			return nil, err
		}
	}
	return &command.Result{Stdout: []byte("Successfully installed"), Stderr: []byte("")}, nil
}

func argAfter(args []string, flag string) string {
	i := slices.Index(args, flag)
	if i < 0 || i+1 >= len(args) {
		return ""
	}
	return args[i+1]
}

func installInto(target string, files map[string]string) error {
	for rel, content := range files {
		path := filepath.Join(target, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func TestLocalBuilder_MissingSupportArtifactRunsNothing(t *testing.T) {
	t.Parallel()

	p := testutil.NewProject(t, testutil.ProjectFixture{WithoutSupportArchive: true})
	spy := &spyRunner{}

	err := NewLocalBuilder(spy, Options{}).Build(context.Background(), p)
	if !errors.Is(err, ErrMissingSupportArtifact) {
		t.Fatalf("Build() error = %v, want ErrMissingSupportArtifact", err)
	}
	if errors.Is(err, ErrDownstreamBuild) {
		t.Error("a missing precondition is not a downstream failure")
	}
	if len(spy.invocations) != 0 {
		t.Errorf("expected zero runner invocations, got %d", len(spy.invocations))
	}
}

func TestLocalBuilder_Build(t *testing.T) {
	t.Parallel()

	p := testutil.NewProject(t, testutil.ProjectFixture{})
	spy := &spyRunner{install: map[string]string{"requests/__init__.py": "", "six.py": ""}}
	logger, rec := testutil.NewRecordingLogger()

	if err := NewLocalBuilder(spy, Options{Logger: logger}).Build(context.Background(), p); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if len(spy.invocations) != 1 {
		t.Fatalf("expected 1 invocation, got %d", len(spy.invocations))
	}
	inv := spy.invocations[0]
	if inv.Dir != p.Root {
		t.Errorf("Dir = %q, want project root %q", inv.Dir, p.Root)
	}
	if !slices.Equal(inv.Args, PipCommand(p.Root, false)) {
		t.Errorf("Args = %v", inv.Args)
	}
	if _, err := os.Stat(filepath.Join(p.BuildDir(), "six.py")); err != nil {
		t.Errorf("expected installed file: %v", err)
	}
	if len(rec.Find(slog.LevelWarn, "Starting pip build")) != 1 {
		t.Error("expected a warning before the build starts")
	}
	if len(rec.Find(slog.LevelDebug, "pip stdout")) != 1 {
		t.Error("expected pip stdout at debug level")
	}
}

func TestLocalBuilder_RunnerFailure(t *testing.T) {
	t.Parallel()

	p := testutil.NewProject(t, testutil.ProjectFixture{})
	procErr := &command.ExternalProcessError{Args: []string{"pip"}, ExitCode: 1, Stderr: []byte("No matching distribution")}

	err := NewLocalBuilder(&spyRunner{err: procErr}, Options{}).Build(context.Background(), p)
	if !errors.Is(err, ErrDownstreamBuild) {
		t.Fatalf("Build() error = %v, want ErrDownstreamBuild", err)
	}
	if !errors.Is(err, command.ErrExternalProcess) {
		t.Error("the runner error must stay reachable through the chain")
	}
	var dsErr *DownstreamBuildError
	if !errors.As(err, &dsErr) || dsErr.Strategy != StrategyLocal {
		t.Errorf("expected *DownstreamBuildError from the local strategy, got %v", err)
	}
}
