// SPDX-License-Identifier: MPL-2.0

package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/rpdk/rpdk-python/internal/container"
	"github.com/rpdk/rpdk-python/internal/project"
	"github.com/rpdk/rpdk-python/internal/testutil"
)

// fakeEngine is a container.Engine that records calls. A run writes install into the
// host side of the /project mount under build/.
type fakeEngine struct {
	imagePresent bool
	imageErr     error
	runErr       error
	exitCode     int
	output       string
	install      map[string]string

	imageChecks []string
	runs        []container.RunOptions
}

func (f *fakeEngine) Name() string                   { return "fake" }
func (f *fakeEngine) Available(context.Context) bool { return true }

func (f *fakeEngine) ImageExists(_ context.Context, image string) (bool, error) {
	f.imageChecks = append(f.imageChecks, image)
	return f.imagePresent, f.imageErr
}

func (f *fakeEngine) Run(_ context.Context, opts container.RunOptions) (*container.RunResult, error) {
	f.runs = append(f.runs, opts)
	if f.runErr != nil {
		return nil, f.runErr
	}
	if opts.Output != nil && f.output != "" {
		fmt.Fprint(opts.Output, f.output)
	}
	for _, v := range opts.Volumes {
		if v.ContainerPath == ContainerMountPath {
			if err := installInto(filepath.Join(string(v.HostPath), "build"), f.install); err != nil {
				return nil, err
			}
		}
	}
	return &container.RunResult{ContainerID: "abc123", ExitCode: f.exitCode}, nil
}

func (f *fakeEngine) calls() int { return len(f.imageChecks) + len(f.runs) }

func TestContainerBuilder_Image(t *testing.T) {
	t.Parallel()

	rt, err := project.LookupRuntime("python37")
	if err != nil {
		t.Fatal(err)
	}
	b := NewContainerBuilder(&fakeEngine{}, ImageOptions{}, Options{})
	if got := b.Image(rt); got != "lambci/lambda:build-python3.7" {
		t.Errorf("Image() = %q", got)
	}

	custom := NewContainerBuilder(&fakeEngine{}, ImageOptions{Repository: "public.ecr.aws/sam/build-python", TagPrefix: "latest"}, Options{})
	if got := custom.Image(rt); got != "public.ecr.aws/sam/build-python:latest-python3.7" {
		t.Errorf("Image() = %q", got)
	}
}

func TestContainerBuilder_MissingSupportArtifactStartsNoContainer(t *testing.T) {
	t.Parallel()

	p := testutil.NewProject(t, testutil.ProjectFixture{UseDocker: true, WithoutSupportArchive: true})
	engine := &fakeEngine{}

	err := NewContainerBuilder(engine, ImageOptions{}, Options{}).Build(context.Background(), p)
	if !errors.Is(err, ErrMissingSupportArtifact) {
		t.Fatalf("Build() error = %v, want ErrMissingSupportArtifact", err)
	}
	if engine.calls() != 0 {
		t.Errorf("expected zero engine calls, got %d", engine.calls())
	}
}

func TestContainerBuilder_Build(t *testing.T) {
	t.Parallel()

	p := testutil.NewProject(t, testutil.ProjectFixture{UseDocker: true})
	engine := &fakeEngine{
		imagePresent: true,
		output:       "Collecting requests\nSuccessfully installed requests\n",
		install:      map[string]string{"requests/__init__.py": ""},
	}
	logger, rec := testutil.NewRecordingLogger()

	if err := NewContainerBuilder(engine, ImageOptions{}, Options{Logger: logger}).Build(context.Background(), p); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if len(engine.runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(engine.runs))
	}
	run := engine.runs[0]
	if run.Image != "lambci/lambda:build-python3.7" {
		t.Errorf("Image = %q", run.Image)
	}
	if !run.Remove {
		t.Error("build containers must be removed on exit")
	}
	if !strings.HasPrefix(run.Name, "rpdk-build-") {
		t.Errorf("Name = %q", run.Name)
	}
	if !slices.Equal(run.Command, PipCommand(ContainerMountPath, true)) {
		t.Errorf("Command = %v", run.Command)
	}
	if len(run.Volumes) != 1 {
		t.Fatalf("Volumes = %v", run.Volumes)
	}
	vol := run.Volumes[0]
	if string(vol.HostPath) != p.Root || vol.ContainerPath != ContainerMountPath || vol.ReadOnly {
		t.Errorf("volume = %+v, want read-write %s:%s", vol, p.Root, ContainerMountPath)
	}

	if len(rec.Find(slog.LevelWarn, "Starting container build")) != 1 {
		t.Error("expected a warning before the build starts")
	}
	if len(rec.Find(slog.LevelWarn, "will be pulled")) != 0 {
		t.Error("no pull warning expected for a present image")
	}
	lines := rec.Find(slog.LevelDebug, "build output")
	if len(lines) != 2 || lines[1].Attrs["line"] != "Successfully installed requests" {
		t.Errorf("build output entries = %+v", lines)
	}
}

func TestContainerBuilder_WarnsWhenImageAbsent(t *testing.T) {
	t.Parallel()

	p := testutil.NewProject(t, testutil.ProjectFixture{UseDocker: true})
	engine := &fakeEngine{}
	logger, rec := testutil.NewRecordingLogger()

	if err := NewContainerBuilder(engine, ImageOptions{}, Options{Logger: logger}).Build(context.Background(), p); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(rec.Find(slog.LevelWarn, "will be pulled")) != 1 {
		t.Error("expected a pull warning for an absent image")
	}
}

func TestContainerBuilder_Failures(t *testing.T) {
	t.Parallel()

	engineErr := errors.New("Cannot connect to the Docker daemon")
	tests := []struct {
		name      string
		engine    *fakeEngine
		wantCause error
	}{
		{name: "engine error", engine: &fakeEngine{imagePresent: true, runErr: engineErr}, wantCause: engineErr},
		{name: "non-zero exit", engine: &fakeEngine{imagePresent: true, exitCode: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := testutil.NewProject(t, testutil.ProjectFixture{UseDocker: true})

			err := NewContainerBuilder(tt.engine, ImageOptions{}, Options{}).Build(context.Background(), p)
			if !errors.Is(err, ErrDownstreamBuild) {
				t.Fatalf("Build() error = %v, want ErrDownstreamBuild", err)
			}
			var dsErr *DownstreamBuildError
			if !errors.As(err, &dsErr) || dsErr.Strategy != StrategyContainerized {
				t.Errorf("expected *DownstreamBuildError from the containerized strategy, got %v", err)
			}
			if tt.wantCause != nil && !errors.Is(err, tt.wantCause) {
				t.Errorf("engine error not reachable: %v", err)
			}
		})
	}
}

func TestContainerBuilder_ImageCheckErrorIsNotFatal(t *testing.T) {
	t.Parallel()

	p := testutil.NewProject(t, testutil.ProjectFixture{UseDocker: true})
	engine := &fakeEngine{imageErr: errors.New("permission denied")}

	if err := NewContainerBuilder(engine, ImageOptions{}, Options{}).Build(context.Background(), p); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(engine.runs) != 1 {
		t.Error("build should proceed when the image check fails")
	}
}
