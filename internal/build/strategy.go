// SPDX-License-Identifier: MPL-2.0

package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/rpdk/rpdk-python/internal/project"
)

const (
	// StrategyContainerized runs pip inside a runtime build image.
	StrategyContainerized Strategy = iota + 1
	// StrategyLocal runs pip on the host.
	StrategyLocal
)

const (
	// SupportLibName is the distribution name of the handler support library.
	SupportLibName = "aws-cloudformation-rpdk-python-lib"
	// DefaultSupportLibVersion is the support library version expected next to the manifest.
	DefaultSupportLibVersion = "0.0.1"

	// ContainerMountPath is where the project root is mounted inside build containers.
	ContainerMountPath = "/project"
)

type (
	// Strategy selects how dependencies are installed.
	Strategy int

	// Builder installs dependencies for a project into its build output directory.
	Builder interface {
		Strategy() Strategy
		Build(ctx context.Context, p *project.Project) error
	}

	// Options carries settings shared by both strategies.
	Options struct {
		// SupportLibVersion is the version embedded in the support archive name.
		SupportLibVersion string
		// Logger receives progress and streamed build output.
		Logger *slog.Logger
	}
)

// StrategyFor maps the persisted use_docker flag to a strategy.
func StrategyFor(useDocker bool) Strategy {
	if useDocker {
		return StrategyContainerized
	}
	return StrategyLocal
}

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategyContainerized:
		return "containerized"
	case StrategyLocal:
		return "local"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

func (o Options) withDefaults() Options {
	if o.SupportLibVersion == "" {
		o.SupportLibVersion = DefaultSupportLibVersion
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// SupportArchiveName returns the file name of the support library source distribution.
func SupportArchiveName(version string) string {
	if version == "" {
		version = DefaultSupportLibVersion
	}
	return SupportLibName + "-" + version + ".tar.gz"
}

// CheckSupportArtifact verifies the support library archive exists under root.
// Symlinks are resolved and must point at an existing file.
func CheckSupportArtifact(root, version string) (string, error) {
	archive := filepath.Join(root, SupportArchiveName(version))
	resolved, err := filepath.EvalSymlinks(archive)
	if err != nil {
		return "", &MissingSupportArtifactError{Path: archive, Cause: err}
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return "", &MissingSupportArtifactError{Path: archive, Cause: err}
	}
	if info.IsDir() {
		return "", &MissingSupportArtifactError{Path: archive, Cause: fmt.Errorf("%s is a directory", resolved)}
	}
	return resolved, nil
}

// PipCommand returns the pip install command for a project rooted at base. With posix
// set, paths are joined with forward slashes regardless of the host OS, for use
// inside build containers.
func PipCommand(base string, posix bool) []string {
	join := filepath.Join
	if posix {
		join = path.Join
	}
	return []string{
		"pip",
		"install",
		"--no-cache-dir",
		"--no-color",
		"--disable-pip-version-check",
		"--upgrade",
		"--find-links", base,
		"--requirement", join(base, "requirements.txt"),
		"--target", join(base, "build"),
	}
}
