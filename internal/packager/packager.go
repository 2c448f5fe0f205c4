// SPDX-License-Identifier: MPL-2.0

package packager

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/rpdk/rpdk-python/internal/build"
	"github.com/rpdk/rpdk-python/internal/project"
)

const bytecodeSuffix = ".pyc"

type (
	// Packager builds dependencies and archives them with the handler package.
	Packager struct {
		selector          build.Selector
		supportLibVersion string
		logger            *slog.Logger
	}

	// Option configures a Packager.
	Option func(*Packager)
)

// WithLogger sets the logger used for progress output.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Packager) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithSupportLibVersion sets the support library version whose archive must be
// present in the project root before any builder is resolved.
func WithSupportLibVersion(version string) Option {
	return func(p *Packager) {
		p.supportLibVersion = version
	}
}

// New creates a Packager resolving builders through selector.
func New(selector build.Selector, opts ...Option) *Packager {
	p := &Packager{
		selector: selector,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Package removes stale build output, runs the project's build strategy and writes
// the artifact archive to out. Nothing is written to out when the build fails.
func (pk *Packager) Package(ctx context.Context, p *project.Project, out io.Writer) error {
	pk.logger.Debug("package started", "type", p.TypeName)

	handlerDir := p.HandlerDir()
	depsDir := p.BuildDir()

	if err := RemoveBuildArtifacts(depsDir, pk.logger); err != nil {
		return err
	}

	// Builders may contact a container engine when resolved, so the precondition
	// is checked first.
	if _, err := build.CheckSupportArtifact(p.Root, pk.supportLibVersion); err != nil {
		return err
	}

	strategy := build.StrategyFor(p.Settings.UseDocker)
	builder, err := pk.selector.Builder(ctx, strategy)
	if err != nil {
		return err
	}
	pk.logger.Debug("dependencies build started", "strategy", strategy, "root", p.Root)
	if err := builder.Build(ctx, p); err != nil {
		return err
	}
	pk.logger.Debug("dependencies build finished", "strategy", strategy)

	handlerEntries, err := collect(handlerDir, p.PackageRoot(), excludeBytecode)
	if err != nil {
		return err
	}
	depEntries, err := collect(depsDir, depsDir, nil)
	if err != nil {
		return err
	}

	if err := WriteDeterministicZip(out, handlerEntries, depEntries); err != nil {
		return fmt.Errorf("failed to write artifact archive: %w", err)
	}
	pk.logger.Debug("package complete", "handler_files", len(handlerEntries), "dependency_files", len(depEntries))
	return nil
}

// PackageFile packages p into path, or into the project's default archive path when
// path is empty. An existing file is replaced only after packaging succeeds.
func (pk *Packager) PackageFile(ctx context.Context, p *project.Project, path string) (string, error) {
	if path == "" {
		path = p.ArchivePath()
	}
	var buf bytes.Buffer
	if err := pk.Package(ctx, p, &buf); err != nil {
		return "", err
	}
	if err := project.Overwrite(path, buf.Bytes()); err != nil {
		return "", err
	}
	return path, nil
}

// RemoveBuildArtifacts deletes the build output directory. A missing directory is
// not an error.
func RemoveBuildArtifacts(dir string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if _, err := os.Lstat(dir); errors.Is(err, fs.ErrNotExist) {
		logger.Debug("build output not found, skipping removal", "path", dir)
		return nil
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove build output %s: %w", dir, err)
	}
	return nil
}

func excludeBytecode(name string) bool {
	return strings.HasSuffix(name, bytecodeSuffix)
}

// collect returns the regular files under dir named relative to base. Symlinks are
// followed when deciding whether an entry is a regular file. A missing dir yields no
// entries.
func collect(dir, base string, exclude func(name string) bool) ([]Entry, error) {
	var entries []Entry
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir && errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !info.Mode().IsRegular() || (exclude != nil && exclude(d.Name())) {
			return nil
		}
		rel, err := filepath.Rel(base, path)
		if err != nil {
			return err
		}
		entries = append(entries, Entry{Name: filepath.ToSlash(rel), Source: path, Mode: info.Mode()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	return entries, nil
}
