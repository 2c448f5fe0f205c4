// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"path/filepath"
	"testing"

	"github.com/rpdk/rpdk-python/internal/project"
)

// SupportArchive is the support library archive name for the default version.
const SupportArchive = "aws-cloudformation-rpdk-python-lib-0.0.1.tar.gz"

// ProjectFixture describes a project laid out by NewProject.
type ProjectFixture struct {
	// TypeName defaults to "Org::Service::Widget".
	TypeName string
	// UseDocker selects the persisted build strategy.
	UseDocker bool
	// WithoutSupportArchive leaves the support library archive out.
	WithoutSupportArchive bool
	// HandlerFiles maps paths relative to the handler package to content.
	// When nil, __init__.py, handlers.py and a compiled handlers.pyc are written.
	HandlerFiles map[string]string
}

// NewProject creates a project under t.TempDir() and returns it loaded from disk.
func NewProject(t testing.TB, f ProjectFixture) *project.Project {
	t.Helper()

	if f.TypeName == "" {
		f.TypeName = "Org::Service::Widget"
	}
	rt, err := project.LookupRuntime(project.DefaultRuntimeName)
	if err != nil {
		t.Fatal(err)
	}
	p, err := project.New(t.TempDir(), f.TypeName, rt)
	if err != nil {
		t.Fatalf("project.New() error = %v", err)
	}
	p.Settings.UseDocker = f.UseDocker
	if err := p.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	MustWriteFile(t, p.RequirementsPath(), "aws-cloudformation-rpdk-python-lib\nrequests==2.22.0\n")
	if !f.WithoutSupportArchive {
		MustWriteFile(t, filepath.Join(p.Root, SupportArchive), "sdist")
	}

	files := f.HandlerFiles
	if files == nil {
		files = map[string]string{
			"__init__.py":                         "",
			"handlers.py":                         "def resource(event, context):\n    pass\n",
			"__pycache__/handlers.cpython-37.pyc": "\x00compiled",
			"handlers.pyc":                        "\x00compiled",
		}
	}
	for rel, content := range files {
		MustWriteFile(t, filepath.Join(p.HandlerDir(), filepath.FromSlash(rel)), content)
	}

	loaded, err := project.Load(p.Root)
	if err != nil {
		t.Fatalf("project.Load() error = %v", err)
	}
	return loaded
}
