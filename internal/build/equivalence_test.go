// SPDX-License-Identifier: MPL-2.0

package build

import (
	"context"
	"os"
	"slices"
	"testing"

	"github.com/rpdk/rpdk-python/internal/testutil"
)

func TestStrategiesProduceSameBuildLayout(t *testing.T) {
	t.Parallel()

	installed := map[string]string{
		"requests/__init__.py":               "",
		"cloudformation_cli_python_lib/a.py": "",
		"six.py":                             "",
		"requests-2.22.0.dist-info/METADATA": "",
	}

	local := testutil.NewProject(t, testutil.ProjectFixture{})
	if err := NewLocalBuilder(&spyRunner{install: installed}, Options{}).Build(context.Background(), local); err != nil {
		t.Fatalf("local Build() error = %v", err)
	}

	containerized := testutil.NewProject(t, testutil.ProjectFixture{UseDocker: true})
	engine := &fakeEngine{imagePresent: true, install: installed}
	if err := NewContainerBuilder(engine, ImageOptions{}, Options{}).Build(context.Background(), containerized); err != nil {
		t.Fatalf("containerized Build() error = %v", err)
	}

	localNames := topLevelNames(t, local.BuildDir())
	containerNames := topLevelNames(t, containerized.BuildDir())
	if !slices.Equal(localNames, containerNames) {
		t.Errorf("build layouts differ:\n  local:         %v\n  containerized: %v", localNames, containerNames)
	}
	if len(localNames) != 4 {
		t.Errorf("expected 4 top-level entries, got %v", localNames)
	}
}

func topLevelNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir(%s) error = %v", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
