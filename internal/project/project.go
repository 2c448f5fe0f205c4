// SPDX-License-Identifier: MPL-2.0

package project

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rpdk/rpdk-python/internal/cueutil"
)

const (
	// SettingsFileName is the project settings file at the project root.
	SettingsFileName = ".rpdk-config"
	// DefaultProtocolVersion is the handler protocol version written at init.
	DefaultProtocolVersion = "2.0.0"

	sourceDirName = "src"
	buildDirName  = "build"

	entrypointSuffix     = ".resource"
	testEntrypointSuffix = ".test_entrypoint"
)

var (
	// ErrProjectNotFound is the sentinel error wrapped by ProjectNotFoundError.
	ErrProjectNotFound = errors.New("project not found")

	// ErrInvalidTypeName is the sentinel error wrapped by InvalidTypeNameError.
	ErrInvalidTypeName = errors.New("invalid resource type name")

	// ErrInvalidSettings is returned (wrapped) when the settings file fails validation.
	ErrInvalidSettings = errors.New("invalid project settings")

	//go:embed settings.cue
	settingsSchema []byte

	typeNamePattern = regexp.MustCompile(`^[a-zA-Z0-9]{2,64}::[a-zA-Z0-9]{2,64}::[a-zA-Z0-9]{2,64}$`)
)

type (
	// Project is a resource provider project rooted at Root.
	Project struct {
		// TypeName is the resource type, e.g. "AWS::Color::Red".
		TypeName string
		// Namespace is the lower-cased type name parts.
		Namespace []string
		// PackageName is the handler package name, e.g. "aws_color_red".
		PackageName string
		// HyphenatedName names the artifact and schema files, e.g. "aws-color-red".
		HyphenatedName string
		// Root is the project root directory.
		Root string
		// Runtime is the language runtime the handler targets.
		Runtime Runtime
		// Entrypoint is the handler reference of the primary function.
		Entrypoint string
		// TestEntrypoint is the handler reference of the test function.
		TestEntrypoint string
		// Settings holds plugin settings persisted across runs.
		Settings Settings
	}

	// Settings are the plugin-specific values persisted in the settings file.
	Settings struct {
		// UseDocker selects the containerized dependency build.
		UseDocker bool
		// ProtocolVersion is the handler protocol version.
		ProtocolVersion string
	}

	// ProjectNotFoundError is returned when Root has no settings file.
	ProjectNotFoundError struct {
		Root string
	}

	// InvalidTypeNameError is returned when a type name is not of the form A::B::C.
	InvalidTypeNameError struct {
		Value string
	}

	settingsFile struct {
		TypeName       string           `json:"typeName"`
		Language       string           `json:"language"`
		Runtime        string           `json:"runtime"`
		Entrypoint     string           `json:"entrypoint"`
		TestEntrypoint string           `json:"testEntrypoint"`
		Settings       settingsFileBody `json:"settings"`
	}

	settingsFileBody struct {
		UseDocker       *bool  `json:"use_docker,omitempty"`
		ProtocolVersion string `json:"protocolVersion,omitempty"`
	}
)

// Error implements the error interface.
func (e *ProjectNotFoundError) Error() string {
	return fmt.Sprintf("no %s found in %s", SettingsFileName, e.Root)
}

// Unwrap returns ErrProjectNotFound for errors.Is() compatibility.
func (e *ProjectNotFoundError) Unwrap() error { return ErrProjectNotFound }

// Error implements the error interface.
func (e *InvalidTypeNameError) Error() string {
	return fmt.Sprintf("invalid resource type name %q (expected Organization::Service::Resource)", e.Value)
}

// Unwrap returns ErrInvalidTypeName for errors.Is() compatibility.
func (e *InvalidTypeNameError) Unwrap() error { return ErrInvalidTypeName }

// ValidateTypeName returns an error unless name has three alphanumeric parts of
// 2 to 64 characters separated by "::".
func ValidateTypeName(name string) error {
	if !typeNamePattern.MatchString(name) {
		return &InvalidTypeNameError{Value: name}
	}
	return nil
}

// New creates a project for a type that has not been initialized yet. Containerized
// builds are selected until settings say otherwise.
func New(root, typeName string, runtime Runtime) (*Project, error) {
	if err := ValidateTypeName(typeName); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}

	p := &Project{
		TypeName: typeName,
		Root:     abs,
		Runtime:  runtime,
		Settings: Settings{UseDocker: true, ProtocolVersion: DefaultProtocolVersion},
	}
	p.deriveNames()
	p.Entrypoint = p.PackageName + ".handlers" + entrypointSuffix
	p.TestEntrypoint = TestEntrypointFor(p.Entrypoint)
	return p, nil
}

// Load reads the settings file under root.
func Load(root string) (*Project, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}

	path := filepath.Join(abs, SettingsFileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &ProjectNotFoundError{Root: abs}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	sf, err := cueutil.Decode[settingsFile](settingsSchema, data, "#Settings", cueutil.WithFilename(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}

	rt, err := LookupRuntime(sf.Language)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	if rt.Identifier != sf.Runtime {
		return nil, fmt.Errorf("%w: language %s does not match runtime %s", ErrInvalidSettings, sf.Language, sf.Runtime)
	}

	p := &Project{
		TypeName:       sf.TypeName,
		Root:           abs,
		Runtime:        rt,
		Entrypoint:     sf.Entrypoint,
		TestEntrypoint: sf.TestEntrypoint,
		Settings: Settings{
			UseDocker:       true,
			ProtocolVersion: sf.Settings.ProtocolVersion,
		},
	}
	if sf.Settings.UseDocker != nil {
		p.Settings.UseDocker = *sf.Settings.UseDocker
	}
	if p.Settings.ProtocolVersion == "" {
		p.Settings.ProtocolVersion = DefaultProtocolVersion
	}
	p.deriveNames()
	return p, nil
}

// Save writes the settings file, replacing any previous content.
func (p *Project) Save() error {
	useDocker := p.Settings.UseDocker
	sf := settingsFile{
		TypeName:       p.TypeName,
		Language:       p.Runtime.Name,
		Runtime:        p.Runtime.Identifier,
		Entrypoint:     p.Entrypoint,
		TestEntrypoint: p.TestEntrypoint,
		Settings: settingsFileBody{
			UseDocker:       &useDocker,
			ProtocolVersion: p.Settings.ProtocolVersion,
		},
	}
	data, err := json.MarshalIndent(sf, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return Overwrite(p.SettingsPath(), append(data, '\n'))
}

func (p *Project) deriveNames() {
	parts := strings.Split(p.TypeName, "::")
	p.Namespace = make([]string, len(parts))
	for i, part := range parts {
		p.Namespace[i] = strings.ToLower(part)
	}
	p.PackageName = strings.Join(p.Namespace, "_")
	p.HyphenatedName = strings.Join(p.Namespace, "-")
}

// TestEntrypointFor derives the test handler reference from the primary one.
func TestEntrypointFor(entrypoint string) string {
	return strings.Replace(entrypoint, entrypointSuffix, testEntrypointSuffix, 1)
}

// SettingsPath returns the settings file path.
func (p *Project) SettingsPath() string {
	return filepath.Join(p.Root, SettingsFileName)
}

// PackageRoot returns the directory holding handler packages.
func (p *Project) PackageRoot() string {
	return filepath.Join(p.Root, sourceDirName)
}

// HandlerDir returns the handler package directory.
func (p *Project) HandlerDir() string {
	return filepath.Join(p.PackageRoot(), p.PackageName)
}

// BuildDir returns the dependency build output directory.
func (p *Project) BuildDir() string {
	return filepath.Join(p.Root, buildDirName)
}

// RequirementsPath returns the dependency manifest path.
func (p *Project) RequirementsPath() string {
	return filepath.Join(p.Root, "requirements.txt")
}

// SchemaPath returns the resource schema path.
func (p *Project) SchemaPath() string {
	return filepath.Join(p.Root, p.HyphenatedName+".json")
}

// ArchivePath returns the default artifact archive path.
func (p *Project) ArchivePath() string {
	return filepath.Join(p.Root, p.HyphenatedName+".zip")
}

// CodeURI returns the artifact name referenced by the deployment descriptor.
func (p *Project) CodeURI() string {
	return p.HyphenatedName + ".zip"
}
