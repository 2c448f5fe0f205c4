// SPDX-License-Identifier: MPL-2.0

package scaffold

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/rpdk/rpdk-python/internal/build"
	"github.com/rpdk/rpdk-python/internal/project"
)

type (
	// Generator writes project files.
	Generator struct {
		prompter          Prompter
		resolver          ModelResolver
		supportLibVersion string
		logger            *slog.Logger
	}

	// Option configures a Generator.
	Option func(*Generator)

	// InitOptions control Init.
	InitOptions struct {
		// UseDocker selects the build strategy. When nil the prompter is asked.
		UseDocker *bool
	}

	scaffoldFile struct {
		path     string
		render   func() ([]byte, error)
		ifAbsent bool
	}
)

// WithPrompter sets the prompter asked for the build strategy.
func WithPrompter(p Prompter) Option {
	return func(g *Generator) {
		g.prompter = p
	}
}

// WithResolver replaces the model resolver used by Generate.
func WithResolver(r ModelResolver) Option {
	return func(g *Generator) {
		if r != nil {
			g.resolver = r
		}
	}
}

// WithSupportLibVersion sets the support library version named in generated docs.
func WithSupportLibVersion(version string) Option {
	return func(g *Generator) {
		if version != "" {
			g.supportLibVersion = version
		}
	}
}

// WithLogger sets the logger used for progress output.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// New creates a Generator.
func New(opts ...Option) *Generator {
	g := &Generator{
		resolver:          DefaultResolver{},
		supportLibVersion: build.DefaultSupportLibVersion,
		logger:            slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Init creates the handler package and project support files for p and persists
// its settings. Existing files with different content are not replaced.
func (g *Generator) Init(ctx context.Context, p *project.Project, opts InitOptions) error {
	g.logger.Debug("init started", "type", p.TypeName, "root", p.Root)

	useDocker, err := g.useDocker(ctx, opts)
	if err != nil {
		return err
	}
	p.Settings.UseDocker = useDocker

	data := g.data(p)
	files := []scaffoldFile{
		{path: filepath.Join(p.HandlerDir(), "__init__.py"), render: func() ([]byte, error) { return staticFile("init.py") }},
		{path: filepath.Join(p.HandlerDir(), "handlers.py"), render: func() ([]byte, error) { return renderTemplate("handlers.py.tmpl", data) }},
		{path: filepath.Join(p.Root, ".gitignore"), render: func() ([]byte, error) { return staticFile("gitignore") }},
		{path: p.RequirementsPath(), render: func() ([]byte, error) { return renderTemplate("requirements.txt.tmpl", data) }},
		{path: filepath.Join(p.Root, "README.md"), render: func() ([]byte, error) { return renderTemplate("README.md.tmpl", data) }},
		{path: filepath.Join(p.Root, "template.yml"), render: func() ([]byte, error) { return NewDescriptor(p).Marshal() }},
		{path: p.SchemaPath(), render: func() ([]byte, error) { return renderTemplate("schema.json.tmpl", data) }, ifAbsent: true},
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if f.ifAbsent {
			if _, err := os.Stat(f.path); err == nil {
				g.logger.Debug("keeping existing file", "path", f.path)
				continue
			}
		}
		contents, err := f.render()
		if err != nil {
			return err
		}
		g.logger.Debug("writing file", "path", f.path)
		if err := project.SafeWrite(f.path, contents); err != nil {
			return err
		}
	}

	if err := p.Save(); err != nil {
		return err
	}
	g.logger.Debug("init complete", "use_docker", useDocker)
	return nil
}

// Generate validates the resource schema of p and rewrites models.py from it.
func (g *Generator) Generate(ctx context.Context, p *project.Project) error {
	g.logger.Debug("generate started", "type", p.TypeName)

	schemaPath := p.SchemaPath()
	raw, err := os.ReadFile(schemaPath)
	if errors.Is(err, fs.ErrNotExist) {
		return &InvalidSchemaError{Path: schemaPath, Cause: err}
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", schemaPath, err)
	}

	schema, err := compileSchema(schemaPath, raw)
	if err != nil {
		return &InvalidSchemaError{Path: schemaPath, Cause: err}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	models, err := g.resolver.Resolve(schema)
	if err != nil {
		return &InvalidSchemaError{Path: schemaPath, Cause: err}
	}

	data := g.data(p)
	data.Models = models
	contents, err := renderTemplate("models.py.tmpl", data)
	if err != nil {
		return err
	}

	path := filepath.Join(p.HandlerDir(), "models.py")
	g.logger.Debug("writing file", "path", path)
	if err := project.Overwrite(path, contents); err != nil {
		return err
	}
	g.logger.Debug("generate complete", "models", len(models))
	return nil
}

func (g *Generator) useDocker(ctx context.Context, opts InitOptions) (bool, error) {
	if opts.UseDocker != nil {
		return *opts.UseDocker, nil
	}
	if g.prompter == nil {
		return false, ErrNoPrompter
	}
	return g.prompter.Confirm(ctx, useDockerQuestion, useDockerHelp)
}

func (g *Generator) data(p *project.Project) templateData {
	return templateData{
		TypeName:       p.TypeName,
		SupportLibName: build.SupportLibName,
		SupportLibPkg:  supportLibPkg,
		SupportArchive: build.SupportArchiveName(g.supportLibVersion),
		SchemaFile:     filepath.Base(p.SchemaPath()),
		HandlerPath:    filepath.ToSlash(filepath.Join("src", p.PackageName, "handlers.py")),
		Executable:     Executable,
	}
}

// compileSchema checks raw is a JSON Schema document and returns it decoded.
func compileSchema(path string, raw []byte) (map[string]any, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	schema, ok := doc.(map[string]any)
	if !ok {
		return nil, errors.New("schema document must be a JSON object")
	}

	url := "file://" + filepath.ToSlash(path)
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, err
	}
	if _, err := c.Compile(url); err != nil {
		return nil, err
	}
	return schema, nil
}
