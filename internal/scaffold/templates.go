// SPDX-License-Identifier: MPL-2.0

package scaffold

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/rpdk/rpdk-python/internal/build"
)

// Executable is the name users invoke the tool by; it appears in generated docs.
const Executable = "rpdk-python"

var (
	//go:embed templates
	templateFS embed.FS

	templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

	// supportLibPkg is the import name of the support library.
	supportLibPkg = strings.ReplaceAll(build.SupportLibName, "-", "_")
)

// templateData is the data passed to every template.
type templateData struct {
	TypeName       string
	SupportLibName string
	SupportLibPkg  string
	SupportArchive string
	SchemaFile     string
	HandlerPath    string
	Executable     string
	Models         []Model
}

func renderTemplate(name string, data templateData) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func staticFile(name string) ([]byte, error) {
	data, err := templateFS.ReadFile("templates/" + name)
	if err != nil {
		return nil, fmt.Errorf("missing embedded file %s: %w", name, err)
	}
	return data, nil
}
