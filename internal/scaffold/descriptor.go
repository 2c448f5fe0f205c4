// SPDX-License-Identifier: MPL-2.0

package scaffold

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/rpdk/rpdk-python/internal/project"
)

const (
	// TypeFunctionName is the deployment descriptor function serving requests.
	TypeFunctionName = "TypeFunction"
	// TestEntrypointName is the deployment descriptor function used for local testing.
	TestEntrypointName = "TestEntrypoint"
)

type (
	// Descriptor is the serverless deployment descriptor written to template.yml.
	Descriptor struct {
		FormatVersion string                   `yaml:"AWSTemplateFormatVersion"`
		Transform     string                   `yaml:"Transform"`
		Description   string                   `yaml:"Description"`
		Globals       DescriptorGlobals        `yaml:"Globals"`
		Resources     map[string]FunctionEntry `yaml:"Resources"`
	}

	// DescriptorGlobals holds settings shared by every function.
	DescriptorGlobals struct {
		Function struct {
			Timeout int `yaml:"Timeout"`
		} `yaml:"Function"`
	}

	// FunctionEntry is a serverless function resource.
	FunctionEntry struct {
		Type       string             `yaml:"Type"`
		Properties FunctionProperties `yaml:"Properties"`
	}

	// FunctionProperties are the properties of a serverless function.
	FunctionProperties struct {
		Handler string `yaml:"Handler"`
		Runtime string `yaml:"Runtime"`
		CodeURI string `yaml:"CodeUri"`
	}
)

// NewDescriptor declares the request and test functions of p. Both share the runtime
// and artifact; only the handler differs.
func NewDescriptor(p *project.Project) Descriptor {
	fn := func(handler string) FunctionEntry {
		return FunctionEntry{
			Type: "AWS::Serverless::Function",
			Properties: FunctionProperties{
				Handler: handler,
				Runtime: p.Runtime.Identifier,
				CodeURI: p.CodeURI(),
			},
		}
	}

	d := Descriptor{
		FormatVersion: "2010-09-09",
		Transform:     "AWS::Serverless-2016-10-31",
		Description:   fmt.Sprintf("AWS SAM template for the %s resource type", p.TypeName),
		Resources: map[string]FunctionEntry{
			TypeFunctionName:   fn(p.Entrypoint),
			TestEntrypointName: fn(project.TestEntrypointFor(p.Entrypoint)),
		},
	}
	// Handler timeout in seconds.
	d.Globals.Function.Timeout = 60
	return d
}

// Marshal encodes d as YAML.
func (d Descriptor) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("failed to encode deployment descriptor: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode deployment descriptor: %w", err)
	}
	return buf.Bytes(), nil
}
