// SPDX-License-Identifier: MPL-2.0

package scaffold

import (
	"encoding/json"
	"testing"
)

func decodeSchema(t *testing.T, src string) map[string]any {
	t.Helper()
	var schema map[string]any
	if err := json.Unmarshal([]byte(src), &schema); err != nil {
		t.Fatalf("bad test schema: %v", err)
	}
	return schema
}

func findModel(models []Model, name string) *Model {
	for i := range models {
		if models[i].Name == name {
			return &models[i]
		}
	}
	return nil
}

func propertyType(m *Model, name string) string {
	for _, p := range m.Properties {
		if p.Name == name {
			return p.Type
		}
	}
	return ""
}

func TestDefaultResolver(t *testing.T) {
	t.Parallel()

	schema := decodeSchema(t, `{
		"typeName": "My::Example::Resource",
		"properties": {
			"Id": {"type": "string"},
			"Count": {"type": "integer"},
			"Ratio": {"type": "number"},
			"Enabled": {"type": "boolean"},
			"Labels": {"type": "array", "uniqueItems": true, "items": {"type": "string"}},
			"Tags": {"type": "array", "uniqueItems": false, "items": {"$ref": "#/definitions/Tag"}},
			"Settings": {"type": "object", "properties": {"Mode": {"type": "string"}}},
			"Extra": {"type": "object"},
			"Anything": {},
			"Name": {"$ref": "#/definitions/Name"}
		},
		"definitions": {
			"Tag": {
				"type": "object",
				"properties": {"Key": {"type": "string"}, "Value": {"type": "string"}}
			},
			"Name": {"type": "string"}
		}
	}`)

	models, err := DefaultResolver{}.Resolve(schema)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	names := make([]string, 0, len(models))
	for _, m := range models {
		names = append(names, m.Name)
	}
	wantNames := []string{"ResourceModel", "Tag", "Settings"}
	if len(names) != len(wantNames) {
		t.Fatalf("models = %v, want %v", names, wantNames)
	}
	for i := range wantNames {
		if names[i] != wantNames[i] {
			t.Errorf("model %d = %q, want %q", i, names[i], wantNames[i])
		}
	}

	root := findModel(models, ResourceModelName)
	wantTypes := map[string]string{
		"Id":       "Optional[str]",
		"Count":    "Optional[int]",
		"Ratio":    "Optional[float]",
		"Enabled":  "Optional[bool]",
		"Labels":   "Optional[AbstractSet[str]]",
		"Tags":     `Optional[Sequence["Tag"]]`,
		"Settings": `Optional["Settings"]`,
		"Extra":    "Optional[MutableMapping[str, Any]]",
		"Anything": "Optional[Any]",
		"Name":     "Optional[str]",
	}
	for prop, want := range wantTypes {
		if got := propertyType(root, prop); got != want {
			t.Errorf("%s type = %q, want %q", prop, got, want)
		}
	}

	// Properties are sorted for stable output.
	if root.Properties[0].Name != "Anything" {
		t.Errorf("first property = %q", root.Properties[0].Name)
	}

	for _, p := range root.Properties {
		switch p.Name {
		case "Tags":
			if p.Deserialize != `deserialize_list(json_data.get("Tags"), Tag)` {
				t.Errorf("Tags deserialize = %q", p.Deserialize)
			}
		case "Settings":
			if p.Deserialize != `Settings._deserialize(json_data.get("Settings"))` {
				t.Errorf("Settings deserialize = %q", p.Deserialize)
			}
		case "Labels":
			if p.Deserialize != `set_or_none(json_data.get("Labels"))` {
				t.Errorf("Labels deserialize = %q", p.Deserialize)
			}
		}
	}
}

func TestDefaultResolver_RecursiveDefinition(t *testing.T) {
	t.Parallel()

	schema := decodeSchema(t, `{
		"properties": {"Root": {"$ref": "#/definitions/Node"}},
		"definitions": {
			"Node": {
				"type": "object",
				"properties": {"Children": {"type": "array", "items": {"$ref": "#/definitions/Node"}}}
			}
		}
	}`)

	models, err := DefaultResolver{}.Resolve(schema)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	node := findModel(models, "Node")
	if node == nil {
		t.Fatal("Node model missing")
	}
	if got := propertyType(node, "Children"); got != `Optional[Sequence["Node"]]` {
		t.Errorf("Children type = %q", got)
	}
}

func TestDefaultResolver_NameCollision(t *testing.T) {
	t.Parallel()

	schema := decodeSchema(t, `{
		"properties": {"Tag": {"type": "object", "properties": {"A": {"type": "string"}}}},
		"definitions": {"Tag": {"type": "object", "properties": {"B": {"type": "string"}}}}
	}`)

	models, err := DefaultResolver{}.Resolve(schema)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if findModel(models, "Tag") == nil || findModel(models, "Tag2") == nil {
		t.Errorf("expected Tag and Tag2 models, got %+v", models)
	}
}

func TestDefaultResolver_Errors(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"dangling reference": `{"properties": {"A": {"$ref": "#/definitions/Missing"}}}`,
		"remote reference":   `{"properties": {"A": {"$ref": "other.json#/definitions/A"}}}`,
		"non-object schema":  `{"properties": {"A": true}}`,
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if _, err := (DefaultResolver{}).Resolve(decodeSchema(t, src)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestPascalCase(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"settings":    "Settings",
		"log_config":  "LogConfig",
		"Tag":         "Tag",
		"2fa":         "Model2fa",
		"--":          "Model",
		"already-Set": "AlreadySet",
	}
	for in, want := range tests {
		if got := pascalCase(in); got != want {
			t.Errorf("pascalCase(%q) = %q, want %q", in, got, want)
		}
	}
}
