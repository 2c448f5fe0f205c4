// SPDX-License-Identifier: MPL-2.0

package scaffold

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// ResourceModelName is the model generated from the schema's top-level properties.
const ResourceModelName = "ResourceModel"

const definitionsRefPrefix = "#/definitions/"

type (
	// Model is a generated data class.
	Model struct {
		Name       string
		Properties []Property
	}

	// Property is a field of a generated data class.
	Property struct {
		// Name is the schema property name.
		Name string
		// Type is the Python type annotation.
		Type string
		// Deserialize is the Python expression converting the raw JSON value.
		Deserialize string
	}

	// ModelResolver turns a resource schema into data models.
	ModelResolver interface {
		Resolve(schema map[string]any) ([]Model, error)
	}

	// DefaultResolver produces ResourceModel from the top-level properties and one
	// model per object definition or nested object property.
	DefaultResolver struct{}

	typeKind int

	pyType struct {
		kind typeKind
		name string
		item *pyType
	}

	resolver struct {
		definitions map[string]any
		defModels   map[string]string
		taken       map[string]bool
		inline      []Model
		resolving   map[string]bool
	}
)

const (
	kindAny typeKind = iota
	kindPrimitive
	kindModel
	kindList
	kindSet
	kindDict
)

// annotation returns the type without the outer Optional.
func (t pyType) annotation() string {
	switch t.kind {
	case kindPrimitive:
		return t.name
	case kindModel:
		return `"` + t.name + `"`
	case kindList:
		return "Sequence[" + t.item.annotation() + "]"
	case kindSet:
		return "AbstractSet[" + t.item.annotation() + "]"
	case kindDict:
		return "MutableMapping[str, Any]"
	default:
		return "Any"
	}
}

func (t pyType) deserialize(prop string) string {
	raw := fmt.Sprintf("json_data.get(%q)", prop)
	switch {
	case t.kind == kindModel:
		return t.name + "._deserialize(" + raw + ")"
	case t.kind == kindList && t.item.kind == kindModel:
		return "deserialize_list(" + raw + ", " + t.item.name + ")"
	case t.kind == kindSet:
		return "set_or_none(" + raw + ")"
	default:
		return raw
	}
}

// Resolve implements ModelResolver. Properties are ordered by name.
func (DefaultResolver) Resolve(schema map[string]any) ([]Model, error) {
	r := &resolver{
		defModels: make(map[string]string),
		taken:     map[string]bool{ResourceModelName: true},
		resolving: make(map[string]bool),
	}
	r.definitions, _ = schema["definitions"].(map[string]any)

	// Object definitions are named up front so references to them, including
	// recursive ones, resolve without expanding the definition.
	defNames := sortedKeys(r.definitions)
	for _, name := range defNames {
		if def, ok := r.definitions[name].(map[string]any); ok && isObjectModel(def) {
			r.defModels[name] = r.reserve(pascalCase(name))
		}
	}

	props, _ := schema["properties"].(map[string]any)
	root, err := r.model(ResourceModelName, props)
	if err != nil {
		return nil, err
	}

	models := []Model{root}
	for _, name := range defNames {
		modelName, ok := r.defModels[name]
		if !ok {
			continue
		}
		defProps, _ := r.definitions[name].(map[string]any)["properties"].(map[string]any)
		m, err := r.model(modelName, defProps)
		if err != nil {
			return nil, err
		}
		models = append(models, m)
	}
	return append(models, r.inline...), nil
}

func (r *resolver) model(name string, props map[string]any) (Model, error) {
	m := Model{Name: name}
	for _, propName := range sortedKeys(props) {
		propSchema, ok := props[propName].(map[string]any)
		if !ok {
			return Model{}, fmt.Errorf("property %s of %s: schema must be an object", propName, name)
		}
		t, err := r.translate(propName, propSchema)
		if err != nil {
			return Model{}, fmt.Errorf("property %s of %s: %w", propName, name, err)
		}
		m.Properties = append(m.Properties, Property{
			Name:        propName,
			Type:        "Optional[" + t.annotation() + "]",
			Deserialize: t.deserialize(propName),
		})
	}
	return m, nil
}

func (r *resolver) translate(propName string, schema map[string]any) (pyType, error) {
	if ref, ok := schema["$ref"].(string); ok {
		return r.translateRef(propName, ref)
	}

	typ, _ := schema["type"].(string)
	if typ == "" && schema["properties"] != nil {
		typ = "object"
	}

	switch typ {
	case "string":
		return pyType{kind: kindPrimitive, name: "str"}, nil
	case "integer":
		return pyType{kind: kindPrimitive, name: "int"}, nil
	case "number":
		return pyType{kind: kindPrimitive, name: "float"}, nil
	case "boolean":
		return pyType{kind: kindPrimitive, name: "bool"}, nil
	case "array":
		items, ok := schema["items"].(map[string]any)
		if !ok {
			return pyType{kind: kindList, item: &pyType{kind: kindAny}}, nil
		}
		item, err := r.translate(propName, items)
		if err != nil {
			return pyType{}, err
		}
		if unique, _ := schema["uniqueItems"].(bool); unique && item.kind == kindPrimitive {
			return pyType{kind: kindSet, item: &item}, nil
		}
		return pyType{kind: kindList, item: &item}, nil
	case "object":
		if !isObjectModel(schema) {
			return pyType{kind: kindDict}, nil
		}
		props, _ := schema["properties"].(map[string]any)
		name := r.reserve(pascalCase(propName))
		m, err := r.model(name, props)
		if err != nil {
			return pyType{}, err
		}
		r.inline = append(r.inline, m)
		return pyType{kind: kindModel, name: name}, nil
	default:
		return pyType{kind: kindAny}, nil
	}
}

func (r *resolver) translateRef(propName, ref string) (pyType, error) {
	defName, ok := strings.CutPrefix(ref, definitionsRefPrefix)
	if !ok {
		return pyType{}, fmt.Errorf("unsupported reference %q", ref)
	}
	if modelName, ok := r.defModels[defName]; ok {
		return pyType{kind: kindModel, name: modelName}, nil
	}
	def, ok := r.definitions[defName].(map[string]any)
	if !ok {
		return pyType{}, fmt.Errorf("reference %q does not resolve", ref)
	}
	if r.resolving[defName] {
		return pyType{kind: kindAny}, nil
	}
	r.resolving[defName] = true
	defer delete(r.resolving, defName)
	return r.translate(propName, def)
}

// reserve returns name, or name with a numeric suffix when already taken.
func (r *resolver) reserve(name string) string {
	candidate := name
	for i := 2; r.taken[candidate]; i++ {
		candidate = fmt.Sprintf("%s%d", name, i)
	}
	r.taken[candidate] = true
	return candidate
}

func isObjectModel(schema map[string]any) bool {
	props, ok := schema["properties"].(map[string]any)
	return ok && len(props) > 0
}

func pascalCase(s string) string {
	var b strings.Builder
	upper := true
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	if b.Len() == 0 {
		return "Model"
	}
	name := b.String()
	if unicode.IsDigit(rune(name[0])) {
		name = "Model" + name
	}
	return name
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
