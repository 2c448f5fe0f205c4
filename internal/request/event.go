// SPDX-License-Identifier: MPL-2.0

package request

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

const (
	keyAccountID           = "awsAccountId"
	keyRegion              = "region"
	keyResourceType        = "resourceType"
	keyResourceTypeVersion = "resourceTypeVersion"
	keyStackID             = "stackId"
	keyAction              = "action"
	keyRequestData         = "requestData"
	keyRequestContext      = "requestContext"

	keyLogicalResourceID  = "logicalResourceId"
	keyResourceProperties = "resourceProperties"
	keyPreviousProperties = "previousResourceProperties"
	keySystemTags         = "systemTags"
	keyStackTags          = "stackTags"
	keyPreviousStackTags  = "previousStackTags"
	keyInvocation         = "invocation"
	keyCallbackContext    = "callbackContext"
)

// Event is a decoded invocation event.
type Event map[string]any

// DecodeEvent decodes a JSON invocation event. Numbers are kept as json.Number.
func DecodeEvent(data []byte) (Event, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var event Event
	if err := dec.Decode(&event); err != nil {
		return nil, fmt.Errorf("failed to decode event: %w", err)
	}
	if event == nil {
		return nil, &MalformedRequestError{Key: "$", Reason: "event must be a JSON object"}
	}
	return event, nil
}

func (e Event) requestData() (map[string]any, error) {
	return requiredMap(map[string]any(e), keyRequestData, keyRequestData)
}

func requiredValue(m map[string]any, key, path string) (any, error) {
	v, ok := m[key]
	if !ok {
		return nil, missing(path)
	}
	return v, nil
}

func requiredString(m map[string]any, key, path string) (string, error) {
	v, err := requiredValue(m, key, path)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", wrongKind(path, "a string")
	}
	return s, nil
}

// requiredMap returns the object under key. A JSON null yields a nil map.
func requiredMap(m map[string]any, key, path string) (map[string]any, error) {
	v, err := requiredValue(m, key, path)
	if err != nil {
		return nil, err
	}
	return asMap(v, path)
}

// optionalMap returns the object under key, or an empty map when key is absent.
func optionalMap(m map[string]any, key, path string) (map[string]any, error) {
	v, ok := m[key]
	if !ok {
		return map[string]any{}, nil
	}
	return asMap(v, path)
}

func asMap(v any, path string) (map[string]any, error) {
	if v == nil {
		return nil, nil
	}
	mv, ok := v.(map[string]any)
	if !ok {
		return nil, wrongKind(path, "an object")
	}
	return mv, nil
}

// truthy reports whether v counts as non-empty: null, false, zero, the empty string
// and empty collections do not.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case json.Number:
		f, err := strconv.ParseFloat(string(x), 64)
		return err != nil || f != 0
	case float64:
		return x != 0
	case int:
		return x != 0
	case int64:
		return x != 0
	case map[string]any:
		return len(x) > 0
	case []any:
		return len(x) > 0
	default:
		return true
	}
}

func asInt(v any, path string) (int64, error) {
	switch x := v.(type) {
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n, nil
		}
	case float64:
		if x == float64(int64(x)) {
			return int64(x), nil
		}
	case int:
		return int64(x), nil
	case int64:
		return x, nil
	}
	return 0, wrongKind(path, "an integer")
}
