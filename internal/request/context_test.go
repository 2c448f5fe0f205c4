// SPDX-License-Identifier: MPL-2.0

package request

import (
	"encoding/json"
	"errors"
	"testing"
)

const minimalEvent = `{"requestData": {"logicalResourceId": "X", "resourceProperties": {"A": 1}, "systemTags": {}}, "awsAccountId":"1","region":"us-east-1","resourceType":"T","resourceTypeVersion":"1","stackId":"S"}`

func mustDecode(t *testing.T, src string) Event {
	t.Helper()
	event, err := DecodeEvent([]byte(src))
	if err != nil {
		t.Fatalf("DecodeEvent() error = %v", err)
	}
	return event
}

func fixedBudget(ms int64) RuntimeHandle {
	return RuntimeHandleFunc(func() int64 { return ms })
}

func TestBuildContext_MinimalEvent(t *testing.T) {
	t.Parallel()

	rc, err := BuildContext(mustDecode(t, minimalEvent), fixedBudget(1000))
	if err != nil {
		t.Fatalf("BuildContext() error = %v", err)
	}

	if rc.StackTags() == nil || len(rc.StackTags()) != 0 {
		t.Errorf("StackTags() = %v, want empty map", rc.StackTags())
	}
	if rc.PreviousStackTags() == nil || len(rc.PreviousStackTags()) != 0 {
		t.Errorf("PreviousStackTags() = %v, want empty map", rc.PreviousStackTags())
	}
	if rc.InvocationCount() != 0 {
		t.Errorf("InvocationCount() = %d, want 0", rc.InvocationCount())
	}

	if rc.AccountID() != "1" || rc.Region() != "us-east-1" || rc.ResourceType() != "T" ||
		rc.ResourceTypeVersion() != "1" || rc.StackID() != "S" || rc.LogicalResourceID() != "X" {
		t.Errorf("unexpected identifiers: %+v", rc)
	}
	if rc.ResourceProperties()["A"] != json.Number("1") {
		t.Errorf("ResourceProperties() = %v", rc.ResourceProperties())
	}
}

func TestBuildContext_RemainingTimeIsAccessor(t *testing.T) {
	t.Parallel()

	budget := int64(3000)
	rc, err := BuildContext(mustDecode(t, minimalEvent), RuntimeHandleFunc(func() int64 { return budget }))
	if err != nil {
		t.Fatalf("BuildContext() error = %v", err)
	}
	remaining := rc.RemainingTime()
	if remaining() != 3000 {
		t.Errorf("remaining() = %d", remaining())
	}
	budget = 1200
	if remaining() != 1200 {
		t.Errorf("accessor should report the current budget, got %d", remaining())
	}
}

func TestBuildContext_OptionalFields(t *testing.T) {
	t.Parallel()

	event := mustDecode(t, `{
		"awsAccountId": "123456789012", "region": "eu-west-1", "resourceType": "Org::Service::Widget",
		"resourceTypeVersion": "00000001", "stackId": "arn:stack",
		"requestData": {
			"logicalResourceId": "Widget", "resourceProperties": {}, "systemTags": {"aws:cloudformation:stack-name": "s"},
			"stackTags": {"team": "a"}, "previousStackTags": {"team": "b"}
		},
		"requestContext": {"invocation": 3, "callbackContext": {}}
	}`)

	rc, err := BuildContext(event, fixedBudget(0))
	if err != nil {
		t.Fatalf("BuildContext() error = %v", err)
	}
	if rc.StackTags()["team"] != "a" || rc.PreviousStackTags()["team"] != "b" {
		t.Errorf("tags = %v / %v", rc.StackTags(), rc.PreviousStackTags())
	}
	if rc.InvocationCount() != 3 {
		t.Errorf("InvocationCount() = %d, want 3", rc.InvocationCount())
	}
	if rc.SystemTags()["aws:cloudformation:stack-name"] != "s" {
		t.Errorf("SystemTags() = %v", rc.SystemTags())
	}
}

func TestBuildContext_InvocationDefaults(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"empty request context": `{}`,
		"null request context":  `null`,
		"invocation absent":     `{"callbackContext": {}}`,
	}
	for name, rcJSON := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			event := mustDecode(t, minimalEvent)
			var block any
			if err := json.Unmarshal([]byte(rcJSON), &block); err != nil {
				t.Fatal(err)
			}
			event[keyRequestContext] = block

			rc, err := BuildContext(event, fixedBudget(0))
			if err != nil {
				t.Fatalf("BuildContext() error = %v", err)
			}
			if rc.InvocationCount() != 0 {
				t.Errorf("InvocationCount() = %d, want 0", rc.InvocationCount())
			}
		})
	}
}

func TestBuildContext_MissingRequiredKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key    string
		remove func(Event)
	}{
		{"awsAccountId", func(e Event) { delete(e, "awsAccountId") }},
		{"region", func(e Event) { delete(e, "region") }},
		{"resourceType", func(e Event) { delete(e, "resourceType") }},
		{"resourceTypeVersion", func(e Event) { delete(e, "resourceTypeVersion") }},
		{"stackId", func(e Event) { delete(e, "stackId") }},
		{"requestData", func(e Event) { delete(e, "requestData") }},
		{"requestData.logicalResourceId", func(e Event) { delete(e["requestData"].(map[string]any), "logicalResourceId") }},
		{"requestData.resourceProperties", func(e Event) { delete(e["requestData"].(map[string]any), "resourceProperties") }},
		{"requestData.systemTags", func(e Event) { delete(e["requestData"].(map[string]any), "systemTags") }},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Parallel()
			event := mustDecode(t, minimalEvent)
			tt.remove(event)

			_, err := BuildContext(event, fixedBudget(0))
			if !errors.Is(err, ErrMalformedRequest) {
				t.Fatalf("BuildContext() error = %v, want ErrMalformedRequest", err)
			}
			var malformed *MalformedRequestError
			if !errors.As(err, &malformed) || malformed.Key != tt.key {
				t.Errorf("expected *MalformedRequestError for %s, got %v", tt.key, err)
			}
		})
	}
}

func TestBuildContext_WrongKinds(t *testing.T) {
	t.Parallel()

	event := mustDecode(t, minimalEvent)
	event["region"] = json.Number("5")
	if _, err := BuildContext(event, fixedBudget(0)); !errors.Is(err, ErrMalformedRequest) {
		t.Errorf("non-string region: error = %v", err)
	}

	event = mustDecode(t, minimalEvent)
	event[keyRequestContext] = map[string]any{"invocation": "three"}
	if _, err := BuildContext(event, fixedBudget(0)); !errors.Is(err, ErrMalformedRequest) {
		t.Errorf("non-integer invocation: error = %v", err)
	}

	if _, err := BuildContext(mustDecode(t, minimalEvent), nil); err == nil {
		t.Error("nil runtime handle should be rejected")
	}
}

func TestDecodeEvent(t *testing.T) {
	t.Parallel()

	if _, err := DecodeEvent([]byte(`{`)); err == nil {
		t.Error("expected error for truncated JSON")
	}
	if _, err := DecodeEvent([]byte(`null`)); !errors.Is(err, ErrMalformedRequest) {
		t.Errorf("null event: error = %v", err)
	}
	if _, err := DecodeEvent([]byte(`[1]`)); err == nil {
		t.Error("expected error for a non-object event")
	}
	event := mustDecode(t, `{"n": 12345678901234567890}`)
	if _, ok := event["n"].(json.Number); !ok {
		t.Errorf("numbers should decode as json.Number, got %T", event["n"])
	}
}
