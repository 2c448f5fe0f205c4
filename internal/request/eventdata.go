// SPDX-License-Identifier: MPL-2.0

package request

// EventData holds the property deltas and callback state of an invocation.
type EventData struct {
	ResourceProperties         map[string]any
	PreviousResourceProperties map[string]any
	CallbackContext            map[string]any
}

// ExtractEventData returns the current and previous properties and the callback
// context. Previous properties default to empty. The callback context is empty when
// requestContext is absent or empty; a non-empty requestContext without
// callbackContext is malformed.
func ExtractEventData(event Event) (EventData, error) {
	data, err := event.requestData()
	if err != nil {
		return EventData{}, err
	}
	if data == nil {
		return EventData{}, wrongKind(keyRequestData, "an object")
	}

	var ed EventData
	if ed.ResourceProperties, err = requiredMap(data, keyResourceProperties, keyRequestData+"."+keyResourceProperties); err != nil {
		return EventData{}, err
	}
	if ed.PreviousResourceProperties, err = optionalMap(data, keyPreviousProperties, keyRequestData+"."+keyPreviousProperties); err != nil {
		return EventData{}, err
	}

	ed.CallbackContext = map[string]any{}
	raw := event[keyRequestContext]
	if !truthy(raw) {
		return ed, nil
	}
	block, err := asMap(raw, keyRequestContext)
	if err != nil {
		return EventData{}, err
	}
	cb, err := requiredMap(block, keyCallbackContext, keyRequestContext+"."+keyCallbackContext)
	if err != nil {
		return EventData{}, err
	}
	if cb != nil {
		ed.CallbackContext = cb
	}
	return ed, nil
}
