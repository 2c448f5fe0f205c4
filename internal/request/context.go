// SPDX-License-Identifier: MPL-2.0

package request

import (
	"errors"
)

type (
	// RuntimeHandle is the runtime-provided invocation handle.
	RuntimeHandle interface {
		RemainingTimeInMillis() int64
	}

	// RuntimeHandleFunc adapts a function to RuntimeHandle.
	RuntimeHandleFunc func() int64

	// RequestContext holds the fields of one invocation. It is read-only once built.
	RequestContext struct {
		accountID           string
		region              string
		resourceType        string
		resourceTypeVersion string
		stackID             string
		logicalResourceID   string
		resourceProperties  map[string]any
		systemTags          map[string]any
		stackTags           map[string]any
		previousStackTags   map[string]any
		invocationCount     int64
		remainingTime       func() int64
	}
)

// RemainingTimeInMillis calls f.
func (f RuntimeHandleFunc) RemainingTimeInMillis() int64 { return f() }

// BuildContext extracts the request context from event. Absent required keys fail
// with MalformedRequestError; stack tags default to empty maps and the invocation
// count to zero.
func BuildContext(event Event, handle RuntimeHandle) (*RequestContext, error) {
	if handle == nil {
		return nil, errors.New("runtime handle is required")
	}
	top := map[string]any(event)

	rc := &RequestContext{remainingTime: handle.RemainingTimeInMillis}
	var err error
	if rc.accountID, err = requiredString(top, keyAccountID, keyAccountID); err != nil {
		return nil, err
	}
	if rc.region, err = requiredString(top, keyRegion, keyRegion); err != nil {
		return nil, err
	}
	if rc.resourceType, err = requiredString(top, keyResourceType, keyResourceType); err != nil {
		return nil, err
	}
	if rc.resourceTypeVersion, err = requiredString(top, keyResourceTypeVersion, keyResourceTypeVersion); err != nil {
		return nil, err
	}
	if rc.stackID, err = requiredString(top, keyStackID, keyStackID); err != nil {
		return nil, err
	}

	data, err := event.requestData()
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, wrongKind(keyRequestData, "an object")
	}
	if rc.logicalResourceID, err = requiredString(data, keyLogicalResourceID, keyRequestData+"."+keyLogicalResourceID); err != nil {
		return nil, err
	}
	if rc.resourceProperties, err = requiredMap(data, keyResourceProperties, keyRequestData+"."+keyResourceProperties); err != nil {
		return nil, err
	}
	if rc.systemTags, err = requiredMap(data, keySystemTags, keyRequestData+"."+keySystemTags); err != nil {
		return nil, err
	}
	if rc.stackTags, err = optionalMap(data, keyStackTags, keyRequestData+"."+keyStackTags); err != nil {
		return nil, err
	}
	if rc.previousStackTags, err = optionalMap(data, keyPreviousStackTags, keyRequestData+"."+keyPreviousStackTags); err != nil {
		return nil, err
	}

	if rc.invocationCount, err = invocationCount(top); err != nil {
		return nil, err
	}
	return rc, nil
}

// invocationCount reads requestContext.invocation, defaulting to zero when either
// level is absent or the block is empty.
func invocationCount(top map[string]any) (int64, error) {
	raw, ok := top[keyRequestContext]
	if !ok || !truthy(raw) {
		return 0, nil
	}
	block, err := asMap(raw, keyRequestContext)
	if err != nil {
		return 0, err
	}
	v, ok := block[keyInvocation]
	if !ok || v == nil {
		return 0, nil
	}
	return asInt(v, keyRequestContext+"."+keyInvocation)
}

// AccountID returns the account the request targets.
func (c *RequestContext) AccountID() string { return c.accountID }

// Region returns the region the request targets.
func (c *RequestContext) Region() string { return c.region }

// ResourceType returns the resource type name.
func (c *RequestContext) ResourceType() string { return c.resourceType }

// ResourceTypeVersion returns the resource type version.
func (c *RequestContext) ResourceTypeVersion() string { return c.resourceTypeVersion }

// StackID returns the stack the resource belongs to.
func (c *RequestContext) StackID() string { return c.stackID }

// LogicalResourceID returns the resource's logical id within the stack.
func (c *RequestContext) LogicalResourceID() string { return c.logicalResourceID }

// ResourceProperties returns the desired resource properties.
func (c *RequestContext) ResourceProperties() map[string]any { return c.resourceProperties }

// SystemTags returns the system tags.
func (c *RequestContext) SystemTags() map[string]any { return c.systemTags }

// StackTags returns the stack tags, empty when the event had none.
func (c *RequestContext) StackTags() map[string]any { return c.stackTags }

// PreviousStackTags returns the previous stack tags, empty when the event had none.
func (c *RequestContext) PreviousStackTags() map[string]any { return c.previousStackTags }

// InvocationCount returns how many times the request has been re-invoked.
func (c *RequestContext) InvocationCount() int64 { return c.invocationCount }

// RemainingTime returns the runtime's time-budget accessor. Each call of the returned
// function reports the budget at that moment.
func (c *RequestContext) RemainingTime() func() int64 { return c.remainingTime }
