// SPDX-License-Identifier: MPL-2.0

package request

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

type (
	// Request is the input handed to a Handler.
	Request struct {
		Action  Action
		Context *RequestContext
		Data    EventData
	}

	// Handler implements one action of a resource type.
	Handler interface {
		Handle(ctx context.Context, req *Request) (ProgressEvent, error)
	}

	// HandlerFunc adapts a function to the Handler interface.
	HandlerFunc func(ctx context.Context, req *Request) (ProgressEvent, error)

	// Resource dispatches requests for one resource type to per-action handlers.
	// Register handlers before serving; registration is not synchronized.
	Resource struct {
		typeName string
		handlers map[Action]Handler
		logger   *slog.Logger
	}

	// ResourceOption configures a Resource.
	ResourceOption func(*Resource)
)

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, req *Request) (ProgressEvent, error) {
	return f(ctx, req)
}

// WithResourceLogger sets the logger used for dispatch failures.
func WithResourceLogger(logger *slog.Logger) ResourceOption {
	return func(r *Resource) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResource creates a dispatcher for typeName with no handlers.
func NewResource(typeName string, opts ...ResourceOption) *Resource {
	r := &Resource{
		typeName: typeName,
		handlers: make(map[Action]Handler),
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// TypeName returns the resource type served.
func (r *Resource) TypeName() string { return r.typeName }

// Register sets the handler for action, replacing any previous one.
func (r *Resource) Register(action Action, h Handler) {
	r.handlers[action] = h
}

// Invoke runs the handler registered for req.Action. Failures are reported in the
// returned event: a missing handler, a handler error, a panic and an in-progress
// result from a non-mutating action all yield FAILED.
func (r *Resource) Invoke(ctx context.Context, req *Request) (ev ProgressEvent) {
	h, ok := r.handlers[req.Action]
	if !ok {
		return Failed(ErrorCodeInternalFailure, fmt.Sprintf("No handler for %s", req.Action))
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("handler panicked", "action", req.Action, "panic", rec)
			ev = Failed(ErrorCodeInternalFailure, "")
		}
	}()

	progress, err := h.Handle(ctx, req)
	if err != nil {
		var handlerErr *HandlerError
		if errors.As(err, &handlerErr) {
			r.logger.Debug("handler error", "action", req.Action, "code", handlerErr.Code, "error", err)
			return handlerErr.ProgressEvent()
		}
		r.logger.Error("handler failed", "action", req.Action, "error", err)
		return Failed(ErrorCodeInternalFailure, "")
	}

	if progress.Status == StatusInProgress && !req.Action.Mutating() {
		return Failed(ErrorCodeInternalFailure, "READ and LIST handlers must return synchronously.")
	}
	return progress
}

// Serve decodes event and invokes the matching handler. Malformed events yield a
// FAILED event with code InvalidRequest.
func (r *Resource) Serve(ctx context.Context, event Event, handle RuntimeHandle) ProgressEvent {
	req, err := ParseRequest(event, handle)
	if err != nil {
		r.logger.Debug("invalid request", "error", err)
		return Failed(ErrorCodeInvalidRequest, err.Error())
	}
	return r.Invoke(ctx, req)
}

// ParseRequest builds the handler input for event.
func ParseRequest(event Event, handle RuntimeHandle) (*Request, error) {
	label, err := requiredString(event, keyAction, keyAction)
	if err != nil {
		return nil, err
	}
	action, err := ParseAction(label)
	if err != nil {
		return nil, &MalformedRequestError{Key: keyAction, Reason: err.Error()}
	}
	rc, err := BuildContext(event, handle)
	if err != nil {
		return nil, err
	}
	data, err := ExtractEventData(event)
	if err != nil {
		return nil, err
	}
	return &Request{Action: action, Context: rc, Data: data}, nil
}
