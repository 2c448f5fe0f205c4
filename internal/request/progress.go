// SPDX-License-Identifier: MPL-2.0

package request

import "fmt"

const (
	StatusInProgress OperationStatus = "IN_PROGRESS"
	StatusSuccess    OperationStatus = "SUCCESS"
	StatusFailed     OperationStatus = "FAILED"
)

const (
	ErrorCodeNotUpdatable            HandlerErrorCode = "NotUpdatable"
	ErrorCodeInvalidRequest          HandlerErrorCode = "InvalidRequest"
	ErrorCodeAccessDenied            HandlerErrorCode = "AccessDenied"
	ErrorCodeInvalidCredentials      HandlerErrorCode = "InvalidCredentials"
	ErrorCodeAlreadyExists           HandlerErrorCode = "AlreadyExists"
	ErrorCodeNotFound                HandlerErrorCode = "NotFound"
	ErrorCodeResourceConflict        HandlerErrorCode = "ResourceConflict"
	ErrorCodeThrottling              HandlerErrorCode = "Throttling"
	ErrorCodeServiceLimitExceeded    HandlerErrorCode = "ServiceLimitExceeded"
	ErrorCodeNotStabilized           HandlerErrorCode = "NotStabilized"
	ErrorCodeGeneralServiceException HandlerErrorCode = "GeneralServiceException"
	ErrorCodeServiceInternalError    HandlerErrorCode = "ServiceInternalError"
	ErrorCodeNetworkFailure          HandlerErrorCode = "NetworkFailure"
	ErrorCodeInternalFailure         HandlerErrorCode = "InternalFailure"
)

type (
	// OperationStatus is the outcome reported by a handler.
	OperationStatus string

	// HandlerErrorCode classifies a failed operation.
	HandlerErrorCode string

	// ProgressEvent is a handler's response.
	ProgressEvent struct {
		Status               OperationStatus  `json:"status"`
		ErrorCode            HandlerErrorCode `json:"errorCode,omitempty"`
		Message              string           `json:"message,omitempty"`
		CallbackContext      map[string]any   `json:"callbackContext,omitempty"`
		CallbackDelaySeconds int              `json:"callbackDelaySeconds,omitempty"`
		ResourceModel        any              `json:"resourceModel,omitempty"`
		ResourceModels       []any            `json:"resourceModels,omitempty"`
	}

	// HandlerError is returned by handlers to fail with a specific error code.
	HandlerError struct {
		Code    HandlerErrorCode
		Message string
	}
)

// Failed returns a FAILED progress event.
func Failed(code HandlerErrorCode, message string) ProgressEvent {
	return ProgressEvent{Status: StatusFailed, ErrorCode: code, Message: message}
}

// Error implements the error interface.
func (e *HandlerError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ProgressEvent converts e to a FAILED progress event.
func (e *HandlerError) ProgressEvent() ProgressEvent {
	return Failed(e.Code, e.Message)
}
