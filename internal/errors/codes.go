package errors

import (
	"net/http"

	"google.golang.org/grpc/codes"
)

// Code classifies an error independent of the transport it leaves through.
type Code string

// Error codes
const (
	CodeOK                 Code = "OK"
	CodeCanceled           Code = "CANCELED"
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"
	CodeDeadlineExceeded   Code = "DEADLINE_EXCEEDED"
	CodeNotFound           Code = "NOT_FOUND"
	CodeAlreadyExists      Code = "ALREADY_EXISTS"
	CodeFailedPrecondition Code = "FAILED_PRECONDITION"
	CodeUnimplemented      Code = "UNIMPLEMENTED"
	CodeInternal           Code = "INTERNAL"
	CodeUnavailable        Code = "UNAVAILABLE"
	CodeDataLoss           Code = "DATA_LOSS"
)

type mapping struct {
	http int
	grpc codes.Code
}

var codeTable = map[Code]mapping{
	CodeOK:                 {http.StatusOK, codes.OK},
	CodeCanceled:           {499, codes.Canceled},
	CodeInvalidArgument:    {http.StatusBadRequest, codes.InvalidArgument},
	CodeDeadlineExceeded:   {http.StatusGatewayTimeout, codes.DeadlineExceeded},
	CodeNotFound:           {http.StatusNotFound, codes.NotFound},
	CodeAlreadyExists:      {http.StatusConflict, codes.AlreadyExists},
	CodeFailedPrecondition: {http.StatusPreconditionFailed, codes.FailedPrecondition},
	CodeUnimplemented:      {http.StatusNotImplemented, codes.Unimplemented},
	CodeInternal:           {http.StatusInternalServerError, codes.Internal},
	CodeUnavailable:        {http.StatusServiceUnavailable, codes.Unavailable},
	CodeDataLoss:           {http.StatusInternalServerError, codes.DataLoss},
}

func (c Code) String() string {
	return string(c)
}

// HTTPStatus maps the code onto an HTTP status; unknown codes are 500.
func (c Code) HTTPStatus() int {
	if m, ok := codeTable[c]; ok {
		return m.http
	}
	return http.StatusInternalServerError
}

// GRPCCode maps the code onto a gRPC status code.
func (c Code) GRPCCode() codes.Code {
	if m, ok := codeTable[c]; ok {
		return m.grpc
	}
	return codes.Unknown
}

func codeFromGRPC(gc codes.Code) Code {
	for code, m := range codeTable {
		if m.grpc == gc {
			return code
		}
	}
	return CodeInternal
}
