package errors

import (
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// ToGRPCError converts err into a gRPC status error. Metadata travels as a
// google.protobuf.Struct detail.
func ToGRPCError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var e *Error
	if !As(err, &e) {
		return status.Error(contextCode(err).GRPCCode(), err.Error())
	}

	st := status.New(e.Code.GRPCCode(), e.Message)
	if len(e.Meta) == 0 {
		return st.Err()
	}
	details, perr := structpb.NewStruct(e.Meta)
	if perr != nil {
		slog.Debug("Dropping unencodable error metadata", "error", perr)
		return st.Err()
	}
	if withDetails, derr := st.WithDetails(details); derr == nil {
		st = withDetails
	}
	return st.Err()
}

// FromGRPCError converts a gRPC status error back into an *Error.
func FromGRPCError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	if st.Code() == codes.OK {
		return nil
	}

	out := &Error{Code: codeFromGRPC(st.Code()), Message: st.Message()}
	for _, d := range st.Details() {
		if s, ok := d.(*structpb.Struct); ok {
			out.Meta = s.AsMap()
			break
		}
	}
	return out
}
