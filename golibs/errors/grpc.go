// Copyright 2024 The Solaris Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package errors

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var grpcToErrors = map[codes.Code]error{
	codes.OK:                 nil,
	codes.Canceled:           ErrCanceled,
	codes.Unknown:            ErrCommunication,
	codes.DeadlineExceeded:   ErrCommunication,
	codes.ResourceExhausted:  ErrExhausted,
	codes.InvalidArgument:    ErrInvalid,
	codes.NotFound:           ErrNotExist,
	codes.AlreadyExists:      ErrExist,
	codes.Unauthenticated:    ErrNotAuthorized,
	codes.PermissionDenied:   ErrNotAuthorized,
	codes.DataLoss:           ErrDataLoss,
	codes.Unimplemented:      ErrUnimplemented,
	codes.FailedPrecondition: ErrConflict,
	codes.Unavailable:        ErrCommunication,
	codes.Aborted:            ErrConflict,
}

var errorsToCode = map[error]codes.Code{
	ErrExist:         codes.AlreadyExists,
	ErrNotExist:      codes.NotFound,
	ErrInvalid:       codes.InvalidArgument,
	ErrNotAuthorized: codes.PermissionDenied,
	ErrInternal:      codes.Internal,
	ErrDataLoss:      codes.DataLoss,
	ErrExhausted:     codes.ResourceExhausted,
	ErrUnimplemented: codes.Unimplemented,
	ErrConflict:      codes.FailedPrecondition,
	ErrCanceled:      codes.Canceled,
	ErrCommunication: codes.Unavailable,
	ErrClosed:        codes.Unavailable,
}

var wrapOrder = []error{ErrNotExist, ErrExist, ErrInvalid, ErrNotAuthorized, ErrConflict, ErrExhausted,
	ErrDataLoss, ErrUnimplemented, ErrCanceled, ErrCommunication, ErrClosed, ErrInternal}

// FromGRPCError receives a gRPC error (code-based) and returns one of the
// general errors (ErrNotExist, ErrInvalid...). Unknown codes are reported as ErrInternal
// FromGRPCError returns the general error for the gRPC status of err, ErrInternal
// if the code has no general counterpart.
func FromGRPCError(err error) error {
	if err, ok := grpcToErrors[status.Code(err)]; ok {
		return err
	}
	return ErrInternal
}

// Code classifies err by the general errors it wraps. The gRPC status errors keep
// their code, the unclassified errors get codes.Internal, and nil is codes.OK.
func Code(err error) codes.Code {
	if err == nil {
		return codes.OK
	}
	if code := status.Code(err); code != codes.Unknown {
		return code
	}
	if code, ok := errorsToCode[err]; ok {
		return code
	}
	// the wrapped chain is checked in a stable order, so an error which wraps
	// several general errors always gets the same code
	for _, e := range wrapOrder {
		if errors.Is(err, e) {
			return errorsToCode[e]
		}
	}
	return codes.Internal
}
