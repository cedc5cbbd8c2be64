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

var (
	ErrExist         = errors.New("already exists")
	ErrNotExist      = errors.New("not found")
	ErrInvalid       = errors.New("invalid argument")
	ErrInternal      = errors.New("internal error")
	ErrClosed        = errors.New("closed")
	ErrConflict      = errors.New("conflict")
	ErrDataLoss      = errors.New("data loss")
	ErrExhausted     = errors.New("resource exhausted")
	ErrNotAuthorized = errors.New("not authorized")
	ErrUnimplemented = errors.New("unimplemented")
	ErrCommunication = errors.New("communication error")
	ErrCanceled      = errors.New("canceled")
)

// Is reports whether err matches target. In addition to errors.Is, the function
// recognizes gRPC status errors and compares their codes with the general errors
// of the package, so an error received from a remote call may be checked the same
// way as a local one.
func Is(err, target error) bool {
	if errors.Is(err, target) {
		return true
	}
	if code := status.Code(err); code != codes.Unknown && code != codes.OK {
		return FromGRPCError(err) == target
	}
	return false
}

// As is the errors.As shortcut, so the package may be used instead of the standard one
func As(err error, target any) bool {
	return errors.As(err, target)
}

// New is the errors.New shortcut
func New(text string) error {
	return errors.New(text)
}
