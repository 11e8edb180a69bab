// Package errkind defines the streamcore error taxonomy: one typed
// sentinel per failure kind named in the runtime's design, so callers
// can branch with errors.As instead of matching on message text.
/*
 * Copyright (c) 2018-2023, NVIDIA CORPORATION. All rights reserved.
 */
package errkind

import (
	"errors"
	"fmt"
)

// Kind identifies a family of errors a caller may want to branch on.
type Kind string

const (
	AlreadyDefined        Kind = "AlreadyDefined"
	InvalidStateTransition Kind = "InvalidStateTransition"
	InvalidParameter      Kind = "InvalidParameter"
	InvalidInput          Kind = "InvalidInput"
	InvalidOutput         Kind = "InvalidOutput"
	InvalidStatics        Kind = "InvalidStatics"
	InvalidState          Kind = "InvalidState"
	InvalidProcessorBlock Kind = "InvalidProcessorBlock"
	InvalidOperation      Kind = "InvalidOperation"
	SendDataError         Kind = "SendDataError"
	ReceiveDataError      Kind = "ReceiveDataError"
	UnsetStatics          Kind = "UnsetStatics"
	OutOfRange            Kind = "OutOfRange"
	WrongType             Kind = "WrongType"
	FileNotFound          Kind = "FileNotFound"
	TaskError             Kind = "TaskError"
	GenericError          Kind = "GenericError"
)

// Error is a typed sentinel carrying a Kind, a qualified name the
// failure pertains to (may be empty), and a human-readable detail.
type Error struct {
	Kind   Kind
	Name   string // qualified name, when applicable
	Detail string
}

func New(kind Kind, format string, a ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, a...)}
}

func Named(kind Kind, name, format string, a ...any) *Error {
	return &Error{Kind: kind, Name: name, Detail: fmt.Sprintf(format, a...)}
}

func (e *Error) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	}
	return fmt.Sprintf("%s(%s): %s", e.Kind, e.Name, e.Detail)
}

// Is reports whether target is an *Error of the same Kind, so callers
// can write errors.Is(err, errkind.New(errkind.OutOfRange, "")).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// IsKind reports whether err is (or wraps) an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
