// Copyright (c) 2026 ToeiRei
// Redtoken - honeytoken management system
// This source code is licensed under the MIT license found in the LICENSE file.

package model

import (
	"errors"
	"fmt"
)

// Kind classifies an Error.
type Kind int

const (
	KindUnknown Kind = iota
	KindFileRead
	KindFileWrite
	KindInvalidFileFormat
	KindTokenValidation
	KindTokenNotFound
	KindNotification
	KindDatabase
	KindConfig
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindFileRead:
		return "file read error"
	case KindFileWrite:
		return "file write error"
	case KindInvalidFileFormat:
		return "invalid file format"
	case KindTokenValidation:
		return "token validation failed"
	case KindTokenNotFound:
		return "token not found"
	case KindNotification:
		return "notification failed"
	case KindDatabase:
		return "database error"
	case KindConfig:
		return "configuration error"
	case KindUnauthorized:
		return "unauthorized access"
	default:
		return "unknown error"
	}
}

// Sentinels usable with errors.Is. An *Error matches the sentinel of its Kind.
var (
	ErrUnknown           = &Error{Kind: KindUnknown}
	ErrFileRead          = &Error{Kind: KindFileRead}
	ErrFileWrite         = &Error{Kind: KindFileWrite}
	ErrInvalidFileFormat = &Error{Kind: KindInvalidFileFormat}
	ErrTokenValidation   = &Error{Kind: KindTokenValidation}
	ErrTokenNotFound     = &Error{Kind: KindTokenNotFound}
	ErrNotification      = &Error{Kind: KindNotification}
	ErrDatabase          = &Error{Kind: KindDatabase}
	ErrConfig            = &Error{Kind: KindConfig}
	ErrUnauthorized      = &Error{Kind: KindUnauthorized}
)

// Error is the error type returned by redtoken components.
type Error struct {
	Kind Kind
	// Path is the offending file for I/O errors.
	Path string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	switch {
	case e.Path != "" && e.Msg != "":
		msg = fmt.Sprintf("%s: %s: %s", msg, e.Path, e.Msg)
	case e.Path != "":
		msg = fmt.Sprintf("%s: %s", msg, e.Path)
	case e.Msg != "":
		msg = fmt.Sprintf("%s: %s", msg, e.Msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the Kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func FileReadError(path string, err error) error {
	return &Error{Kind: KindFileRead, Path: path, Err: err}
}

func FileWriteError(path string, err error) error {
	return &Error{Kind: KindFileWrite, Path: path, Err: err}
}

func InvalidFormat(msg string, err error) error {
	return &Error{Kind: KindInvalidFileFormat, Msg: msg, Err: err}
}

func ValidationError(msg string) error {
	return &Error{Kind: KindTokenValidation, Msg: msg}
}

// NotFound reports a missing token id.
func NotFound(id string) error {
	return &Error{Kind: KindTokenNotFound, Msg: fmt.Sprintf("token with ID %s not found", id)}
}

func NotificationError(msg string, err error) error {
	return &Error{Kind: KindNotification, Msg: msg, Err: err}
}

func DatabaseError(msg string, err error) error {
	return &Error{Kind: KindDatabase, Msg: msg, Err: err}
}

func ConfigError(msg string, err error) error {
	return &Error{Kind: KindConfig, Msg: msg, Err: err}
}
