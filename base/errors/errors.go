// Copyright (c) 2026, The SceneML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errors provides a set of error handling helpers,
// extending the standard library errors package with logging
// versions that report the caller location via [log/slog].
package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
)

// New returns an error that formats as the given text.
// It is a direct pass-through of [errors.New].
func New(text string) error {
	return errors.New(text)
}

// Is reports whether any error in err's tree matches target.
// It is a direct pass-through of [errors.Is].
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
// It is a direct pass-through of [errors.As].
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Join returns an error that wraps the given errors.
// It is a direct pass-through of [errors.Join].
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// CallerInfo returns string information about the caller
// of the function that called CallerInfo.
func CallerInfo() string {
	pc, file, line, _ := runtime.Caller(2)
	return fmt.Sprintf("%s (%s:%d)", runtime.FuncForPC(pc).Name(), file, line)
}

// Log logs the given error if it is non-nil and returns it.
// The log message includes the caller location, making it
// suitable for "report but keep going" error handling.
func Log(err error) error {
	if err != nil {
		slog.Error(err.Error() + " | " + CallerInfo())
	}
	return err
}

// Log1 logs the given error if it is non-nil and returns the
// given value. It is useful for functions returning a value
// and an error where only the value is needed further.
func Log1[T any](v T, err error) T {
	if err != nil {
		slog.Error(err.Error() + " | " + CallerInfo())
	}
	return v
}

// Ignore1 ignores the error and returns the value. Use only when
// the error is genuinely impossible or irrelevant.
func Ignore1[T any](v T, err error) T {
	return v
}
