/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorContextOnly(t *testing.T) {
	err := WithContext("failed to read file")
	assert.Equal(t, "failed to read file", err.Error())
}

func TestErrorMinimizesSourceFirstLetter(t *testing.T) {
	err := WithError("failed to read file", errors.New("Permission denied"))
	assert.Equal(t, "failed to read file: permission denied", err.Error())
}

func TestErrorWithEmptySourceMessage(t *testing.T) {
	err := WithError("context", errors.New(""))
	assert.Equal(t, "context: ", err.Error())
}

func TestUnwrapExposesSource(t *testing.T) {
	source := errors.New("boom")
	err := WithError("context", source)
	assert.Same(t, source, errors.Unwrap(err))
}

func TestWithKindSetsKind(t *testing.T) {
	err := WithKind(KindLookupError, "no such font index 3")
	assert.Equal(t, KindLookupError, err.Kind)
	assert.Nil(t, err.Source)
}

func TestWithErrorKindSetsBoth(t *testing.T) {
	source := errors.New("disk full")
	err := WithErrorKind(KindFileIO, "write output", source)
	assert.Equal(t, KindFileIO, err.Kind)
	assert.Same(t, source, err.Source)
	assert.Equal(t, "write output: disk full", err.Error())
}

func TestWrapfFormatsContext(t *testing.T) {
	source := errors.New("underlying")
	err := Wrapf(KindParseError, source, "font %q is malformed", "cmunbi.ttf")
	assert.Equal(t, `font "cmunbi.ttf" is malformed`, err.Context)
	assert.Equal(t, KindParseError, err.Kind)
	assert.True(t, errors.Is(err, source))
}

func TestErrorsAsFindsContextError(t *testing.T) {
	err := WithErrorKind(KindInvariantViolation, "context", nil)
	var ctxErr *ContextError
	assert.True(t, errors.As(err, &ctxErr))
	assert.Equal(t, KindInvariantViolation, ctxErr.Kind)
}
