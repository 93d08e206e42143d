package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thiblahute/pitivi-old/internal/errors"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := errors.Wrap(cause, errors.CategoryFileSystem, errors.SeverityError, "write page")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "write page")
	assert.Contains(t, err.Error(), "disk full")
}

func TestCategoryHelpers(t *testing.T) {
	err := errors.New(errors.CategoryManifest, errors.SeverityFatal, "missing id")

	assert.True(t, errors.IsCategory(err, errors.CategoryManifest))
	assert.False(t, errors.IsCategory(err, errors.CategoryRender))
	assert.Equal(t, errors.CategoryManifest, errors.GetCategory(err))

	plain := stderrors.New("plain")
	assert.Equal(t, errors.CategoryInternal, errors.GetCategory(plain))
	assert.False(t, errors.IsCategory(plain, errors.CategoryManifest))
}

func TestRetryable(t *testing.T) {
	cause := stderrors.New("file truncated mid-save")
	err := errors.WrapRetryable(cause, errors.CategoryServe, errors.SeverityError, "rebuild help tree")

	assert.True(t, errors.IsRetryable(err))
	assert.ErrorIs(t, err, cause)

	assert.False(t, errors.IsRetryable(errors.New(errors.CategoryManifest, errors.SeverityFatal, "missing id")))
	assert.False(t, errors.IsRetryable(stderrors.New("plain")))
}

func TestWithContext(t *testing.T) {
	err := errors.New(errors.CategoryRender, errors.SeverityError, "render failed").
		WithContext("page", "trimming").
		WithContext("lang", "fr")

	assert.Equal(t, "trimming", err.Context["page"])
	assert.Equal(t, "fr", err.Context["lang"])
}
