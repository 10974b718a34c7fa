package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/drugflat/pkg/errors"
)

func TestNew_FieldsAreSetCorrectly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"internal error", errors.ErrCodeInternal, "unexpected failure"},
		{"root missing", errors.ErrCodeDataSourceRootMissing, "no drugbank element"},
		{"invalid param", errors.ErrCodeBadRequest, "input path must not be empty"},
		{"table write", errors.ErrCodeTableWriteFailed, "disk full"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ae := errors.New(tc.code, tc.message)

			require.NotNil(t, ae)
			assert.Equal(t, tc.code, ae.Code)
			assert.Equal(t, tc.message, ae.Message)
			assert.Empty(t, ae.Detail)
			assert.Nil(t, ae.Cause)
		})
	}
}

func TestNewf_FormatsMessage(t *testing.T) {
	ae := errors.Newf(errors.ErrCodeSchemaMismatch, "row %d has %d cells", 3, 2)
	assert.Equal(t, "row 3 has 2 cells", ae.Message)
}

func TestWrap_NilErrReturnsNil(t *testing.T) {
	t.Parallel()

	result := errors.Wrap(nil, errors.ErrCodeInternal, "should not matter")
	assert.Nil(t, result)
}

func TestWrap_CauseChainIsPreserved(t *testing.T) {
	t.Parallel()

	root := stderrors.New("permission denied")
	wrapped := errors.Wrap(root, errors.ErrCodeTableWriteFailed, "create drugs.csv")

	require.NotNil(t, wrapped)
	assert.Equal(t, errors.ErrCodeTableWriteFailed, wrapped.Code)
	assert.Equal(t, root, stderrors.Unwrap(wrapped))
	assert.True(t, stderrors.Is(wrapped, root))
}

func TestWrap_PreservesOriginalCodeWhenCodeUnknown(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.ErrCodeDataSourceParseError, "unexpected EOF")
	outer := errors.Wrap(inner, errors.CodeUnknown, "extract records")

	require.NotNil(t, outer)
	assert.Equal(t, errors.ErrCodeDataSourceParseError, outer.Code)
}

func TestWrap_OverridesCodeWhenExplicit(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.ErrCodeDataSourceParseError, "unexpected EOF")
	outer := errors.Wrap(inner, errors.ErrCodePipelineStageFailed, "extract stage")

	assert.Equal(t, errors.ErrCodePipelineStageFailed, outer.Code)
}

func TestAppError_ErrorFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *errors.AppError
		want string
	}{
		{
			name: "message only",
			err:  errors.New(errors.ErrCodeDataSourceRootMissing, "no root"),
			want: "[SRC_005] no root",
		},
		{
			name: "with detail",
			err:  errors.New(errors.ErrCodeDataSourceUnavailable, "open input").WithDetail("/tmp/x.xml"),
			want: "[SRC_001] open input: /tmp/x.xml",
		},
		{
			name: "with cause",
			err:  errors.Wrap(fmt.Errorf("boom"), errors.ErrCodeTableWriteFailed, "flush"),
			want: "[TAB_001] flush: boom",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestWithDetail_NilSafe(t *testing.T) {
	var ae *errors.AppError
	assert.Nil(t, ae.WithDetail("x"))
}

func TestWithDetail_DoesNotMutateReceiver(t *testing.T) {
	base := errors.New(errors.ErrCodeInternal, "base")
	derived := base.WithDetail("more")

	assert.Empty(t, base.Detail)
	assert.Equal(t, "more", derived.Detail)
}

func TestIsCode_TraversesStdlibWrapping(t *testing.T) {
	inner := errors.New(errors.ErrCodeDataSourceRootMissing, "no root")
	outer := fmt.Errorf("pipeline: %w", inner)

	assert.True(t, errors.IsCode(outer, errors.ErrCodeDataSourceRootMissing))
	assert.False(t, errors.IsCode(outer, errors.ErrCodeTableWriteFailed))
	assert.False(t, errors.IsCode(nil, errors.ErrCodeInternal))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(stderrors.New("plain")))
	assert.Equal(t, errors.ErrCodeBadRequest, errors.GetCode(errors.New(errors.ErrCodeBadRequest, "bad")))
}

func TestExitStatus(t *testing.T) {
	assert.Equal(t, errors.ExitOK, errors.ExitStatus(nil))
	assert.Equal(t, errors.ExitNoInput, errors.ExitStatus(errors.New(errors.ErrCodeDataSourceUnavailable, "x")))
	assert.Equal(t, errors.ExitDataErr, errors.ExitStatus(errors.New(errors.ErrCodeDataSourceRootMissing, "x")))
	assert.Equal(t, errors.ExitFailure, errors.ExitStatus(stderrors.New("plain")))
}
