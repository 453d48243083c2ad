package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/DeepBDE-Console/pkg/errors"
)

func TestNew_FieldsAreSetCorrectly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"internal error", errors.CodeInternal, "unexpected failure"},
		{"invalid smiles", errors.ErrCodeMoleculeInvalidSMILES, "unclosed ring 1"},
		{"no valid items", errors.ErrCodeNoValidItems, "nothing to analyze"},
		{"rate limit", errors.CodeRateLimit, "too many requests"},
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
	ae := errors.Newf(errors.ErrCodePartialFailure, "%d of %d molecules could not be analyzed", 1, 3)
	assert.Equal(t, "1 of 3 molecules could not be analyzed", ae.Message)
}

func TestWrap_NilErrReturnsNil(t *testing.T) {
	t.Parallel()
	assert.Nil(t, errors.Wrap(nil, errors.CodeInternal, "should not matter"))
}

func TestWrap_CauseChainIsPreserved(t *testing.T) {
	t.Parallel()

	root := stderrors.New("dial tcp: connection refused")
	wrapped := errors.Wrap(root, errors.ErrCodeTransport, "info request failed")

	require.NotNil(t, wrapped)
	assert.Equal(t, errors.ErrCodeTransport, wrapped.Code)
	assert.Equal(t, root, stderrors.Unwrap(wrapped))
	assert.True(t, stderrors.Is(wrapped, root))
}

func TestWrap_PreservesOriginalCodeWhenCodeUnknown(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.ErrCodeDecoding, "bad base64")
	outer := errors.Wrap(inner, errors.CodeUnknown, "adding context")

	assert.Equal(t, errors.ErrCodeDecoding, outer.Code)
}

func TestWrap_OverridesCodeWhenExplicit(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.ErrCodeDecoding, "bad base64")
	outer := errors.Wrap(inner, errors.CodeInternal, "unexpected state")

	assert.Equal(t, errors.CodeInternal, outer.Code)
	assert.True(t, errors.IsCode(outer, errors.ErrCodeDecoding))
}

func TestError_Format(t *testing.T) {
	t.Parallel()

	plain := errors.New(errors.ErrCodeMoleculeDisconnected, "disconnected structure")
	assert.Equal(t, "[MOL_002] disconnected structure", plain.Error())

	detailed := plain.WithDetail("smiles=CC.O")
	assert.Equal(t, "[MOL_002] disconnected structure: smiles=CC.O", detailed.Error())
	assert.Empty(t, plain.Detail, "WithDetail must not mutate the receiver")
}

func TestWithCause_NilReceiver(t *testing.T) {
	var ae *errors.AppError
	assert.Nil(t, ae.WithCause(stderrors.New("x")))
	assert.Nil(t, ae.WithDetail("x"))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(stderrors.New("plain")))

	wrapped := fmt.Errorf("outer: %w", errors.New(errors.ErrCodeEngineNotReady, "loading"))
	assert.Equal(t, errors.ErrCodeEngineNotReady, errors.GetCode(wrapped))
}

func TestClassifiers(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		validation bool
		transport  bool
		decoding   bool
	}{
		{"invalid smiles", errors.New(errors.ErrCodeMoleculeInvalidSMILES, "x"), true, false, false},
		{"disconnected", errors.New(errors.ErrCodeMoleculeDisconnected, "x"), true, false, false},
		{"no items", errors.New(errors.ErrCodeNoValidItems, "x"), true, false, false},
		{"transport", errors.Transport(stderrors.New("eof"), "x"), false, true, false},
		{"timeout", errors.New(errors.ErrCodeTimeout, "x"), false, true, false},
		{"decoding", errors.Decoding(stderrors.New("eof"), "x"), false, false, true},
		{"empty payload", errors.New(errors.ErrCodeEmptyPayload, "x"), false, false, true},
		{"foreign", stderrors.New("x"), false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.validation, errors.IsValidation(tt.err))
			assert.Equal(t, tt.transport, errors.IsTransport(tt.err))
			assert.Equal(t, tt.decoding, errors.IsDecoding(tt.err))
		})
	}
}

func TestStackTrace_RecordsCaller(t *testing.T) {
	ae := errors.New(errors.ErrCodeInternal, "boom")
	assert.Contains(t, ae.StackTrace(), "TestStackTrace_RecordsCaller")
	assert.NotContains(t, ae.Error(), "TestStackTrace_RecordsCaller")

	var nilErr *errors.AppError
	assert.Empty(t, nilErr.StackTrace())
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, errors.IsNotFound(errors.New(errors.ErrCodeNotFound, "no history")))
	assert.False(t, errors.IsNotFound(errors.Internal("boom")))
}

//Personal.AI order the ending
