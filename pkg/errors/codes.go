package errors

import (
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal        ErrorCode = "COMMON_001"
	ErrCodeBadRequest      ErrorCode = "COMMON_002"
	ErrCodeNotFound        ErrorCode = "COMMON_005"
	ErrCodeTimeout         ErrorCode = "COMMON_009"
	ErrCodeValidation      ErrorCode = "COMMON_010"
	ErrCodeSerialization   ErrorCode = "COMMON_011"
	ErrCodeCanceled        ErrorCode = "COMMON_017"
	ErrCodeNotImplemented  ErrorCode = "COMMON_016"
	ErrCodeFeatureDisabled ErrorCode = "COMMON_015"
)

// Codes reported by GetCode for a nil error and for errors outside the
// AppError chain.
const (
	CodeOK      = ErrorCode("OK")
	CodeUnknown = ErrorCode("UNKNOWN")
)

// Configuration Error Codes
const (
	ErrCodeConfigLoad    ErrorCode = "CFG_001"
	ErrCodeConfigInvalid ErrorCode = "CFG_002"
)

// Source Document Error Codes
const (
	ErrCodeDataSourceUnavailable ErrorCode = "SRC_001"
	ErrCodeDataSourceParseError  ErrorCode = "SRC_004"
	ErrCodeDataSourceRootMissing ErrorCode = "SRC_005"
)

// Pipeline Invariant Error Codes
const (
	ErrCodePipelineStageFailed ErrorCode = "PIPE_001"
)

// Table Sink Error Codes
const (
	ErrCodeTableWriteFailed ErrorCode = "TAB_001"
	ErrCodeSchemaMismatch   ErrorCode = "TAB_002"
	ErrCodeOutputDirInvalid ErrorCode = "TAB_003"
)

// Object Store Error Codes
const (
	ErrCodeStorageUnavailable  ErrorCode = "STO_001"
	ErrCodeStorageUploadFailed ErrorCode = "STO_002"
)

// Process exit codes reported by the CLI.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitUsage      = 2
	ExitDataErr    = 65
	ExitNoInput    = 66
	ExitCantCreate = 73
	ExitConfig     = 78
)

// ErrorCodeExitStatus maps ErrorCodes to process exit codes.
var ErrorCodeExitStatus = map[ErrorCode]int{
	ErrCodeInternal:        ExitFailure,
	ErrCodeBadRequest:      ExitUsage,
	ErrCodeNotFound:        ExitNoInput,
	ErrCodeTimeout:         ExitFailure,
	ErrCodeValidation:      ExitUsage,
	ErrCodeSerialization:   ExitFailure,
	ErrCodeCanceled:        ExitFailure,
	ErrCodeNotImplemented:  ExitFailure,
	ErrCodeFeatureDisabled: ExitConfig,

	ErrCodeConfigLoad:    ExitConfig,
	ErrCodeConfigInvalid: ExitConfig,

	ErrCodeDataSourceUnavailable: ExitNoInput,
	ErrCodeDataSourceParseError:  ExitDataErr,
	ErrCodeDataSourceRootMissing: ExitDataErr,

	ErrCodePipelineStageFailed: ExitFailure,

	ErrCodeTableWriteFailed: ExitCantCreate,
	ErrCodeSchemaMismatch:   ExitFailure,
	ErrCodeOutputDirInvalid: ExitCantCreate,

	ErrCodeStorageUnavailable:  ExitFailure,
	ErrCodeStorageUploadFailed: ExitFailure,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:        "internal error",
	ErrCodeBadRequest:      "bad request",
	ErrCodeNotFound:        "resource not found",
	ErrCodeTimeout:         "operation timed out",
	ErrCodeValidation:      "validation failed",
	ErrCodeSerialization:   "serialization failed",
	ErrCodeCanceled:        "operation canceled",
	ErrCodeNotImplemented:  "not implemented",
	ErrCodeFeatureDisabled: "feature disabled",

	ErrCodeConfigLoad:    "failed to load configuration",
	ErrCodeConfigInvalid: "invalid configuration",

	ErrCodeDataSourceUnavailable: "source document unavailable",
	ErrCodeDataSourceParseError:  "failed to parse source document",
	ErrCodeDataSourceRootMissing: "source document root element missing",

	ErrCodePipelineStageFailed: "pipeline stage failed",

	ErrCodeTableWriteFailed: "failed to write output table",
	ErrCodeSchemaMismatch:   "row does not match table schema",
	ErrCodeOutputDirInvalid: "output directory unusable",

	ErrCodeStorageUnavailable:  "object store unavailable",
	ErrCodeStorageUploadFailed: "failed to upload object",
}

// ExitStatusForCode returns the process exit code for an ErrorCode.
func ExitStatusForCode(code ErrorCode) int {
	if code == CodeOK {
		return ExitOK
	}
	if status, ok := ErrorCodeExitStatus[code]; ok {
		return status
	}
	return ExitFailure
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsInputError returns true if the ErrorCode blames the input document or invocation.
func IsInputError(code ErrorCode) bool {
	switch ModuleForCode(code) {
	case "SRC", "CFG":
		return true
	}
	return code == ErrCodeBadRequest || code == ErrCodeValidation
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
