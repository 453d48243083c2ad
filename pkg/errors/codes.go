package errors

import (
	"net/http"
	"strings"
)

// ErrorCode names a failure as MODULE_NNN.
type ErrorCode string

func (c ErrorCode) String() string { return string(c) }

const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
	ErrCodeConfig             ErrorCode = "COMMON_017"
	ErrCodeStorage            ErrorCode = "COMMON_018"
)

// Structure handling.
const (
	ErrCodeMoleculeInvalidSMILES  ErrorCode = "MOL_001"
	ErrCodeMoleculeDisconnected   ErrorCode = "MOL_002"
	ErrCodeMoleculeParsingFailed  ErrorCode = "MOL_006"
	ErrCodeEngineNotReady         ErrorCode = "MOL_015"
	ErrCodeBondIndexInvalid       ErrorCode = "MOL_016"
	ErrCodeExportSelectionMissing ErrorCode = "MOL_017"
)

// Prediction service and editor.
const (
	ErrCodeTransport         ErrorCode = "SVC_001"
	ErrCodeDecoding          ErrorCode = "SVC_002"
	ErrCodeEmptyPayload      ErrorCode = "SVC_003"
	ErrCodeReportFormat      ErrorCode = "SVC_004"
	ErrCodeEditorUnavailable ErrorCode = "SVC_005"
)

// Batch analysis.
const (
	ErrCodeNoValidItems    ErrorCode = "BAT_001"
	ErrCodeBatchInProgress ErrorCode = "BAT_002"
	ErrCodePartialFailure  ErrorCode = "BAT_003"
)

const (
	CodeInternal  = ErrCodeInternal
	CodeRateLimit = ErrCodeTooManyRequests
	CodeOK        = ErrorCode("OK")
	CodeUnknown   = ErrorCode("UNKNOWN")
)

type family uint8

const (
	familyNone family = iota
	familyValidation
	familyTransport
	familyDecoding
)

type codeInfo struct {
	status  int
	message string
	family  family
}

var catalog = map[ErrorCode]codeInfo{
	ErrCodeInternal:           {http.StatusInternalServerError, "internal error", familyNone},
	ErrCodeBadRequest:         {http.StatusBadRequest, "bad request", familyValidation},
	ErrCodeNotFound:           {http.StatusNotFound, "resource not found", familyNone},
	ErrCodeConflict:           {http.StatusConflict, "resource conflict", familyNone},
	ErrCodeTooManyRequests:    {http.StatusTooManyRequests, "too many requests", familyTransport},
	ErrCodeServiceUnavailable: {http.StatusServiceUnavailable, "service unavailable", familyTransport},
	ErrCodeTimeout:            {http.StatusGatewayTimeout, "request timeout", familyTransport},
	ErrCodeValidation:         {http.StatusUnprocessableEntity, "validation failed", familyValidation},
	ErrCodeSerialization:      {http.StatusInternalServerError, "serialization failed", familyDecoding},
	ErrCodeCacheError:         {http.StatusInternalServerError, "cache error", familyNone},
	ErrCodeExternalService:    {http.StatusBadGateway, "external service error", familyTransport},
	ErrCodeConfig:             {http.StatusInternalServerError, "invalid configuration", familyNone},
	ErrCodeStorage:            {http.StatusInternalServerError, "storage error", familyNone},

	ErrCodeMoleculeInvalidSMILES:  {http.StatusBadRequest, "invalid SMILES", familyValidation},
	ErrCodeMoleculeDisconnected:   {http.StatusBadRequest, "disconnected structures are not supported", familyValidation},
	ErrCodeMoleculeParsingFailed:  {http.StatusUnprocessableEntity, "failed to parse molecule", familyValidation},
	ErrCodeEngineNotReady:         {http.StatusServiceUnavailable, "structure engine not ready", familyNone},
	ErrCodeBondIndexInvalid:       {http.StatusBadRequest, "invalid bond index", familyValidation},
	ErrCodeExportSelectionMissing: {http.StatusBadRequest, "select at least one export format", familyValidation},

	ErrCodeTransport:         {http.StatusBadGateway, "prediction service unreachable", familyTransport},
	ErrCodeDecoding:          {http.StatusBadGateway, "prediction service returned an unreadable payload", familyDecoding},
	ErrCodeEmptyPayload:      {http.StatusBadGateway, "prediction service returned no data", familyDecoding},
	ErrCodeReportFormat:      {http.StatusBadRequest, "unsupported report format", familyNone},
	ErrCodeEditorUnavailable: {http.StatusServiceUnavailable, "no structure editor available", familyNone},

	ErrCodeNoValidItems:    {http.StatusUnprocessableEntity, "no valid molecules to analyze", familyValidation},
	ErrCodeBatchInProgress: {http.StatusConflict, "a batch analysis is already running", familyNone},
	ErrCodePartialFailure:  {http.StatusMultiStatus, "some molecules could not be analyzed", familyNone},
}

// HTTPStatusForCode falls back to 500 for codes outside the catalog.
func HTTPStatusForCode(code ErrorCode) int {
	if info, ok := catalog[code]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

func DefaultMessageForCode(code ErrorCode) string {
	if info, ok := catalog[code]; ok {
		return info.message
	}
	return "unknown error"
}

// IsClientError reports a 4xx code.
func IsClientError(code ErrorCode) bool {
	s := HTTPStatusForCode(code)
	return s >= 400 && s < 500
}

// IsServerError reports a 5xx code.
func IsServerError(code ErrorCode) bool {
	return HTTPStatusForCode(code) >= 500
}

// ModuleForCode returns the prefix before the first underscore.
func ModuleForCode(code ErrorCode) string {
	if module, _, _ := strings.Cut(string(code), "_"); module != "" {
		return module
	}
	return "UNKNOWN"
}

func familyOf(err error) family {
	return catalog[GetCode(err)].family
}

//Personal.AI order the ending
