package domain

import (
	"errors"
	"fmt"
)

// Category sentinels — use with NewSubSystemError for subsystem-specific errors.
var (
	ErrNotFound      = fmt.Errorf("not found")
	ErrInvalidInput  = fmt.Errorf("invalid input")
	ErrNotReady      = fmt.Errorf("system not ready")
	ErrProviderError = fmt.Errorf("provider error")
)

// Provider failure subtypes. All wrap ErrProviderError so callers can match
// the category without caring which subtype occurred.
var (
	ErrProviderAuth      = fmt.Errorf("authentication rejected: %w", ErrProviderError)
	ErrProviderRateLimit = fmt.Errorf("rate limit exceeded: %w", ErrProviderError)
	ErrProviderTimeout   = fmt.Errorf("request timed out: %w", ErrProviderError)
	ErrProviderOverload  = fmt.Errorf("upstream unavailable: %w", ErrProviderError)
)

// DomainError wraps a sentinel error with operation context.
type DomainError struct {
	Op        string // operation name (e.g. "Router.Chat")
	Err       error  // underlying sentinel or wrapped error
	Detail    string // human-readable detail
	SubSystem string // subsystem identifier (e.g. "agent", "personality")
}

func (e *DomainError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *DomainError) Unwrap() error { return e.Err }

// NewDomainError creates a new DomainError.
func NewDomainError(op string, err error, detail string) *DomainError {
	return &DomainError{Op: op, Err: err, Detail: detail}
}

// NewSubSystemError creates a DomainError tagged with a subsystem so that
// ErrorCodeOf can map the sentinel + subsystem pair to a specific code.
func NewSubSystemError(subsystem, op string, err error, detail string) *DomainError {
	return &DomainError{Op: op, Err: err, Detail: detail, SubSystem: subsystem}
}

// WrapOp adds operation context to an error using fmt.Errorf wrapping.
// Returns nil if err is nil, enabling idiomatic use: return domain.WrapOp("op", err)
func WrapOp(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// IsRetryableError reports whether err is a transient provider failure that
// may succeed on retry. Auth and validation failures are never retryable.
func IsRetryableError(err error) bool {
	return errors.Is(err, ErrProviderRateLimit) || errors.Is(err, ErrProviderOverload)
}

// ErrorCode is a machine-parseable error category for monitoring and alerting.
type ErrorCode string

// Error codes. Every sentinel maps to exactly one code; subsystem-tagged
// not-found errors resolve to their specific code.
const (
	CodeUnknown             ErrorCode = "UNKNOWN"
	CodeNotFound            ErrorCode = "NOT_FOUND"
	CodeAgentNotFound       ErrorCode = "AGENT_NOT_FOUND"
	CodePersonalityNotFound ErrorCode = "PERSONALITY_NOT_FOUND"
	CodeDomainNotFound      ErrorCode = "BUSINESS_DOMAIN_NOT_FOUND"
	CodeInvalidInput        ErrorCode = "INVALID_INPUT"
	CodeNotReady            ErrorCode = "NOT_READY"
	CodeProviderError       ErrorCode = "PROVIDER_ERROR"
	CodeProviderAuth        ErrorCode = "PROVIDER_AUTH"
	CodeProviderRateLimit   ErrorCode = "PROVIDER_RATE_LIMIT"
	CodeProviderTimeout     ErrorCode = "PROVIDER_TIMEOUT"
	CodeProviderOverload    ErrorCode = "PROVIDER_OVERLOAD"
)

// errorCodeMap maps sentinel errors to their machine-parseable codes.
// Order matters for ErrorCodeOf's chain walk: subtypes are listed before
// the categories they wrap.
var errorCodeList = []struct {
	sentinel error
	code     ErrorCode
}{
	{ErrProviderAuth, CodeProviderAuth},
	{ErrProviderRateLimit, CodeProviderRateLimit},
	{ErrProviderTimeout, CodeProviderTimeout},
	{ErrProviderOverload, CodeProviderOverload},
	{ErrProviderError, CodeProviderError},
	{ErrNotFound, CodeNotFound},
	{ErrInvalidInput, CodeInvalidInput},
	{ErrNotReady, CodeNotReady},
}

// subSystemCodeMap maps (category sentinel, subsystem) pairs to specific codes.
var subSystemCodeMap = map[error]map[string]ErrorCode{
	ErrNotFound: {
		"agent":       CodeAgentNotFound,
		"personality": CodePersonalityNotFound,
		"domain":      CodeDomainNotFound,
	},
}

// ErrorCodeOf returns the machine-parseable error code for the given error.
// It unwraps DomainError to check subsystem-specific mappings first, then
// walks the error chain with errors.Is. Returns CodeUnknown on no match.
func ErrorCodeOf(err error) ErrorCode {
	if err == nil {
		return CodeUnknown
	}

	var de *DomainError
	if errors.As(err, &de) && de.SubSystem != "" {
		if subsysMap, ok := subSystemCodeMap[de.Err]; ok {
			if code, ok := subsysMap[de.SubSystem]; ok {
				return code
			}
		}
	}

	for _, entry := range errorCodeList {
		if errors.Is(err, entry.sentinel) {
			return entry.code
		}
	}

	return CodeUnknown
}

// Code returns the ErrorCode for this DomainError's underlying sentinel.
func (e *DomainError) Code() ErrorCode {
	return ErrorCodeOf(e)
}
