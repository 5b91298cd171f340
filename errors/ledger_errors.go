package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/mezonai/tokencore/jsonx"
)

// ErrorClass groups error codes so callers can tell transient throttling
// apart from permanent validation failures.
type ErrorClass string

const (
	ClassAuthorization ErrorClass = "authorization"
	ClassValidation    ErrorClass = "validation"
	ClassIntegrity     ErrorClass = "integrity"
	ClassSequencing    ErrorClass = "sequencing"
	ClassArithmetic    ErrorClass = "arithmetic"
	ClassThrottling    ErrorClass = "throttling"
	ClassInternal      ErrorClass = "internal"
)

// ErrorCode represents standardized error codes for ledger operations
type ErrorCode string

const (
	// Authorization errors
	ErrCodeUnauthorized ErrorCode = "unauthorized"
	ErrCodePaused       ErrorCode = "paused"

	// Validation errors
	ErrCodeTransactionValueTooHigh ErrorCode = "transaction_value_too_high"
	ErrCodeDailyLimitExceeded      ErrorCode = "daily_limit_exceeded"
	ErrCodeInvalidRiskParameters   ErrorCode = "invalid_risk_parameters"
	ErrCodeInvalidVestingSchedule  ErrorCode = "invalid_vesting_schedule"
	ErrCodeNoVestingToClaim        ErrorCode = "no_vesting_to_claim"
	ErrCodeInvalidRequest          ErrorCode = "invalid_request"
	ErrCodeSignerAlreadyRegistered ErrorCode = "signer_already_registered"
	ErrCodeAlreadyInitialized      ErrorCode = "already_initialized"
	ErrCodeNotInitialized          ErrorCode = "not_initialized"

	// Integrity errors
	ErrCodeInvalidSignature ErrorCode = "invalid_signature"

	// Sequencing errors
	ErrCodeNonceOverflow        ErrorCode = "nonce_overflow"
	ErrCodeInvalidNonce         ErrorCode = "invalid_nonce"
	ErrCodeDuplicateTransaction ErrorCode = "duplicate_transaction"

	// Arithmetic errors
	ErrCodeInsufficientFunds ErrorCode = "insufficient_funds"
	ErrCodeOverflow          ErrorCode = "overflow"
	ErrCodeUnderflow         ErrorCode = "underflow"
	ErrCodeDivideByZero      ErrorCode = "divide_by_zero"

	// Throttling errors
	ErrCodeCoolingPeriod     ErrorCode = "cooling_period"
	ErrCodeRateLimitExceeded ErrorCode = "rate_limit_exceeded"

	// System errors
	ErrCodeInternal ErrorCode = "internal_error"
)

var codeClasses = map[ErrorCode]ErrorClass{
	ErrCodeUnauthorized:            ClassAuthorization,
	ErrCodePaused:                  ClassAuthorization,
	ErrCodeTransactionValueTooHigh: ClassValidation,
	ErrCodeDailyLimitExceeded:      ClassValidation,
	ErrCodeInvalidRiskParameters:   ClassValidation,
	ErrCodeInvalidVestingSchedule:  ClassValidation,
	ErrCodeNoVestingToClaim:        ClassValidation,
	ErrCodeInvalidRequest:          ClassValidation,
	ErrCodeSignerAlreadyRegistered: ClassValidation,
	ErrCodeAlreadyInitialized:      ClassValidation,
	ErrCodeNotInitialized:          ClassValidation,
	ErrCodeInvalidSignature:        ClassIntegrity,
	ErrCodeNonceOverflow:           ClassSequencing,
	ErrCodeInvalidNonce:            ClassSequencing,
	ErrCodeDuplicateTransaction:    ClassSequencing,
	ErrCodeInsufficientFunds:       ClassArithmetic,
	ErrCodeOverflow:                ClassArithmetic,
	ErrCodeUnderflow:               ClassArithmetic,
	ErrCodeDivideByZero:            ClassArithmetic,
	ErrCodeCoolingPeriod:           ClassThrottling,
	ErrCodeRateLimitExceeded:       ClassThrottling,
	ErrCodeInternal:                ClassInternal,
}

// Error message constants - user-friendly and concise
const (
	ErrMsgUnauthorized            = "Unauthorized operation"
	ErrMsgPaused                  = "Token operations are paused"
	ErrMsgTransactionValueTooHigh = "Transaction value exceeds maximum allowed"
	ErrMsgDailyLimitExceeded      = "Daily transaction limit exceeded"
	ErrMsgInvalidRiskParameters   = "Invalid risk parameters"
	ErrMsgInvalidVestingSchedule  = "Invalid vesting schedule"
	ErrMsgNoVestingToClaim        = "No vested amount to claim"
	ErrMsgInvalidRequest          = "Request is invalid"
	ErrMsgSignerAlreadyRegistered = "A signer key is already registered for this address"
	ErrMsgAlreadyInitialized      = "Ledger is already initialized"
	ErrMsgNotInitialized          = "Ledger is not initialized"
	ErrMsgInvalidSignature        = "Invalid signature"
	ErrMsgNonceOverflow           = "Nonce overflow"
	ErrMsgInvalidNonce            = "Transaction nonce is invalid"
	ErrMsgDuplicateTransaction    = "This transaction already exists"
	ErrMsgInsufficientFunds       = "Not enough balance in your wallet"
	ErrMsgOverflow                = "Arithmetic overflow"
	ErrMsgUnderflow               = "Arithmetic underflow"
	ErrMsgDivideByZero            = "Division by zero"
	ErrMsgCoolingPeriod           = "Account in cooling period"
	ErrMsgRateLimitExceeded       = "Rate limit exceeded"
	ErrMsgInternal                = "Server error, please try again"
)

var (
	ErrUnauthorized            = NewError(ErrCodeUnauthorized, ErrMsgUnauthorized)
	ErrPaused                  = NewError(ErrCodePaused, ErrMsgPaused)
	ErrTransactionValueTooHigh = NewError(ErrCodeTransactionValueTooHigh, ErrMsgTransactionValueTooHigh)
	ErrDailyLimitExceeded      = NewError(ErrCodeDailyLimitExceeded, ErrMsgDailyLimitExceeded)
	ErrInvalidRiskParameters   = NewError(ErrCodeInvalidRiskParameters, ErrMsgInvalidRiskParameters)
	ErrInvalidVestingSchedule  = NewError(ErrCodeInvalidVestingSchedule, ErrMsgInvalidVestingSchedule)
	ErrNoVestingToClaim        = NewError(ErrCodeNoVestingToClaim, ErrMsgNoVestingToClaim)
	ErrInvalidRequest          = NewError(ErrCodeInvalidRequest, ErrMsgInvalidRequest)
	ErrSignerAlreadyRegistered = NewError(ErrCodeSignerAlreadyRegistered, ErrMsgSignerAlreadyRegistered)
	ErrAlreadyInitialized      = NewError(ErrCodeAlreadyInitialized, ErrMsgAlreadyInitialized)
	ErrNotInitialized          = NewError(ErrCodeNotInitialized, ErrMsgNotInitialized)
	ErrInvalidSignature        = NewError(ErrCodeInvalidSignature, ErrMsgInvalidSignature)
	ErrNonceOverflow           = NewError(ErrCodeNonceOverflow, ErrMsgNonceOverflow)
	ErrInvalidNonce            = NewError(ErrCodeInvalidNonce, ErrMsgInvalidNonce)
	ErrDuplicateTransaction    = NewError(ErrCodeDuplicateTransaction, ErrMsgDuplicateTransaction)
	ErrInsufficientFunds       = NewError(ErrCodeInsufficientFunds, ErrMsgInsufficientFunds)
	ErrOverflow                = NewError(ErrCodeOverflow, ErrMsgOverflow)
	ErrUnderflow               = NewError(ErrCodeUnderflow, ErrMsgUnderflow)
	ErrDivideByZero            = NewError(ErrCodeDivideByZero, ErrMsgDivideByZero)
	ErrCoolingPeriod           = NewError(ErrCodeCoolingPeriod, ErrMsgCoolingPeriod)
	ErrRateLimitExceeded       = NewError(ErrCodeRateLimitExceeded, ErrMsgRateLimitExceeded)
)

// LedgerError represents a standardized ledger error
type LedgerError struct {
	Code    ErrorCode  `json:"code"`
	Class   ErrorClass `json:"class"`
	Message string     `json:"message"`
}

// Error implements the error interface
func (e *LedgerError) Error() string {
	err, _ := jsonx.Marshal(LedgerError{
		Code:    e.Code,
		Class:   e.Class,
		Message: e.Message,
	})
	return string(err)
}

// Is matches any LedgerError carrying the same code, so a detailed error
// built with Newf still satisfies errors.Is against the package sentinel.
func (e *LedgerError) Is(target error) bool {
	t, ok := target.(*LedgerError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewError creates a new LedgerError and returns it as error interface
func NewError(code ErrorCode, message string) error {
	class, ok := codeClasses[code]
	if !ok {
		class = ClassInternal
	}
	return &LedgerError{
		Code:    code,
		Class:   class,
		Message: message,
	}
}

// Newf creates a LedgerError with the given code and a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) error {
	return NewError(code, fmt.Sprintf(format, args...))
}

// CodeOf returns the ledger error code carried by err, or ErrCodeInternal
// when err is not a LedgerError.
func CodeOf(err error) ErrorCode {
	var le *LedgerError
	if stderrors.As(err, &le) {
		return le.Code
	}
	return ErrCodeInternal
}

// ClassOf returns the taxonomy class of err.
func ClassOf(err error) ErrorClass {
	var le *LedgerError
	if stderrors.As(err, &le) {
		return le.Class
	}
	return ClassInternal
}
