package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrLoanNotFound            = errors.New("loan not found")
	ErrLoanAlreadyExists       = errors.New("loan already exists")
	ErrInvalidLoanState        = errors.New("invalid loan state")
	ErrLoanAlreadyDisbursed    = errors.New("loan is already disbursed")
	ErrInvalidPaymentAmount    = errors.New("invalid payment amount")
	ErrRemittanceNotFound      = errors.New("remittance not found")
	ErrRemittanceAlreadyExists = errors.New("remittance already exists")
	ErrInvalidRemittance       = errors.New("invalid remittance")
	ErrRemittanceNotPartial    = errors.New("remittance has no remainder to pay")
	ErrRemainderExceeded       = errors.New("payment exceeds remittance remainder")
	ErrValidation              = errors.New("validation failed")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeLoanNotFound            = "LOAN_NOT_FOUND"
	ErrCodeLoanAlreadyExists       = "LOAN_ALREADY_EXISTS"
	ErrCodeInvalidLoanState        = "INVALID_LOAN_STATE"
	ErrCodeLoanAlreadyDisbursed    = "LOAN_ALREADY_DISBURSED"
	ErrCodeInvalidPaymentAmount    = "INVALID_PAYMENT_AMOUNT"
	ErrCodeRemittanceNotFound      = "REMITTANCE_NOT_FOUND"
	ErrCodeRemittanceAlreadyExists = "REMITTANCE_ALREADY_EXISTS"
	ErrCodeInvalidRemittance       = "INVALID_REMITTANCE"
	ErrCodeRemittanceNotPartial    = "REMITTANCE_NOT_PARTIAL"
	ErrCodeRemainderExceeded       = "REMAINDER_EXCEEDED"
	ErrCodeValidation              = "VALIDATION_ERROR"
	ErrCodeDatabaseError           = "DATABASE_ERROR"
)

// Wrap common errors with business context
func WrapLoanNotFound(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanNotFound,
		fmt.Sprintf("Loan with ID %s not found", loanID),
		ErrLoanNotFound,
	)
}

func WrapLoanAlreadyExists(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanAlreadyExists,
		fmt.Sprintf("Loan with ID %s already exists", loanID),
		ErrLoanAlreadyExists,
	)
}

func WrapInvalidLoanState(loanID, status, action string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidLoanState,
		fmt.Sprintf("Loan with ID %s cannot be %s while %s", loanID, action, status),
		ErrInvalidLoanState,
	)
}

func WrapLoanAlreadyDisbursed(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanAlreadyDisbursed,
		fmt.Sprintf("Loan with ID %s has already been disbursed", loanID),
		ErrLoanAlreadyDisbursed,
	)
}

func WrapInvalidPaymentAmount(amount string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidPaymentAmount,
		fmt.Sprintf("Invalid payment amount: %s", amount),
		ErrInvalidPaymentAmount,
	)
}

func WrapRemittanceNotFound(csoID, date string) *BusinessError {
	return NewBusinessError(
		ErrCodeRemittanceNotFound,
		fmt.Sprintf("No remittance for CSO %s on %s", csoID, date),
		ErrRemittanceNotFound,
	)
}

func WrapRemittanceAlreadyExists(csoID, date string) *BusinessError {
	return NewBusinessError(
		ErrCodeRemittanceAlreadyExists,
		fmt.Sprintf("Remittance for CSO %s on %s already exists", csoID, date),
		ErrRemittanceAlreadyExists,
	)
}

func WrapInvalidRemittance(message string) *BusinessError {
	return NewBusinessError(ErrCodeInvalidRemittance, message, ErrInvalidRemittance)
}

func WrapRemittanceNotPartial(csoID, date string) *BusinessError {
	return NewBusinessError(
		ErrCodeRemittanceNotPartial,
		fmt.Sprintf("Remittance for CSO %s on %s has no outstanding remainder", csoID, date),
		ErrRemittanceNotPartial,
	)
}

func WrapRemainderExceeded(remaining, amount string) *BusinessError {
	return NewBusinessError(
		ErrCodeRemainderExceeded,
		fmt.Sprintf("Payment %s exceeds remaining %s", amount, remaining),
		ErrRemainderExceeded,
	)
}

func WrapValidation(err error) *BusinessError {
	return NewBusinessError(ErrCodeValidation, "request validation failed", errors.Join(ErrValidation, err))
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

// Code extracts the business code from err, or "" if it carries none
func Code(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}
