package usecase

import "errors"

const (
	CodeInvalidEmail    = "INVALID_EMAIL"
	CodeDisposableEmail = "DISPOSABLE_EMAIL"
	CodeDatabaseError   = "DATABASE_ERROR"
)

// DomainError is safe to show to the submitter.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}


func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError carries internal detail that must only reach the logs.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}


func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

var (
	ErrInvalidEmail = &DomainError{
		Code:    CodeInvalidEmail,
		Message: "Invalid email address",
	}
	ErrDisposableEmail = &DomainError{
		Code:    CodeDisposableEmail,
		Message: "Please use a valid email address",
	}
)
