package errors

import (
	stdErrors "errors"
	"fmt"
)

type Code string

const (
	CodeValidation       Code = "VALIDATION_ERROR"
	CodeSchema           Code = "SCHEMA_ERROR"
	CodeMissingReference Code = "MISSING_REFERENCE"
	CodeNotFound         Code = "NOT_FOUND"
	CodeInternal         Code = "INTERNAL_ERROR"
	CodeDependency       Code = "DEPENDENCY_ERROR"
)

type Metadata struct {
	ExitStatus     int
	Fatal          bool
	PublicMessage  string
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {
		ExitStatus:     2,
		PublicMessage:  "validation failed",
		DetailsAllowed: true,
	},
	CodeSchema: {
		ExitStatus:     3,
		Fatal:          true,
		PublicMessage:  "dataset schema invalid",
		DetailsAllowed: true,
	},
	CodeMissingReference: {
		ExitStatus:     4,
		PublicMessage:  "unresolved foreign key",
		DetailsAllowed: true,
	},
	CodeNotFound: {
		ExitStatus:    5,
		PublicMessage: "resource not found",
	},
	CodeInternal: {
		ExitStatus:    1,
		Fatal:         true,
		PublicMessage: "internal error",
	},
	CodeDependency: {
		ExitStatus:     6,
		Fatal:          true,
		PublicMessage:  "dependency unavailable",
		DetailsAllowed: true,
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}
