// Package apperr define os erros de domínio e o mapeamento para HTTP.
package apperr

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalid      = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// Code é um identificador estável que o front-end usa para escolher a mensagem.
type Code string

const (
	CodeUnknown                Code = "UNKNOWN"
	CodeNotFound               Code = "NOT_FOUND"
	CodeInvalid                Code = "INVALID"
	CodeProductNotFound        Code = "PRODUCT_NOT_FOUND"
	CodeProductInvalid         Code = "PRODUCT_INVALID"
	CodeProductExists          Code = "PRODUCT_EXISTS"
	CodeOutOfStock             Code = "OUT_OF_STOCK"
	CodeCartEmpty              Code = "CART_EMPTY"
	CodeOrderNotFound          Code = "ORDER_NOT_FOUND"
	CodeOrderInvalidTransition Code = "ORDER_INVALID_TRANSITION"
	CodeOrderNotCancellable    Code = "ORDER_NOT_CANCELLABLE"
	CodeEmailTaken             Code = "EMAIL_TAKEN"
	CodeBadCredentials         Code = "BAD_CREDENTIALS"
	CodeReviewInvalid          Code = "REVIEW_INVALID"
	CodeUnauthorized           Code = "UNAUTHORIZED"
	CodeForbidden              Code = "FORBIDDEN"
	CodeUploadFailed           Code = "UPLOAD_FAILED"
)

type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

func New(code Code, kind error, message string) *Error {
	return &Error{Code: code, Message: message, Err: kind}
}

// CodeOf devolve o código mais específico encontrado na cadeia do erro.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrInvalid):
		return CodeInvalid
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	}
	return CodeUnknown
}

func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}
