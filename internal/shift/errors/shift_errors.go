package shifterrors

import (
	"net/http"

	"go-schedule/internal/shared/apperror"
)

var (
	ErrInvalidEventID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid event id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrEventNotFound = apperror.New(
		apperror.CodeNotFound,
		"event not found",
		http.StatusNotFound,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrInvalidTimestamp = apperror.New(
		apperror.CodeInvalidInput,
		"invalid timestamp, expected RFC 3339",
		http.StatusBadRequest,
	)
)
