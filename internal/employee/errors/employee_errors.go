package employeeerrors

import (
	"net/http"

	"go-schedule/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrEmployeeAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"employee with the same email already exists",
		http.StatusConflict,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidHourlyRate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid hourly rate, expected a decimal amount",
		http.StatusBadRequest,
	)
)
