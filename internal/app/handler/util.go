package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"budget/internal/app/apperr"
	"budget/internal/app/logger"
	"budget/internal/app/model"
	"budget/internal/app/validate"
)

var validateDTO = validator.New()

var errMalformedID = errors.New("malformed id")

// readBody into json struct
func readBody(r *http.Request, v interface{}) error {
	body, err := ioutil.ReadAll(r.Body)
	_ = r.Body.Close()
	if err != nil {
		return fmt.Errorf("body read: %w", err)
	}

	err = json.Unmarshal(body, v)
	if err != nil {
		return fmt.Errorf("json decode: %w", err)
	}

	return nil
}

// pathID parses a positive integer url parameter
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errMalformedID
	}
	return id, nil
}

type jsonError struct {
	Message string `json:"error"`
}

// WriteError formatted in json
func WriteError(w http.ResponseWriter, err error, statusCode int) {
	WriteResponse(w, &jsonError{Message: err.Error()}, statusCode)
}

// WriteResponse formatted in json
func WriteResponse(w http.ResponseWriter, v interface{}, statusCode int) {
	resBody, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, _ = w.Write(resBody)
}

type ValidationErrorResponse struct {
	Errors ValidationErrors `json:"errors"`
}

type ValidationErrors []ValidationError

type ValidationError struct {
	Msg   string `json:"msg"`
	Param string `json:"param"`
	Value string `json:"value,omitempty"`
}

// validateData and send errors, returns true if no validation errors
func validateData(w http.ResponseWriter, v interface{}) bool {
	err := validateDTO.Struct(v)
	if err == nil {
		return true
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		WriteError(w, err, http.StatusBadRequest)
		return false
	}

	errs := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, ValidationError{
			Msg:   fe.Error(),
			Param: fe.Field(),
			Value: fmt.Sprintf("%v", fe.Value()),
		})
	}
	writeValidationErrors(w, errs)

	return false
}

// writeValidationErrors formatted in json
func writeValidationErrors(w http.ResponseWriter, errors ValidationErrors) {
	WriteResponse(w, ValidationErrorResponse{errors}, http.StatusBadRequest)
}

// StatusCode maps application errors to http statuses
func StatusCode(err error) int {
	switch {
	case errors.Is(err, apperr.ErrValidation),
		errors.Is(err, apperr.ErrAlreadyExists),
		errors.Is(err, errMalformedID):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrInvalidCredentials),
		errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// writeServiceError renders err with its status, gate failures are listed per field
func writeServiceError(w http.ResponseWriter, r *http.Request, component string, err error) {
	log := logger.Get(r.Context(), component)

	status := StatusCode(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Send()
		WriteError(w, errors.New(http.StatusText(status)), status)
		return
	}
	log.Debug().Err(err).Int("status", status).Send()

	if items := validate.ValidationErrors(err); len(items) > 0 {
		errs := make(ValidationErrors, 0, len(items))
		for _, item := range items {
			errs = append(errs, ValidationError{Msg: item.Reason, Param: item.Field})
		}
		writeValidationErrors(w, errs)
		return
	}

	WriteError(w, err, status)
}

type ContextKeyUser struct{}

func ReadContextUser(ctx context.Context) (*model.User, error) {
	v := ctx.Value(ContextKeyUser{})
	if user, ok := v.(*model.User); ok {
		return user, nil
	}

	return nil, apperr.ErrUnauthorized
}
