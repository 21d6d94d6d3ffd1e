package handlers

import (
	"errors"
	"strings"

	"market-pos/internal/status"
	"market-pos/logger"

	"github.com/go-playground/validator/v10"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"
)

var validate = validator.New()

// apiError maps service errors onto PocketBase API errors. Anything that is not
// a validation or lookup failure is logged and hidden behind a generic message.
func apiError(e *core.RequestEvent, action string, err error) error {
	switch {
	case status.IsNotFound(err):
		return apis.NewNotFoundError("The requested resource wasn't found.", nil)
	case status.IsValidation(err):
		return apis.NewBadRequestError(err.Error(), nil)
	}

	logger.FromContext(e.Request.Context()).Error(action, zap.Error(err))
	return apis.NewInternalServerError("Something went wrong while processing your request.", nil)
}

func bindAndValidate(e *core.RequestEvent, dst any) error {
	if err := e.BindBody(dst); err != nil {
		return apis.NewBadRequestError("Invalid request body", nil)
	}
	if err := validate.Struct(dst); err != nil {
		return apis.NewBadRequestError(validationMessage(err), nil)
	}
	return nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, strings.ToLower(fe.Field())+": failed "+fe.Tag())
	}
	return strings.Join(parts, ", ")
}
