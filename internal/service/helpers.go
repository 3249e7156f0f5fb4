package service

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// validationDetails flattens validator output into a field→rule map for the
// error envelope's details payload.
func validationDetails(err error) interface{} {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[fe.Field()] = fe.Tag()
		}
		return details
	}
	if err != nil {
		return err.Error()
	}
	return nil
}
