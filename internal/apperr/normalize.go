package apperr

import (
	"errors"

	"github.com/sirupsen/logrus"
)

// Record is the response-ready failure shape surfaced at every transport
// boundary. HTTPStatus is derived from Code and never set independently.
type Record struct {
	Code        Kind         `json:"code"`
	Message     string       `json:"message"`
	HTTPStatus  int          `json:"-"`
	FieldErrors []FieldError `json:"fieldErrors,omitempty"`
}

// genericInternalMessage is the only text an unrecognized error may surface.
const genericInternalMessage = "an internal error occurred"

// Normalize converts any error into a Record. Recognized taxonomy errors keep
// their kind and message; anything else becomes an Internal record with a
// fixed generic message, and the original error is logged after sanitization.
func Normalize(logger logrus.FieldLogger, err error) Record {
	var appErr *Error
	if errors.As(err, &appErr) {
		rec := Record{
			Code:       appErr.Kind,
			Message:    appErr.Message,
			HTTPStatus: appErr.Kind.HTTPStatus(),
		}
		if appErr.Kind == KindValidation {
			rec.FieldErrors = appErr.FieldErrors
		}
		if appErr.Kind == KindInternal {
			// Internal errors keep their cause private.
			rec.Message = genericInternalMessage
			logUnexpected(logger, appErr)
		}
		return rec
	}

	logUnexpected(logger, err)
	return Record{
		Code:       KindInternal,
		Message:    genericInternalMessage,
		HTTPStatus: KindInternal.HTTPStatus(),
	}
}

func logUnexpected(logger logrus.FieldLogger, err error) {
	if logger == nil {
		return
	}
	logger.WithField("error", Sanitize(err.Error())).Error("unhandled error")
}
