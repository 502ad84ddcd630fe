package gateway

import (
	"github.com/go-faster/errors"
)

// UploadError is returned by SubmitUpload for every failure. Message is the
// server's error text when it sent one, otherwise the transport error.
type UploadError struct {
	Message string
	Details string
	// Status is the HTTP status, 0 when no response was received.
	Status int
}

func (e *UploadError) Error() string {
	return e.Message
}

// AsUploadError unwraps err to an *UploadError.
func AsUploadError(err error) (*UploadError, bool) {
	var ue *UploadError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}
