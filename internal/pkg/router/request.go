package router

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/shandysiswandi/seedkeeper/internal/pkg/goerror"
)

// maxBodyBytes bounds request bodies. A 4096-bit OAEP ciphertext is well under this.
const maxBodyBytes = 64 * 1024

// Request wraps http.Request with helpers for inbound handlers.
type Request struct {
	// Request is the underlying http.Request.
	*http.Request
}

// DecodeBody decodes a single JSON value from the body into dst.
//
// Unknown fields are ignored. An empty body, malformed JSON or trailing data
// yields an invalid-format error carrying failMsg, when given.
func (r *Request) DecodeBody(dst any, failMsg ...string) error {
	if r == nil || r.Body == nil || r.Body == http.NoBody {
		return goerror.NewInvalidFormat(failMsg...)
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))

	if err := dec.Decode(dst); err != nil {
		return goerror.NewInvalidFormat(failMsg...)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return goerror.NewInvalidFormat(failMsg...)
	}

	return nil
}
