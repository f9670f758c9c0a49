// Package shared holds request helpers used by several feature handlers.
package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dalemusser/adarshgram/internal/app/lifecycle"
	"github.com/dalemusser/adarshgram/internal/app/system/auth"
	"github.com/dalemusser/adarshgram/internal/domain/apperr"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxJSONBody caps JSON request bodies.
const MaxJSONBody = 1 << 20

// Session returns the lifecycle session of the signed-in contractor, or the
// zero Session when nobody is signed in or the cookie holds a bad id.
func Session(r *http.Request) lifecycle.Session {
	c, ok := auth.CurrentContractor(r)
	if !ok || c == nil {
		return lifecycle.Session{}
	}
	id, err := c.ObjectID()
	if err != nil {
		return lifecycle.Session{}
	}
	return lifecycle.Session{
		ContractorID:   id,
		Username:       c.Username,
		Name:           c.Name,
		Specialization: c.Specialization,
	}
}

// CookieContractor is the cookie form of s.
func CookieContractor(s lifecycle.Session) auth.SessionContractor {
	return auth.SessionContractor{
		ID:             s.ContractorID.Hex(),
		Username:       s.Username,
		Name:           s.Name,
		Specialization: s.Specialization,
	}
}

// DecodeJSON reads r's body into v. Malformed or oversized bodies are
// reported as validation errors.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxJSONBody))
	if err := dec.Decode(v); err != nil {
		var tooBig *http.MaxBytesError
		switch {
		case errors.As(err, &tooBig):
			return fmt.Errorf("%w: request body exceeds %d bytes", apperr.ErrValidation, MaxJSONBody)
		case errors.Is(err, io.EOF):
			return fmt.Errorf("%w: request body is empty", apperr.ErrValidation)
		default:
			return fmt.Errorf("%w: invalid JSON body", apperr.ErrValidation)
		}
	}
	return nil
}

// IDParam parses the chi URL parameter name as an ObjectID.
func IDParam(r *http.Request, name string) (primitive.ObjectID, error) {
	raw := chi.URLParam(r, name)
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q is not a valid id", apperr.ErrValidation, raw)
	}
	return id, nil
}
