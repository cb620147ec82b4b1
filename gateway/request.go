package gateway

import (
	"encoding/json"
	"net/http"
	"strings"

	apperrors "github.com/jrsteele09/clinic-gateway/internal/errors"
)

// Request describes a single JSON call. Method defaults to GET. Headers
// are laid over the defaults, caller values winning. A nil Body sends no
// body.
type Request struct {
	URL     string
	Method  string
	Headers map[string]string
	Body    *string
}

var allowedMethods = map[string]struct{}{
	http.MethodGet:    {},
	http.MethodPost:   {},
	http.MethodPut:    {},
	http.MethodDelete: {},
}

func (r Request) method() (string, error) {
	if r.Method == "" {
		return http.MethodGet, nil
	}
	m := strings.ToUpper(r.Method)
	if _, ok := allowedMethods[m]; !ok {
		return "", apperrors.Wrapf(apperrors.ErrInvalidRequest, "unsupported method %q", r.Method)
	}
	return m, nil
}

// JSONBody serialises v for use as a Request body
func JSONBody(v any) (*string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, apperrors.Wrapf(err, "encoding request body")
	}
	s := string(b)
	return &s, nil
}
