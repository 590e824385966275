// Package rpc implements the procedure router: every call is gated by the
// caller's session, decoded and validated against its input schema, then
// handed to a single effect whose outcome is wrapped in a result envelope.
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"ecodeli/internal/apperr"
	"ecodeli/internal/domain"
	"ecodeli/internal/session"

	"github.com/go-playground/validator/v10"
)

// Caller is what a procedure knows about who invoked it.
type Caller struct {
	Session   *session.Session
	IP        string
	Locale    string
	RequestID string
}

// UserID returns the session user id or 0.
func (c Caller) UserID() int64 {
	if c.Session == nil {
		return 0
	}
	return c.Session.UserID
}

// Access describes who may call a procedure.
type Access struct {
	session bool
	roles   []domain.Role
}

// Public procedures accept sessionless callers.
var Public = Access{}

// Authenticated procedures require any session.
var Authenticated = Access{session: true}

// Roles restricts a procedure to sessions holding one of roles.
func Roles(roles ...domain.Role) Access {
	return Access{session: true, roles: roles}
}

// Check gates s against the access rule.
func (a Access) Check(s *session.Session) error {
	if !a.session {
		return nil
	}
	if s == nil {
		return fmt.Errorf("%w: session required", apperr.ErrUnauthorized)
	}
	if len(a.roles) > 0 && !s.HasRole(a.roles...) {
		return fmt.Errorf("%w: role %q may not call this procedure", apperr.ErrForbidden, s.Role)
	}
	return nil
}

func (a Access) String() string {
	switch {
	case !a.session:
		return "public"
	case len(a.roles) == 0:
		return "session"
	}
	names := make([]string, 0, len(a.roles))
	for _, r := range a.roles {
		names = append(names, string(r))
	}
	return "role:" + strings.Join(names, "|")
}

// Info is the catalog entry of a registered procedure.
type Info struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Access      string `json:"access"`
}

// Endpoint is a registrable procedure. It is implemented by Procedure.
type Endpoint interface {
	Info() Info
	invoke(ctx context.Context, v *validator.Validate, c Caller, body io.Reader) (any, error)
}

// Procedure binds a typed input to a typed output.
type Procedure[In, Out any] struct {
	Name        string
	Description string
	Access      Access
	Handle      func(ctx context.Context, c Caller, in In) (Out, error)
}

// Info implements Endpoint.
func (p Procedure[In, Out]) Info() Info {
	return Info{Name: p.Name, Description: p.Description, Access: p.Access.String()}
}

func (p Procedure[In, Out]) invoke(ctx context.Context, v *validator.Validate, c Caller, body io.Reader) (any, error) {
	if err := p.Access.Check(c.Session); err != nil {
		return nil, err
	}

	var in In
	if err := decodeInput(body, &in); err != nil {
		return nil, err
	}
	if err := Validate(v, &in); err != nil {
		return nil, err
	}

	out, err := p.Handle(ctx, c, in)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func decodeInput(body io.Reader, dst any) error {
	if body == nil {
		return nil
	}
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		var sizeErr *http.MaxBytesError
		switch {
		case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
			return fmt.Errorf("%w: malformed json", apperr.ErrInvalid)
		case errors.As(err, &typeErr):
			return fmt.Errorf("%w: field %q has the wrong type", apperr.ErrInvalid, typeErr.Field)
		case strings.HasPrefix(err.Error(), "json: unknown field"):
			return fmt.Errorf("%w: %s", apperr.ErrInvalid, strings.TrimPrefix(err.Error(), "json: "))
		case errors.As(err, &sizeErr):
			return fmt.Errorf("%w: request body too large", apperr.ErrInvalid)
		default:
			return fmt.Errorf("%w: invalid json", apperr.ErrInvalid)
		}
	}
	if err := dec.Decode(new(struct{})); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: invalid json: trailing data", apperr.ErrInvalid)
	}
	return nil
}
