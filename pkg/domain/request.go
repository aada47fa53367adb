package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Bounds applied by Normalize. Out-of-range values are clamped, never rejected.
const (
	MinNameLength     = 3
	DefaultMaxLength  = 10
	MaxNameLength     = 20
	DefaultCount      = 10
	MaxCount          = 50
	DefaultPrimaryTLD = "com"
)

// ErrInvalidRequest is returned when a request carries an unknown enum value
var ErrInvalidRequest = errors.New("invalid request")

// Request is one brand search: a free-text concept plus stylistic knobs
type Request struct {
	Keywords   string         `json:"keywords"`
	Industry   Industry       `json:"industry" validate:"omitempty,oneof=general technology finance health sustainability food education travel fashion creative ecommerce"`
	Vibe       Vibe           `json:"vibe" validate:"omitempty,oneof=luxury futuristic playful trustworthy minimal"`
	MaxLength  int            `json:"max_length"`
	Count      int            `json:"count"`
	PrimaryTLD string         `json:"primary_tld"`
	Controls   SearchControls `json:"controls"`
}

// validate caches struct metadata and is safe for concurrent use.
var validate = validator.New()

// Validate checks the enum fields of the request.
func (r *Request) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

// Normalize returns a copy of the request with defaults filled in and numeric
// fields clamped to their supported ranges.
func (r Request) Normalize() Request {
	out := r
	out.Keywords = strings.TrimSpace(r.Keywords)
	out.Industry = Industry(strings.ToLower(strings.TrimSpace(string(r.Industry))))
	out.Vibe = Vibe(strings.ToLower(strings.TrimSpace(string(r.Vibe))))
	if out.Industry == "" {
		out.Industry = IndustryGeneral
	}

	switch {
	case out.MaxLength == 0:
		out.MaxLength = DefaultMaxLength
	case out.MaxLength < MinNameLength+1:
		out.MaxLength = MinNameLength + 1
	case out.MaxLength > MaxNameLength:
		out.MaxLength = MaxNameLength
	}

	switch {
	case out.Count <= 0:
		out.Count = DefaultCount
	case out.Count > MaxCount:
		out.Count = MaxCount
	}

	out.PrimaryTLD = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(r.PrimaryTLD)), ".")
	if out.PrimaryTLD == "" {
		out.PrimaryTLD = DefaultPrimaryTLD
	}

	c := &out.Controls
	if c.KeywordMode == "" {
		c.KeywordMode = KeywordExact
	}
	if c.KeywordPosition == "" {
		c.KeywordPosition = PositionAnywhere
	}
	if c.Style == "" {
		c.Style = StyleBrandableBlends
	}
	if c.Seed == "" {
		// Same concept, same pool.
		c.Seed = strings.ToLower(out.Keywords) + "|" + string(out.Industry) + "|" + string(out.Vibe)
	}
	c.BlockList = lowerAll(c.BlockList)
	c.AllowList = lowerAll(c.AllowList)

	return out
}

func lowerAll(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
