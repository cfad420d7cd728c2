package coreid

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dgallion1/corepassmd/internal/ican"
)

// NegationStyle selects how an invalid reference is presented.
type NegationStyle string

const (
	// NegateStrikethrough wraps the label in "~~", which Markdown renders as
	// struck-through text.
	NegateStrikethrough NegationStyle = "strikethrough"
	// NegateGlyph prefixes the label with "¬".
	NegateGlyph NegationStyle = "glyph"
)

// ErrUnknownNegation is returned by ParseNegationStyle.
var ErrUnknownNegation = errors.New("unknown negation style")

// ParseNegationStyle accepts the style names plus a few aliases. An empty
// string selects the default.
func ParseNegationStyle(s string) (NegationStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strikethrough", "strike", "~~":
		return NegateStrikethrough, nil
	case "glyph", "not", "¬":
		return NegateGlyph, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownNegation, s)
}

// Apply wraps label according to the style.
func (s NegationStyle) Apply(label string) string {
	if s == NegateGlyph {
		return "¬" + label
	}
	return "~~" + label + "~~"
}

// Validator reports whether a fixed-form identifier carries a correct
// checksum.
type Validator func(id string) bool

// Options control one transformation. The zero value disables both checks;
// use DefaultOptions for the usual behavior.
type Options struct {
	// EnableValidityCheck gates checksum validation of fixed-form ids.
	EnableValidityCheck bool
	// EnableSkipOverride lets a leading "!" bypass validation for that token.
	EnableSkipOverride bool
	// Negation picks the invalid marker presentation.
	Negation NegationStyle
	// Validator defaults to ican.IsValid when nil.
	Validator Validator
}

// DefaultOptions enables validation and the "!" override.
func DefaultOptions() Options {
	return Options{
		EnableValidityCheck: true,
		EnableSkipOverride:  true,
		Negation:            NegateStrikethrough,
		Validator:           ican.IsValid,
	}
}

// valid runs the validator. A panicking validator counts as a failed check.
func (o Options) valid(id string) (ok bool) {
	v := o.Validator
	if v == nil {
		v = ican.IsValid
	}
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return v(id)
}
