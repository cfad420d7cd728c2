package coreid

import (
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/corepassmd/internal/mdtree"
)

// Outcome is the rendering decision for one Match.
type Outcome int

const (
	OutcomeBare    Outcome = iota + 1 // Domain form, linked without validation.
	OutcomeValid                      // Fixed form, linked.
	OutcomeInvalid                    // Fixed form failing its checksum.
)

func (o Outcome) String() string {
	switch o {
	case OutcomeBare:
		return "bare"
	case OutcomeValid:
		return "valid"
	case OutcomeInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Classify decides the outcome of m under opts.
func Classify(m Match, opts Options) Outcome {
	if m.Form == FormDomain {
		return OutcomeBare
	}
	skip := opts.EnableSkipOverride && m.Negated
	if opts.EnableValidityCheck && !skip && !opts.valid(m.ID) {
		return OutcomeInvalid
	}
	return OutcomeValid
}

// Reference is the presentation of one classified Match.
type Reference struct {
	Outcome Outcome
	URL     string // Empty for invalid references.
	Label   string // Visible text, suffix included.
	Title   string
}

// Describe classifies m and computes its URL, label and title.
func Describe(m Match, opts Options) Reference {
	out := Classify(m, opts)
	switch out {
	case OutcomeBare:
		return Reference{
			Outcome: out,
			URL:     Scheme + strings.ToLower(m.ID),
			Label:   m.ID + "@" + Suffix,
			Title:   m.ID,
		}
	case OutcomeInvalid:
		short := Shorten(strings.ToUpper(m.ID))
		return Reference{
			Outcome: out,
			Label:   opts.Negation.Apply(short + "@" + Suffix),
			Title:   short,
		}
	default:
		full := strings.ToUpper(m.ID)
		return Reference{
			Outcome: out,
			URL:     Scheme + strings.ToLower(m.ID),
			Label:   Shorten(full) + "@" + Suffix,
			Title:   full,
		}
	}
}

// Render builds the replacement node for m: a link for bare and valid
// references, a plain text marker for invalid ones.
func Render(m Match, opts Options) *mdtree.Node {
	return Describe(m, opts).Node()
}

// Node builds the tree node presenting r.
func (r Reference) Node() *mdtree.Node {
	if r.Outcome == OutcomeInvalid {
		return mdtree.NewText(r.Label)
	}
	return mdtree.NewLink(r.URL, r.Label, r.Title)
}

// Ellipsis joins the two halves of a shortened id.
const Ellipsis = "…"

// Shorten keeps the first and last four characters of s. Strings shorter
// than eight characters are returned unchanged.
func Shorten(s string) string {
	if utf8.RuneCountInString(s) < 8 {
		return s
	}
	r := []rune(s)
	return string(r[:4]) + Ellipsis + string(r[len(r)-4:])
}
