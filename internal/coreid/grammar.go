// Package coreid recognizes inline CorePass identity references of the form
// [cb7147879011ea207df5b35a24ca6f0859dcfb145999@coreid] or [name.domain@coreid]
// and decides how each one is rendered.
package coreid

import (
	"regexp"
	"strings"
)

const (
	// Suffix is the keyword closing every token.
	Suffix = "coreid"
	// Scheme prefixes every produced link URL.
	Scheme = "corepass:"
	// Sigil opens a token whose validation should be skipped.
	Sigil = "!"
)

// Form tells which identifier shape a Match carries.
type Form int

const (
	FormFixed  Form = iota + 1 // Checksummed network id.
	FormDomain                 // Dotted human readable name.
)

func (f Form) String() string {
	switch f {
	case FormFixed:
		return "fixed"
	case FormDomain:
		return "domain"
	default:
		return "unknown"
	}
}

// Match is one token found in a text value. Start and End are byte offsets
// of the whole token, brackets included.
type Match struct {
	Start, End int
	Full       string // Token text as written.
	Negated    bool   // Leading "!" sigil present.
	Form       Form
	ID         string // Identifier as written, without sigil or suffix.

	// Fixed form only.
	Network string
	Version string

	// Domain form only.
	TLD string
}

var (
	// tokenRe finds the bracket envelope; the body is handed to the two
	// recognizers below. Bodies can never contain '[', so a rejected
	// envelope never hides a token starting inside it.
	tokenRe = regexp.MustCompile(`(?i)\[(!?)([^\[\]\s@]+)@` + Suffix + `\]`)

	fixedRe = regexp.MustCompile(`(?i)^(cb|ab|ce)([0-9]{2})[0-9a-f]{40}$`)

	// Labels allow emoji code points and their joiners. The final label is
	// alphanumeric only.
	domainRe = regexp.MustCompile(`(?i)^(?:[a-z0-9_\-` + emojiClass + `]+\.)+([a-z0-9]+)$`)
)

// MatchFixed recognizes a fixed-form identifier body such as
// cb7147879011ea207df5b35a24ca6f0859dcfb145999.
func MatchFixed(body string) (Match, bool) {
	sm := fixedRe.FindStringSubmatch(body)
	if sm == nil {
		return Match{}, false
	}
	return Match{
		Form:    FormFixed,
		ID:      body,
		Network: strings.ToLower(sm[1]),
		Version: sm[2],
	}, true
}

// MatchDomain recognizes a domain-form identifier body such as sub.domain.cc.
func MatchDomain(body string) (Match, bool) {
	sm := domainRe.FindStringSubmatch(body)
	if sm == nil {
		return Match{}, false
	}
	return Match{
		Form: FormDomain,
		ID:   body,
		TLD:  sm[1],
	}, true
}

// recognize tries the fixed form first, then the domain form.
func recognize(body string) (Match, bool) {
	if m, ok := MatchFixed(body); ok {
		return m, true
	}
	return MatchDomain(body)
}

// Scan returns every token in text, left to right and non-overlapping.
func Scan(text string) []Match {
	locs := tokenRe.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}
	out := make([]Match, 0, len(locs))
	for _, loc := range locs {
		m, ok := recognize(text[loc[4]:loc[5]])
		if !ok {
			continue
		}
		m.Start, m.End = loc[0], loc[1]
		m.Full = text[loc[0]:loc[1]]
		m.Negated = loc[3] > loc[2]
		out = append(out, m)
	}
	return out
}

// ParseID recognizes a single identifier given on its own, as typed on a
// command line. The surrounding brackets, the "!" sigil and the "@coreid"
// suffix are all optional.
func ParseID(s string) (Match, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	negated := strings.HasPrefix(s, Sigil)
	s = strings.TrimPrefix(s, Sigil)
	if i := strings.LastIndex(s, "@"); i >= 0 && strings.EqualFold(s[i+1:], Suffix) {
		s = s[:i]
	}
	m, ok := recognize(s)
	if !ok {
		return Match{}, false
	}
	m.Negated = negated
	m.Full = s
	m.End = len(s)
	return m, true
}
