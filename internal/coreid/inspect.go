package coreid

import (
	"strings"

	"github.com/dgallion1/corepassmd/internal/ican"
)

// Inspection is the verdict on one identifier given on its own.
type Inspection struct {
	Input      string `json:"input"`
	Recognized bool   `json:"recognized"`
	Form       string `json:"form,omitempty"`
	Outcome    string `json:"outcome,omitempty"`
	Valid      bool   `json:"valid"`
	Network    string `json:"network,omitempty"`
	URL        string `json:"url,omitempty"`
	Label      string `json:"label,omitempty"`
	Title      string `json:"title,omitempty"`
	// Suggested is a fixed-form id with its check digits recomputed, set
	// when the written digits are wrong.
	Suggested string `json:"suggested,omitempty"`
}

// Inspect parses raw with ParseID and describes it the way a token holding
// it would be rendered under opts.
func Inspect(raw string, opts Options) Inspection {
	res := Inspection{Input: raw}
	m, ok := ParseID(raw)
	if !ok {
		return res
	}
	ref := Describe(m, opts)
	res.Recognized = true
	res.Form = m.Form.String()
	res.Outcome = ref.Outcome.String()
	res.Valid = ref.Outcome != OutcomeInvalid
	res.URL = ref.URL
	res.Label = ref.Label
	res.Title = ref.Title

	if m.Form == FormFixed {
		if n, ok := ican.Lookup(m.ID); ok {
			res.Network = n.Name
		}
		if !opts.valid(m.ID) {
			upper := strings.ToUpper(m.ID)
			if fixed, err := ican.Correct(upper); err == nil && fixed != upper {
				res.Suggested = fixed
			}
		}
	}
	return res
}
