package interaction

import (
	"sort"

	"github.com/turtacn/drugflat/pkg/types/common"
)

// Codebook maps distinct template strings to integer codes. Codes follow the
// byte-wise lexical order of the distinct templates, starting at 0, so the
// same set of templates always yields the same mapping.
type Codebook struct {
	templates []string
	codes     map[string]int64
}

// NewCodebook builds a codebook over templates. Duplicates are collapsed.
func NewCodebook(templates []string) *Codebook {
	codes := make(map[string]int64, len(templates))
	distinct := make([]string, 0, len(templates))
	for _, t := range templates {
		if _, ok := codes[t]; ok {
			continue
		}
		codes[t] = 0
		distinct = append(distinct, t)
	}
	sort.Strings(distinct)
	for i, t := range distinct {
		codes[t] = int64(i)
	}
	return &Codebook{templates: distinct, codes: codes}
}

// Code returns the code of template, or null when the template is unknown.
func (c *Codebook) Code(template string) common.NullInt {
	code, ok := c.codes[template]
	if !ok {
		return common.NullInt{}
	}
	return common.Int(code)
}

// Len returns the number of distinct templates.
func (c *Codebook) Len() int { return len(c.templates) }

// Templates returns the distinct templates in code order.
func (c *Codebook) Templates() []string {
	out := make([]string, len(c.templates))
	copy(out, c.templates)
	return out
}
