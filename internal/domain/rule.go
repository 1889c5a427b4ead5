package domain

import (
	"fmt"
	"regexp"
)

// ExtractionRule overrides the default extraction strategy for a single
// registrable domain. Looked up once per run; immutable afterwards.
type ExtractionRule struct {
	Domain         string   `json:"domain"`
	DateSelectors  []string `json:"date_selectors,omitempty"`
	DateRegex      []string `json:"date_regex,omitempty"`
	TitleSelectors []string `json:"title_selectors,omitempty"`
	UseJSONLD      bool     `json:"use_json_ld"`
	UseScriptVar   bool     `json:"use_script_var"`
	ScriptVarName  string   `json:"script_var_name,omitempty"`

	compiled []*regexp.Regexp
}

// Compile validates the rule's regex patterns once at load time. An invalid
// pattern is dropped from the rule rather than failing the whole lookup; the
// returned error reports the first bad pattern so callers can log it.
func (r *ExtractionRule) Compile() error {
	var firstErr error
	r.compiled = r.compiled[:0]
	for _, pattern := range r.DateRegex {
		re, err := regexp.Compile(pattern)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("rule %s: regex %q: %w", r.Domain, pattern, err)
			}
			continue
		}
		r.compiled = append(r.compiled, re)
	}
	return firstErr
}

// CompiledRegex returns the validated date patterns.
func (r *ExtractionRule) CompiledRegex() []*regexp.Regexp {
	return r.compiled
}

// RuleSet maps registrable domain (no "www.") to its extraction rule.
type RuleSet map[string]*ExtractionRule

// Lookup returns the rule for a registrable domain, or nil.
func (rs RuleSet) Lookup(registrableDomain string) *ExtractionRule {
	if rs == nil {
		return nil
	}
	return rs[registrableDomain]
}
