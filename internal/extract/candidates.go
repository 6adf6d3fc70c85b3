package extract

import (
	"regexp"
	"sort"
)

// rule pairs a compiled pattern with its domain priority. Higher priority
// rules represent stronger contextual evidence (e.g. a CUIT next to
// "Ingresos Brutos" outranks a bare 11-digit number).
type rule struct {
	re       *regexp.Regexp
	priority int
}

// candidate is one pattern match for a field. Candidates only live until the
// field is resolved.
type candidate struct {
	value    string
	priority int
	source   string // matched span, kept for logging
	order    int
}

// collect runs every rule over the text and returns the raw candidate list.
// transform normalizes a match into the candidate value; returning "" drops
// the match.
func collect(text string, rules []rule, transform func(m []string) string) []candidate {
	var out []candidate
	for _, r := range rules {
		for _, m := range r.re.FindAllStringSubmatch(text, -1) {
			v := transform(m)
			if v == "" {
				continue
			}
			out = append(out, candidate{value: v, priority: r.priority, source: m[0], order: len(out)})
		}
	}
	return out
}

// best deduplicates by value (first occurrence wins) and returns the
// highest-priority candidate, or "" when none survive. Ties keep extraction
// order.
func best(cands []candidate) string {
	if len(cands) == 0 {
		return ""
	}
	seen := make(map[string]struct{}, len(cands))
	uniq := cands[:0:0]
	for _, c := range cands {
		if _, dup := seen[c.value]; dup {
			continue
		}
		seen[c.value] = struct{}{}
		uniq = append(uniq, c)
	}
	sort.SliceStable(uniq, func(i, j int) bool { return uniq[i].priority > uniq[j].priority })
	return uniq[0].value
}
