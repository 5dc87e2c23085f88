package store

import "strings"

// predicate collects WHERE fragments together with their parameters, so a
// fragment can never be appended without its args (or vice versa). The same
// predicate feeds both the COUNT query and the paged SELECT.
type predicate struct {
	frags []string
	args  []any
}

func (p *predicate) and(frag string, args ...any) {
	p.frags = append(p.frags, frag)
	p.args = append(p.args, args...)
}

func (p *predicate) whereSQL() string {
	if len(p.frags) == 0 {
		return "1=1"
	}
	return strings.Join(p.frags, " AND ")
}
