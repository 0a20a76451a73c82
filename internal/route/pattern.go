package route

// matcher matches a single path segment
type matcher struct {
	literal  string   // segment must equal this when set
	oneOf    []string // segment must be one of these when set
	exclude  []string // segment must not be one of these
	capture  string   // name the segment is captured under
	optional bool     // may be missing (trailing matchers only)
}

func lit(s string) matcher {
	return matcher{literal: s}
}

func capture(name string) matcher {
	return matcher{capture: name}
}

func (m matcher) opt() matcher {
	m.optional = true
	return m
}

func (m matcher) except(values ...string) matcher {
	m.exclude = append(append([]string(nil), m.exclude...), values...)
	return m
}

func (m matcher) in(values ...string) matcher {
	m.oneOf = append(append([]string(nil), m.oneOf...), values...)
	return m
}

func (m matcher) accepts(seg string) bool {
	if m.literal != "" && seg != m.literal {
		return false
	}
	if len(m.oneOf) > 0 && !contains(m.oneOf, seg) {
		return false
	}
	if contains(m.exclude, seg) {
		return false
	}
	return true
}

// captures holds named segment values of a successful match
type captures map[string]string

// pattern is an ordered list of segment matchers.
// Segments beyond the pattern are ignored unless exact is set.
type pattern struct {
	segments []matcher
	exact    bool
}

func (p pattern) match(segs []string) (captures, bool) {
	if p.exact && len(segs) > len(p.segments) {
		return nil, false
	}

	c := captures{}
	for i, m := range p.segments {
		if i >= len(segs) {
			if m.optional {
				continue
			}
			return nil, false
		}
		if !m.accepts(segs[i]) {
			return nil, false
		}
		if m.capture != "" {
			c[m.capture] = segs[i]
		}
	}
	return c, true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
