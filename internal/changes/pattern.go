package changes

import (
	"fmt"
	"regexp"
	"strings"
)

// Matcher matches destinations against a set of restricted glob patterns.
// "*" matches within one path segment, "**" matches across segments, and
// everything else is literal.
type Matcher struct {
	patterns []*regexp.Regexp
}

// CompilePatterns compiles the given patterns into a Matcher.
func CompilePatterns(patterns []string) (*Matcher, error) {
	m := &Matcher{}
	for _, pattern := range patterns {
		re, err := compilePattern(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		m.patterns = append(m.patterns, re)
	}
	return m, nil
}

func compilePattern(pattern string) (*regexp.Regexp, error) {
	var sb strings.Builder
	sb.WriteString("^")
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != '*' {
			sb.WriteString(regexp.QuoteMeta(string(pattern[i])))
			continue
		}
		if i+1 < len(pattern) && pattern[i+1] == '*' {
			sb.WriteString(".*")
			i++
			continue
		}
		sb.WriteString("[^/]*")
	}
	sb.WriteString("$")
	return regexp.Compile(sb.String())
}

// Matches reports whether any pattern matches the given destination.
func (m *Matcher) Matches(destination string) bool {
	for _, re := range m.patterns {
		if re.MatchString(destination) {
			return true
		}
	}
	return false
}

// Filter returns the entries whose destination matches any pattern.
func (m *Matcher) Filter(entries []Entry) []Entry {
	var matched []Entry
	for _, entry := range entries {
		if m.Matches(entry.Destination) {
			matched = append(matched, entry)
		}
	}
	return matched
}
