// Package pathmatch matches file paths against find -path glob patterns.
//
// Semantics follow fnmatch(3) without FNM_PATHNAME:
//   - * matches any run of characters, including /
//   - ? matches exactly one character, including /
//   - [...] matches one character from the set, including /
//   - \ escapes the following character
//
// filepath.Match differs: its * stops at directory separators.
package pathmatch

import (
	"fmt"
	"regexp"
	"strings"
)

// Matcher holds a set of compiled patterns. Compile once, match many
// paths: directory walks call MatchAny per file.
type Matcher struct {
	res []*regexp.Regexp
}

// NewMatcher compiles patterns into a reusable matcher.
func NewMatcher(patterns []string) (*Matcher, error) {
	matcher := &Matcher{res: make([]*regexp.Regexp, 0, len(patterns))}

	for _, pattern := range patterns {
		re, err := compile(pattern)
		if err != nil {
			return nil, err
		}

		matcher.res = append(matcher.res, re)
	}

	return matcher, nil
}

// MatchAny reports whether path matches at least one pattern.
func (m *Matcher) MatchAny(path string) bool {
	for _, re := range m.res {
		if re.MatchString(path) {
			return true
		}
	}

	return false
}

// Match reports whether path matches pattern. It compiles the pattern on
// every call; use a Matcher when matching many paths.
func Match(pattern, path string) (bool, error) {
	re, err := compile(pattern)
	if err != nil {
		return false, err
	}

	return re.MatchString(path), nil
}

// Suffix builds a pattern matching every path that ends in suffix, with
// any glob metacharacters in the suffix escaped. It backs the default
// selection of sealed files when a directory argument is expanded.
func Suffix(suffix string) string {
	var out strings.Builder

	out.WriteByte('*')

	for i := range len(suffix) {
		switch c := suffix[i]; c {
		case '*', '?', '[', '\\':
			out.WriteByte('\\')
			out.WriteByte(c)
		default:
			out.WriteByte(c)
		}
	}

	return out.String()
}

// compile translates a glob pattern into an anchored regular expression.
func compile(pattern string) (*regexp.Regexp, error) {
	var out strings.Builder

	out.WriteByte('^')

	for i := 0; i < len(pattern); {
		switch pattern[i] {
		case '*':
			out.WriteString(".*")

			i++
		case '?':
			out.WriteByte('.')

			i++
		case '[':
			class, next, err := characterClass(pattern, i)
			if err != nil {
				return nil, err
			}

			out.WriteString(class)

			i = next
		case '\\':
			if i == len(pattern)-1 {
				return nil, fmt.Errorf("pattern %q ends in a bare backslash", pattern)
			}

			out.WriteString(regexp.QuoteMeta(pattern[i+1 : i+2]))

			i += 2
		default:
			out.WriteString(regexp.QuoteMeta(pattern[i : i+1]))

			i++
		}
	}

	out.WriteByte('$')

	re, err := regexp.Compile(out.String())
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", pattern, err)
	}

	return re, nil
}

// characterClass consumes the [...] class opening at open and returns its
// regexp form plus the index just past the closing bracket. A leading !
// negates the class; a ] in the first position is a literal member.
func characterClass(pattern string, open int) (string, int, error) {
	i := open + 1

	negated := i < len(pattern) && pattern[i] == '!'
	if negated {
		i++
	}

	if i < len(pattern) && pattern[i] == ']' {
		i++
	}

	for ; i < len(pattern); i++ {
		if pattern[i] != ']' {
			continue
		}

		body := pattern[open+1 : i]
		if negated {
			body = "^" + body[1:]
		}

		return "[" + body + "]", i + 1, nil
	}

	return "", 0, fmt.Errorf("pattern %q: unclosed character class", pattern)
}
