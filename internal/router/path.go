package router

import (
	"fmt"
	"regexp"
	"strings"
)

// paramNamePattern restricts parameter names to valid regexp group names.
var paramNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// RoutePath is a parsed path template with optional ":name" parameter
// segments, e.g. "/users/:id". Two RoutePath values are ordered by
// their pattern string; the compiled route table iterates patterns in
// that order, so precedence among overlapping templates is fully
// determined by the pattern text, not registration order.
//
// A RoutePath is immutable after construction and safe for concurrent
// use.
type RoutePath struct {
	raw   string
	regex *regexp.Regexp
}

// PatternError reports an invalid path template.
type PatternError struct {
	Pattern string
	Message string
}

// Error implements the error interface.
func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid route pattern %q: %s", e.Pattern, e.Message)
}

// Is checks if the error matches the target.
func (e *PatternError) Is(target error) bool {
	_, ok := target.(*PatternError)
	return ok
}

// NewRoutePath parses a path template. Templates must start with "/";
// segments of the form ":name" capture a single path segment under
// that name. Parameter names must be unique within a template.
func NewRoutePath(pattern string) (*RoutePath, error) {
	if pattern == "" {
		return nil, &PatternError{Pattern: pattern, Message: "pattern is empty"}
	}
	if !strings.HasPrefix(pattern, "/") {
		return nil, &PatternError{Pattern: pattern, Message: "pattern must start with /"}
	}

	var expr strings.Builder
	expr.WriteString("^")

	seen := make(map[string]bool)
	for _, part := range strings.Split(strings.TrimPrefix(pattern, "/"), "/") {
		expr.WriteString("/")
		if !strings.HasPrefix(part, ":") {
			expr.WriteString(regexp.QuoteMeta(part))
			continue
		}

		name := part[1:]
		if !paramNamePattern.MatchString(name) {
			return nil, &PatternError{
				Pattern: pattern,
				Message: fmt.Sprintf("invalid parameter name %q", name),
			}
		}
		if seen[name] {
			return nil, &PatternError{
				Pattern: pattern,
				Message: fmt.Sprintf("duplicate parameter name %q", name),
			}
		}
		seen[name] = true

		expr.WriteString("(?P<")
		expr.WriteString(name)
		expr.WriteString(">[^/]+)")
	}
	expr.WriteString("$")

	regex, err := regexp.Compile(expr.String())
	if err != nil {
		return nil, &PatternError{Pattern: pattern, Message: err.Error()}
	}

	return &RoutePath{raw: pattern, regex: regex}, nil
}

// MustRoutePath is like NewRoutePath but panics on an invalid
// template. Intended for static route declarations.
func MustRoutePath(pattern string) *RoutePath {
	p, err := NewRoutePath(pattern)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the raw pattern text. It is stable and unique per
// distinct template, and doubles as the ordering key and the
// instrument name component for the route.
func (p *RoutePath) String() string {
	return p.raw
}

// Compare orders route paths lexicographically by pattern text.
func (p *RoutePath) Compare(other *RoutePath) int {
	return strings.Compare(p.raw, other.raw)
}

// Groups matches a concrete request path against the template. On a
// match it returns the captured parameter values keyed by name (empty
// map for templates without parameters) and true; otherwise nil and
// false.
func (p *RoutePath) Groups(path string) (map[string]string, bool) {
	matches := p.regex.FindStringSubmatch(path)
	if matches == nil {
		return nil, false
	}

	groups := make(map[string]string)
	for i, name := range p.regex.SubexpNames() {
		if i > 0 && name != "" && i < len(matches) {
			groups[name] = matches[i]
		}
	}
	return groups, true
}
