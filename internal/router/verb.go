package router

import "fmt"

// Verb is one member of the closed set of HTTP methods. The zero
// value is GET.
type Verb int

// The supported HTTP methods.
const (
	GET Verb = iota
	HEAD
	POST
	PUT
	PATCH
	DELETE
	CONNECT
	OPTIONS
	TRACE
)

// verbNames maps verbs to their wire form, indexed by Verb value.
var verbNames = [...]string{
	GET:     "GET",
	HEAD:    "HEAD",
	POST:    "POST",
	PUT:     "PUT",
	PATCH:   "PATCH",
	DELETE:  "DELETE",
	CONNECT: "CONNECT",
	OPTIONS: "OPTIONS",
	TRACE:   "TRACE",
}

// verbsByName is the reverse index used by ParseVerb.
var verbsByName = func() map[string]Verb {
	m := make(map[string]Verb, len(verbNames))
	for v, name := range verbNames {
		m[name] = Verb(v)
	}
	return m
}()

// Verbs lists every supported verb in declaration order.
func Verbs() []Verb {
	verbs := make([]Verb, len(verbNames))
	for i := range verbNames {
		verbs[i] = Verb(i)
	}
	return verbs
}

// String returns the verb's wire form, e.g. "GET".
func (v Verb) String() string {
	if int(v) < 0 || int(v) >= len(verbNames) {
		return fmt.Sprintf("Verb(%d)", int(v))
	}
	return verbNames[v]
}

// InvalidVerbError reports a method token that is not part of the
// verb enumeration. It is a caller error, distinct from a routing
// miss: an unknown verb is never reported as a not-found route.
type InvalidVerbError struct {
	Token string
}

// Error implements the error interface.
func (e *InvalidVerbError) Error() string {
	return fmt.Sprintf("invalid HTTP verb %q", e.Token)
}

// Is checks if the error matches the target.
func (e *InvalidVerbError) Is(target error) bool {
	_, ok := target.(*InvalidVerbError)
	return ok
}

// ParseVerb resolves a free-form method token against the verb
// enumeration. Tokens are matched exactly (HTTP methods are
// case-sensitive on the wire); unrecognized tokens yield an
// *InvalidVerbError.
func ParseVerb(token string) (Verb, error) {
	if v, ok := verbsByName[token]; ok {
		return v, nil
	}
	return 0, &InvalidVerbError{Token: token}
}
