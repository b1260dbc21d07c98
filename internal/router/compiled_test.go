package router

import (
	"errors"
	"net/http"
	"reflect"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/avrouter/internal/metrics"
)

// textHandler returns a handler producing a fixed 200 body, useful
// for asserting which route won a lookup.
func textHandler(body string) Handler {
	return HandlerFunc(func(*Request) (*Response, error) {
		return NewTextResponse(http.StatusOK, body), nil
	})
}

// mustBuild compiles a route map against a fresh registry.
func mustBuild(t *testing.T, raw RouteMap) (*CompiledRoutes, *metrics.Registry) {
	t.Helper()

	registry := metrics.NewRegistry()
	table, err := NewCompiledRoutes(raw, registry)
	require.NoError(t, err)
	return table, registry
}

// counterValue reads the request counter registered under the dotted
// instrument name, or 0 if it was never created.
func counterValue(t *testing.T, registry *metrics.Registry, name string) float64 {
	t.Helper()

	m := findMetric(t, registry, "avrouter_route_requests_total", name)
	if m == nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

// timerSamples reads the latency histogram's sample count for the
// dotted instrument name, or 0 if it was never created.
func timerSamples(t *testing.T, registry *metrics.Registry, name string) uint64 {
	t.Helper()

	m := findMetric(t, registry, "avrouter_route_latency_seconds", name)
	if m == nil {
		return 0
	}
	return m.GetHistogram().GetSampleCount()
}

func findMetric(t *testing.T, registry *metrics.Registry, family, name string) *dto.Metric {
	t.Helper()

	families, err := registry.Gatherer().Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != family {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, label := range m.GetLabel() {
				if label.GetName() == "name" && label.GetValue() == name {
					return m
				}
			}
		}
	}
	return nil
}

// sameHandler reports whether two matches share the same underlying
// handler function, used to assert sentinel identity.
func sameHandler(a, b Match) bool {
	return reflect.ValueOf(a.Handler).Pointer() == reflect.ValueOf(b.Handler).Pointer()
}

func TestNewCompiledRoutes_SortedByPattern(t *testing.T) {
	t.Parallel()

	table, _ := mustBuild(t, RouteMap{
		MustRoutePath("/zebra"):     {GET: textHandler("z")},
		MustRoutePath("/alpha"):     {GET: textHandler("a")},
		MustRoutePath("/users/:id"): {GET: textHandler("u")},
	})

	assert.Equal(t, []string{"/alpha", "/users/:id", "/zebra"}, table.Patterns())
	assert.Equal(t, 3, table.Len())
}

func TestNewCompiledRoutes_DuplicatePattern(t *testing.T) {
	t.Parallel()

	_, err := NewCompiledRoutes(RouteMap{
		MustRoutePath("/users/:id"): {GET: textHandler("a")},
		MustRoutePath("/users/:id"): {POST: textHandler("b")},
	}, metrics.NewRegistry())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate route pattern")
}

func TestCompiledRoutes_Match_NotFound(t *testing.T) {
	t.Parallel()

	table, registry := mustBuild(t, RouteMap{
		MustRoutePath("/users/:id"): {GET: textHandler("user")},
	})

	for _, verb := range Verbs() {
		m := table.Match("/missing", verb)
		assert.True(t, sameHandler(m, NotFound))
		assert.Empty(t, m.Groups)
	}

	resp, err := NotFound.Handler.Handle(&Request{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.Status)
	assert.Equal(t, []byte("Not found"), resp.Body)
	assert.Equal(t, ContentTypeText, resp.ContentType)

	// Fallback lookups touch no per-route instrument.
	assert.Zero(t, counterValue(t, registry, "routes.GET./users/:id"))
}

func TestCompiledRoutes_Match_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	table, registry := mustBuild(t, RouteMap{
		MustRoutePath("/users/:id"): {GET: textHandler("user")},
	})

	m := table.Match("/users/42", POST)
	assert.True(t, sameHandler(m, MethodNotAllowed))
	assert.Empty(t, m.Groups)

	resp, err := MethodNotAllowed.Handler.Handle(&Request{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.Status)
	assert.Equal(t, []byte("Method not allowed"), resp.Body)
	assert.Equal(t, ContentTypeText, resp.ContentType)

	assert.Zero(t, counterValue(t, registry, "routes.GET./users/:id"))
	assert.Zero(t, timerSamples(t, registry, "routeLatency.GET./users/:id"))
}

func TestCompiledRoutes_Match_CapturesGroups(t *testing.T) {
	t.Parallel()

	pattern := MustRoutePath("/orgs/:org/repos/:repo")
	table, _ := mustBuild(t, RouteMap{
		pattern: {GET: textHandler("repo")},
	})

	m := table.Match("/orgs/acme/repos/widget", GET)

	want, ok := pattern.Groups("/orgs/acme/repos/widget")
	require.True(t, ok)
	assert.Equal(t, want, m.Groups)

	resp, err := m.Handler.Handle(&Request{Params: m.Groups})
	require.NoError(t, err)
	assert.Equal(t, []byte("repo"), resp.Body)
}

func TestCompiledRoutes_Match_ContinuesPastMethodMiss(t *testing.T) {
	t.Parallel()

	// "/users/:id" sorts before "/users/special" and matches the
	// same concrete path, but only the later pattern carries POST.
	table, _ := mustBuild(t, RouteMap{
		MustRoutePath("/users/:id"):     {GET: textHandler("by-id")},
		MustRoutePath("/users/special"): {POST: textHandler("special")},
	})

	m := table.Match("/users/special", POST)
	require.False(t, sameHandler(m, MethodNotAllowed))
	require.False(t, sameHandler(m, NotFound))

	resp, err := m.Handler.Handle(&Request{})
	require.NoError(t, err)
	assert.Equal(t, []byte("special"), resp.Body)
	assert.Empty(t, m.Groups)

	// An earlier matching pattern that has the verb wins outright.
	m = table.Match("/users/special", GET)
	resp, err = m.Handler.Handle(&Request{})
	require.NoError(t, err)
	assert.Equal(t, []byte("by-id"), resp.Body)
	assert.Equal(t, map[string]string{"id": "special"}, m.Groups)

	// Both patterns match the path, neither supplies DELETE.
	m = table.Match("/users/special", DELETE)
	assert.True(t, sameHandler(m, MethodNotAllowed))

	m = table.Match("/missing", GET)
	assert.True(t, sameHandler(m, NotFound))
}

func TestCompiledRoutes_Match_OrderIndependentOfRegistration(t *testing.T) {
	t.Parallel()

	build := func(raw RouteMap) *CompiledRoutes {
		table, err := NewCompiledRoutes(raw, metrics.NewRegistry())
		require.NoError(t, err)
		return table
	}

	a := build(RouteMap{
		MustRoutePath("/users/:id"):     {GET: textHandler("by-id")},
		MustRoutePath("/users/special"): {GET: textHandler("special")},
	})
	b := build(RouteMap{
		MustRoutePath("/users/special"): {GET: textHandler("special")},
		MustRoutePath("/users/:id"):     {GET: textHandler("by-id")},
	})

	assert.Equal(t, a.Patterns(), b.Patterns())

	// The lexicographically earlier ":id" pattern wins in both.
	for _, table := range []*CompiledRoutes{a, b} {
		m := table.Match("/users/special", GET)
		resp, err := m.Handler.Handle(&Request{})
		require.NoError(t, err)
		assert.Equal(t, []byte("by-id"), resp.Body)
	}
}

func TestCompiledRoutes_Instrumentation(t *testing.T) {
	t.Parallel()

	table, registry := mustBuild(t, RouteMap{
		MustRoutePath("/users/:id"): {
			GET:  textHandler("get"),
			POST: textHandler("post"),
		},
	})

	m := table.Match("/users/42", GET)
	_, err := m.Handler.Handle(&Request{})
	require.NoError(t, err)
	_, err = m.Handler.Handle(&Request{})
	require.NoError(t, err)

	assert.Equal(t, float64(2), counterValue(t, registry, "routes.GET./users/:id"))
	assert.Equal(t, uint64(2), timerSamples(t, registry, "routeLatency.GET./users/:id"))

	// The sibling verb's instruments are untouched.
	assert.Zero(t, counterValue(t, registry, "routes.POST./users/:id"))
	assert.Zero(t, timerSamples(t, registry, "routeLatency.POST./users/:id"))
}

func TestCompiledRoutes_SharedRegistryRebuild(t *testing.T) {
	t.Parallel()

	registry := metrics.NewRegistry()
	raw := RouteMap{
		MustRoutePath("/users/:id"): {GET: textHandler("user")},
	}

	first, err := NewCompiledRoutes(raw, registry)
	require.NoError(t, err)
	second, err := NewCompiledRoutes(raw, registry)
	require.NoError(t, err)

	// Instruments are shared by name across builds: both tables
	// feed the same counter.
	_, err = first.Match("/users/1", GET).Handler.Handle(&Request{})
	require.NoError(t, err)
	_, err = second.Match("/users/2", GET).Handler.Handle(&Request{})
	require.NoError(t, err)

	assert.Equal(t, float64(2), counterValue(t, registry, "routes.GET./users/:id"))
}

func TestCompiledRoutes_ErrorDelegation(t *testing.T) {
	t.Parallel()

	handlerErr := errors.New("boom")
	table, registry := mustBuild(t, RouteMap{
		MustRoutePath("/fail"): {GET: HandlerFunc(func(*Request) (*Response, error) {
			return nil, handlerErr
		})},
	})

	var gotErr error
	req := &Request{
		ErrorHandler: func(_ *Request, err error) *Response {
			gotErr = err
			return NewTextResponse(http.StatusBadGateway, "converted")
		},
	}

	m := table.Match("/fail", GET)
	resp, err := m.Handler.Handle(req)

	require.NoError(t, err, "compiled handlers never propagate failures")
	assert.Equal(t, http.StatusBadGateway, resp.Status)
	assert.Equal(t, []byte("converted"), resp.Body)
	assert.Equal(t, handlerErr, gotErr)

	// The failed invocation still counts and still records latency.
	assert.Equal(t, float64(1), counterValue(t, registry, "routes.GET./fail"))
	assert.Equal(t, uint64(1), timerSamples(t, registry, "routeLatency.GET./fail"))
}

func TestCompiledRoutes_PanicConvertedToError(t *testing.T) {
	t.Parallel()

	table, _ := mustBuild(t, RouteMap{
		MustRoutePath("/panic"): {GET: HandlerFunc(func(*Request) (*Response, error) {
			panic("unexpected state")
		})},
	})

	var gotErr error
	req := &Request{
		ErrorHandler: func(_ *Request, err error) *Response {
			gotErr = err
			return NewTextResponse(http.StatusInternalServerError, "recovered")
		},
	}

	resp, err := table.Match("/panic", GET).Handler.Handle(req)

	require.NoError(t, err)
	assert.Equal(t, []byte("recovered"), resp.Body)
	require.Error(t, gotErr)
	assert.Contains(t, gotErr.Error(), "unexpected state")
}

func TestCompiledRoutes_NilErrorHandler(t *testing.T) {
	t.Parallel()

	table, _ := mustBuild(t, RouteMap{
		MustRoutePath("/fail"): {GET: HandlerFunc(func(*Request) (*Response, error) {
			return nil, errors.New("boom")
		})},
	})

	resp, err := table.Match("/fail", GET).Handler.Handle(&Request{})

	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.Status)
}

func TestCompiledRoutes_MatchString(t *testing.T) {
	t.Parallel()

	table, _ := mustBuild(t, RouteMap{
		MustRoutePath("/users/:id"): {GET: textHandler("user")},
	})

	m, err := table.MatchString("/users/42", "GET")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"id": "42"}, m.Groups)

	_, err = table.MatchString("/users/42", "BREW")
	require.Error(t, err)

	var verr *InvalidVerbError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "BREW", verr.Token)
}

func TestCompiledRoutes_EmptyTable(t *testing.T) {
	t.Parallel()

	table, _ := mustBuild(t, RouteMap{})

	m := table.Match("/anything", GET)
	assert.True(t, sameHandler(m, NotFound))
	assert.Zero(t, table.Len())
}
