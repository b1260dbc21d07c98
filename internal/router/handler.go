package router

import (
	"context"
	"encoding/json"
	"net/http"
)

// ContentTypeText is the content type of plain-text responses,
// including the not-found and method-not-allowed fallbacks.
const ContentTypeText = "text/plain; charset=utf-8"

// ContentTypeJSON is the content type of JSON responses.
const ContentTypeJSON = "application/json; charset=utf-8"

// Handler processes a routed request and produces a response. A
// handler may fail with an error; handlers compiled into a route
// table have that error intercepted and converted to a response by
// the request's connection-scoped ErrorHandler, so a compiled handler
// never returns a non-nil error itself.
type Handler interface {
	Handle(req *Request) (*Response, error)
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(req *Request) (*Response, error)

// Handle implements Handler.
func (f HandlerFunc) Handle(req *Request) (*Response, error) {
	return f(req)
}

// ErrorHandler converts a handler failure into the response sent to
// the client. It is connection-scoped policy supplied by the server,
// reachable from every request on that connection.
type ErrorHandler func(req *Request, err error) *Response

// Request is the routed view of an inbound HTTP request: the
// underlying request, the parameters captured from the path, and the
// connection's error-handling policy.
type Request struct {
	// HTTP is the underlying inbound request.
	HTTP *http.Request

	// Params holds the named captures extracted from the request
	// path by the matched route pattern.
	Params map[string]string

	// ErrorHandler is the connection-scoped policy that converts
	// handler failures into responses.
	ErrorHandler ErrorHandler
}

// Context returns the underlying request's context, or a background
// context if no HTTP request is attached.
func (r *Request) Context() context.Context {
	if r.HTTP == nil {
		return context.Background()
	}
	return r.HTTP.Context()
}

// Param returns the named path capture, or "" if absent.
func (r *Request) Param(name string) string {
	return r.Params[name]
}

// Response is an inert HTTP response value produced by a handler.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
	Header      http.Header
}

// NewTextResponse builds a plain-text response.
func NewTextResponse(status int, body string) *Response {
	return &Response{
		Status:      status,
		ContentType: ContentTypeText,
		Body:        []byte(body),
	}
}

// NewJSONResponse builds a JSON response from the given value.
func NewJSONResponse(status int, v interface{}) (*Response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &Response{
		Status:      status,
		ContentType: ContentTypeJSON,
		Body:        body,
	}, nil
}

// Write writes the response to a standard ResponseWriter.
func (r *Response) Write(w http.ResponseWriter) error {
	for k, vals := range r.Header {
		for _, v := range vals {
			w.Header().Add(k, v)
		}
	}
	if r.ContentType != "" {
		w.Header().Set("Content-Type", r.ContentType)
	}
	w.WriteHeader(r.Status)
	_, err := w.Write(r.Body)
	return err
}
