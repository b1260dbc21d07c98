package main

import (
	"errors"
	"io"
	"net/http"

	"github.com/vyrodovalexey/avrouter/internal/router"
	"github.com/vyrodovalexey/avrouter/internal/server"
)

var errNoRoutes = errors.New("no route table installed")

// registerBuiltinHandlers installs the handlers configuration routes
// can reference by name.
func registerBuiltinHandlers(handlers *server.HandlerRegistry) {
	_ = handlers.RegisterFunc("ping", pingHandler)
	_ = handlers.RegisterFunc("echo", echoHandler)
	_ = handlers.RegisterFunc("params", paramsHandler)
}

// pingHandler answers a fixed liveness probe body.
func pingHandler(req *router.Request) (*router.Response, error) {
	return router.NewTextResponse(http.StatusOK, "pong"), nil
}

// echoHandler reflects the request body back to the caller.
func echoHandler(req *router.Request) (*router.Response, error) {
	body, err := io.ReadAll(req.HTTP.Body)
	if err != nil {
		return nil, err
	}

	resp := router.NewTextResponse(http.StatusOK, string(body))
	if ct := req.HTTP.Header.Get("Content-Type"); ct != "" {
		resp.ContentType = ct
	}

	return resp, nil
}

// paramsHandler returns the captured path parameters as JSON.
func paramsHandler(req *router.Request) (*router.Response, error) {
	return router.NewJSONResponse(http.StatusOK, req.Params)
}
