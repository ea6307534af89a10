package chi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface lists the HTTP operations of the service.
type ServerInterface interface {
	// (GET /v1/suggest)
	SuggestQuery(w http.ResponseWriter, r *http.Request, params SuggestParams)
	// (POST /v1/suggest)
	SuggestBody(w http.ResponseWriter, r *http.Request)
	// (PUT /v1/nodes/{identifier})
	IndexNode(w http.ResponseWriter, r *http.Request, identifier string)
	// (GET /health)
	HealthCheck(w http.ResponseWriter, r *http.Request)
	// (GET /metrics)
	Metrics(w http.ResponseWriter, r *http.Request)
}

// ChiServerOptions configures HandlerWithOptions.
type ChiServerOptions struct {
	BaseRouter       chi.Router
	Middlewares      []func(http.Handler) http.Handler
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// InvalidParamFormatError reports a query or path parameter that could not be bound.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error { return e.Err }

type serverWrapper struct {
	handler          ServerInterface
	middlewares      []func(http.Handler) http.Handler
	errorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

func (sw *serverWrapper) wrap(h http.Handler) http.Handler {
	for _, m := range sw.middlewares {
		h = m(h)
	}
	return h
}

func (sw *serverWrapper) suggestQuery(w http.ResponseWriter, r *http.Request) {
	var params SuggestParams
	query := r.URL.Query()

	if err := runtime.BindQueryParameter("form", true, false, "term", query, &params.Term); err != nil {
		sw.errorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "term", Err: err})
		return
	}
	err := runtime.BindQueryParameter("form", true, true, "contextNodeIdentifier", query, &params.ContextNodeIdentifier)
	if err != nil {
		sw.errorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "contextNodeIdentifier", Err: err})
		return
	}
	err = runtime.BindQueryParameter("form", true, false, "dimensionCombination", query, &params.DimensionCombination)
	if err != nil {
		sw.errorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "dimensionCombination", Err: err})
		return
	}

	sw.wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw.handler.SuggestQuery(w, r, params)
	})).ServeHTTP(w, r)
}

func (sw *serverWrapper) suggestBody(w http.ResponseWriter, r *http.Request) {
	sw.wrap(http.HandlerFunc(sw.handler.SuggestBody)).ServeHTTP(w, r)
}

func (sw *serverWrapper) indexNode(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")
	if identifier == "" {
		sw.errorHandlerFunc(w, r, &InvalidParamFormatError{
			ParamName: "identifier", Err: fmt.Errorf("must not be empty"),
		})
		return
	}
	sw.wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw.handler.IndexNode(w, r, identifier)
	})).ServeHTTP(w, r)
}

func (sw *serverWrapper) healthCheck(w http.ResponseWriter, r *http.Request) {
	sw.wrap(http.HandlerFunc(sw.handler.HealthCheck)).ServeHTTP(w, r)
}

func (sw *serverWrapper) metrics(w http.ResponseWriter, r *http.Request) {
	sw.wrap(http.HandlerFunc(sw.handler.Metrics)).ServeHTTP(w, r)
}

// Handler mounts si on a fresh chi router.
func Handler(si ServerInterface) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{})
}

// HandlerWithOptions mounts si on options.BaseRouter (or a fresh router).
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, _ *http.Request, err error) {
			writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, err.Error())
		}
	}
	sw := &serverWrapper{
		handler:          si,
		middlewares:      options.Middlewares,
		errorHandlerFunc: options.ErrorHandlerFunc,
	}

	r.Get("/v1/suggest", sw.suggestQuery)
	r.Post("/v1/suggest", sw.suggestBody)
	r.Put("/v1/nodes/{identifier}", sw.indexNode)
	r.Get("/health", sw.healthCheck)
	r.Get("/metrics", sw.metrics)

	return r
}
