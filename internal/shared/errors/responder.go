package errors

import (
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// ContentTypeProblemJSON is the media type of every error body.
const ContentTypeProblemJSON = "application/problem+json"

// ErrorMapper classifies an error as a problem, reporting false when it does not apply.
type ErrorMapper func(err error) (ProblemDetail, bool)

// ChainedResponder writes problem documents. Errors run through the mappers in
// order; anything unmapped becomes a 500 whose cause is logged, not returned.
type ChainedResponder struct {
	baseURI string
	mappers []ErrorMapper
	logger  *slog.Logger
}

// NewChainedResponder builds a responder. baseURI is prepended to relative problem types.
func NewChainedResponder(baseURI string, mappers ...ErrorMapper) *ChainedResponder {
	return &ChainedResponder{
		baseURI: strings.TrimSuffix(baseURI, "/"),
		mappers: mappers,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithLogger sets the logger used for unmapped errors.
func (r *ChainedResponder) WithLogger(logger *slog.Logger) *ChainedResponder {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// Respond writes the problem, filling instance with the request path and
// traceId with the active span when there is one.
func (r *ChainedResponder) Respond(c *gin.Context, problem ProblemDetail) {
	if r.baseURI != "" && strings.HasPrefix(problem.Type, "/") {
		problem.Type = r.baseURI + problem.Type
	}
	if problem.Instance == "" {
		problem.Instance = c.Request.URL.Path
	}
	if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
		problem = problem.WithExtension("traceId", sc.TraceID().String())
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.AbortWithStatusJSON(problem.Status, problem)
}

// RespondError maps err and writes the result.
func (r *ChainedResponder) RespondError(c *gin.Context, err error) {
	var problem ProblemDetail
	if errors.As(err, &problem) {
		r.Respond(c, problem)
		return
	}
	for _, mapper := range r.mappers {
		if mapped, ok := mapper(err); ok {
			r.Respond(c, mapped)
			return
		}
	}
	r.logger.ErrorContext(c.Request.Context(), "unhandled request error",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("error", err.Error()),
	)
	r.Respond(c, ErrInternal.WithDetail("the request could not be completed"))
}
