package backofficeserver

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	apierrors "github.com/Apurer/backoffice-api/internal/shared/errors"
)

var responder = apierrors.NewChainedResponder("", apierrors.AppErrorMapper)

// SetErrorLogger routes unmapped handler errors to logger.
func SetErrorLogger(logger *slog.Logger) {
	responder.WithLogger(logger)
}

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	responder.Respond(c, problem)
}

// respondServiceError classifies a service error by the shared taxonomy.
func respondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

func respondBadRequest(c *gin.Context, err error) {
	respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
}

func respondValidation(c *gin.Context, err error) {
	respondProblem(c, apierrors.ErrValidation.WithDetail(err.Error()))
}
