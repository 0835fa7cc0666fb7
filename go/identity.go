package backofficeserver

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	userdomain "github.com/Apurer/backoffice-api/internal/domains/users/domain"
	apierrors "github.com/Apurer/backoffice-api/internal/shared/errors"
)

// HeaderUserID carries the authenticated user id set by the upstream gateway.
const HeaderUserID = "X-User-ID"

const callerKey = "backoffice.caller"

var errMissingIdentity = errors.New("missing or malformed " + HeaderUserID + " header")

// IdentityResolver turns an authenticated user id into a caller.
type IdentityResolver interface {
	Identify(ctx context.Context, id int64) (userdomain.Caller, error)
}

// Identity resolves the caller for every request it guards. Requests without
// a parseable header are rejected with 401.
func Identity(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(HeaderUserID))
		id, err := strconv.ParseInt(raw, 10, 64)
		if raw == "" || err != nil || id <= 0 {
			respondProblem(c, apierrors.ErrUnauthorized.WithDetail(errMissingIdentity.Error()))
			c.Abort()
			return
		}
		caller, err := resolver.Identify(c.Request.Context(), id)
		if err != nil {
			respondServiceError(c, err)
			c.Abort()
			return
		}
		c.Set(callerKey, caller)
		c.Next()
	}
}

// RequireRole rejects callers whose role is not listed.
func RequireRole(roles ...userdomain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := callerFrom(c)
		for _, role := range roles {
			if caller.Role == role {
				c.Next()
				return
			}
		}
		respondProblem(c, apierrors.ErrForbidden.WithDetail(fmt.Sprintf("role %q may not call %s %s", caller.Role, c.Request.Method, c.FullPath())))
		c.Abort()
	}
}

func callerFrom(c *gin.Context) userdomain.Caller {
	if value, ok := c.Get(callerKey); ok {
		if caller, ok := value.(userdomain.Caller); ok {
			return caller
		}
	}
	return userdomain.Caller{}
}
