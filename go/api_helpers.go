package backofficeserver

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/backoffice-api/internal/shared/repository"
)

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondBadRequest(c, fmt.Errorf("%s must be a positive integer", name))
		return 0, false
	}
	return id, true
}

// parsePage reads skip and limit query parameters; absent values fall back to service defaults.
func parsePage(c *gin.Context) (repository.Page, bool) {
	var page repository.Page
	for name, dst := range map[string]*int{"skip": &page.Skip, "limit": &page.Limit} {
		raw := strings.TrimSpace(c.Query(name))
		if raw == "" {
			continue
		}
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			respondBadRequest(c, fmt.Errorf("%s must be a non-negative integer", name))
			return repository.Page{}, false
		}
		*dst = value
	}
	return page, true
}
