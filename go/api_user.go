package backofficeserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	userhttpmapper "github.com/Apurer/backoffice-api/internal/domains/users/adapters/http/mapper"
	userports "github.com/Apurer/backoffice-api/internal/domains/users/ports"
)

var errEmptyBatch = errors.New("at least one user is required")

// UserAPI serves back-office accounts.
type UserAPI struct {
	service userports.Service
}

// NewUserAPI wires dependencies.
func NewUserAPI(service userports.Service) UserAPI {
	return UserAPI{service: service}
}

func fromTransportUser(user userhttpmapper.User) User {
	return User{
		Id:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}

// Post /api/v1/users
// Create user
func (api *UserAPI) CreateUser(c *gin.Context) {
	var payload User
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	user, err := userhttpmapper.ToDomainUser(userhttpmapper.User{Email: payload.Email, FullName: payload.FullName, Role: payload.Role})
	if err != nil {
		respondValidation(c, err)
		return
	}
	saved, err := api.service.CreateUser(c.Request.Context(), user)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromTransportUser(userhttpmapper.FromDomainUser(saved)))
}

// Post /api/v1/users/batch
// Create several users in one transaction; a single invalid or duplicate entry rejects the batch
func (api *UserAPI) CreateUsers(c *gin.Context) {
	var payload []User
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	if len(payload) == 0 {
		respondValidation(c, errEmptyBatch)
		return
	}
	transport := make([]userhttpmapper.User, 0, len(payload))
	for _, user := range payload {
		transport = append(transport, userhttpmapper.User{Email: user.Email, FullName: user.FullName, Role: user.Role})
	}
	users, err := userhttpmapper.ToDomainUsers(transport)
	if err != nil {
		respondValidation(c, err)
		return
	}
	saved, err := api.service.CreateUsers(c.Request.Context(), users)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	result := make([]User, 0, len(saved))
	for _, user := range userhttpmapper.FromDomainUsers(saved) {
		result = append(result, fromTransportUser(user))
	}
	c.JSON(http.StatusCreated, result)
}

// Get /api/v1/users
func (api *UserAPI) ListUsers(c *gin.Context) {
	page, ok := parsePage(c)
	if !ok {
		return
	}
	users, err := api.service.List(c.Request.Context(), page)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	result := make([]User, 0, len(users))
	for _, user := range userhttpmapper.FromDomainUsers(users) {
		result = append(result, fromTransportUser(user))
	}
	c.JSON(http.StatusOK, result)
}

// Get /api/v1/users/:userId
func (api *UserAPI) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	user, err := api.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromTransportUser(userhttpmapper.FromDomainUser(user)))
}

// Get /api/v1/me
// The user behind the X-User-ID header
func (api *UserAPI) Me(c *gin.Context) {
	user, err := api.service.GetByID(c.Request.Context(), callerFrom(c).ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromTransportUser(userhttpmapper.FromDomainUser(user)))
}

// Delete /api/v1/users/:userId
func (api *UserAPI) DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	if err := api.service.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
