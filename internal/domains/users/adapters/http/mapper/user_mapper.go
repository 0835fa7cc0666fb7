package mapper

import (
	"time"

	userdomain "github.com/Apurer/backoffice-api/internal/domains/users/domain"
)

// User represents the transport-level user payload.
type User struct {
	ID        int64
	Email     string
	FullName  string
	Role      string
	CreatedAt time.Time
}

// ToDomainUser converts a transport user to its domain counterpart.
func ToDomainUser(model User) (*userdomain.User, error) {
	return userdomain.NewUser(model.Email, model.FullName, userdomain.Role(model.Role))
}

// FromDomainUser converts a domain user into a transport representation.
func FromDomainUser(user *userdomain.User) User {
	if user == nil {
		return User{}
	}
	return User{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
	}
}

// FromDomainUsers converts a slice of domain users to transport representation.
func FromDomainUsers(users []*userdomain.User) []User {
	result := make([]User, 0, len(users))
	for _, user := range users {
		result = append(result, FromDomainUser(user))
	}
	return result
}

// ToDomainUsers converts transport users into the domain representation.
func ToDomainUsers(users []User) ([]*userdomain.User, error) {
	result := make([]*userdomain.User, 0, len(users))
	for _, user := range users {
		mapped, err := ToDomainUser(user)
		if err != nil {
			return nil, err
		}
		result = append(result, mapped)
	}
	return result, nil
}
