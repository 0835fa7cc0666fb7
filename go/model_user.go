package backofficeserver

import "time"

type User struct {
	Id        int64     `json:"id,omitempty"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName,omitempty"`
	Role      string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}
