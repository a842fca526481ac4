package domain

import "time"

// User is the canonical local identity record synchronized from the IdP.
// Login is the natural key used to match an incoming token to a persisted row.
type User struct {
	ID               string     `json:"id"`
	Login            string     `json:"login"`
	FirstName        string     `json:"firstName,omitempty"`
	LastName         string     `json:"lastName,omitempty"`
	Email            string     `json:"email"`
	Activated        bool       `json:"activated"`
	LangKey          string     `json:"langKey,omitempty"`
	ImageURL         string     `json:"imageUrl,omitempty"`
	Authorities      []string   `json:"authorities,omitempty"`
	CreatedBy        string     `json:"createdBy,omitempty"`
	CreatedDate      *time.Time `json:"createdDate,omitempty"`
	LastModifiedBy   string     `json:"lastModifiedBy,omitempty"`
	LastModifiedDate *time.Time `json:"lastModifiedDate,omitempty"`
}

// Authority is a single role name from the global authority set
type Authority struct {
	Name string `json:"name"`
}

// AdminUserDTO is the administrative view of a user, all fields plus audit
// metadata and the full authority set.
type AdminUserDTO struct {
	ID               string     `json:"id"`
	Login            string     `json:"login"`
	FirstName        string     `json:"firstName,omitempty"`
	LastName         string     `json:"lastName,omitempty"`
	Email            string     `json:"email"`
	ImageURL         string     `json:"imageUrl,omitempty"`
	Activated        bool       `json:"activated"`
	LangKey          string     `json:"langKey,omitempty"`
	CreatedBy        string     `json:"createdBy,omitempty"`
	CreatedDate      *time.Time `json:"createdDate,omitempty"`
	LastModifiedBy   string     `json:"lastModifiedBy,omitempty"`
	LastModifiedDate *time.Time `json:"lastModifiedDate,omitempty"`
	Authorities      []string   `json:"authorities"`
}

// UserDTO is the public view of a user, identifier and login only
type UserDTO struct {
	ID    string `json:"id"`
	Login string `json:"login"`
}

// NewAdminUserDTO projects a user into its administrative view
func NewAdminUserDTO(u *User) *AdminUserDTO {
	if u == nil {
		return nil
	}
	authorities := u.Authorities
	if authorities == nil {
		authorities = []string{}
	}
	return &AdminUserDTO{
		ID:               u.ID,
		Login:            u.Login,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		Email:            u.Email,
		ImageURL:         u.ImageURL,
		Activated:        u.Activated,
		LangKey:          u.LangKey,
		CreatedBy:        u.CreatedBy,
		CreatedDate:      u.CreatedDate,
		LastModifiedBy:   u.LastModifiedBy,
		LastModifiedDate: u.LastModifiedDate,
		Authorities:      authorities,
	}
}

// ToUser maps the administrative view back to the internal representation.
// Authority names become bare references, their existence in the durable
// authority set is validated separately when the user is persisted.
func (d *AdminUserDTO) ToUser() *User {
	if d == nil {
		return nil
	}
	return &User{
		ID:               d.ID,
		Login:            d.Login,
		FirstName:        d.FirstName,
		LastName:         d.LastName,
		Email:            d.Email,
		ImageURL:         d.ImageURL,
		Activated:        d.Activated,
		LangKey:          d.LangKey,
		CreatedBy:        d.CreatedBy,
		CreatedDate:      d.CreatedDate,
		LastModifiedBy:   d.LastModifiedBy,
		LastModifiedDate: d.LastModifiedDate,
		Authorities:      append([]string(nil), d.Authorities...),
	}
}

// NewUserDTO projects a user into its public view
func NewUserDTO(u *User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{ID: u.ID, Login: u.Login}
}
