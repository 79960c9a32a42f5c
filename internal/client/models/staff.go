package models

// Client is a customer site offered by the create form.
type Client struct {
	ID      int64  `json:"id"`
	Name    string `json:"nome"`
	Address string `json:"endereco"`
}

// DisplayText is the text shown in, and matched against, the location picker.
func (c Client) DisplayText() string {
	if c.Address == "" {
		return c.Name
	}
	return c.Name + " — " + c.Address
}

// Technician is a staff member that can be assigned to a work order.
type Technician struct {
	ID    int64  `json:"id"`
	Name  string `json:"nome"`
	Email string `json:"email,omitempty"`
	Phone string `json:"telefone,omitempty"`
	Role  string `json:"cargo,omitempty"`
}

// TechnicianForm registers a technician.
type TechnicianForm struct {
	Name  string `json:"nome"`
	Email string `json:"email"`
	Phone string `json:"telefone"`
	Role  string `json:"cargo"`
}

// UserForm registers a user account with login access.
type UserForm struct {
	Name     string `json:"nome"`
	Email    string `json:"email"`
	Phone    string `json:"telefone"`
	Password string `json:"senha"`
	Role     string `json:"cargo"`
}
