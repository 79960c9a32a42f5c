package cli

import (
	"context"

	"github.com/dmitrijs2005/aircontrol/internal/client/models"
)

func (a *App) AddTechnician(ctx context.Context) error {
	var f models.TechnicianForm
	var err error
	if f.Name, err = getSimpleText(a.reader, "Name", a.out); err != nil {
		return err
	}
	if f.Email, err = getSimpleText(a.reader, "Email", a.out); err != nil {
		return err
	}
	if f.Phone, err = getSimpleText(a.reader, "Phone (optional)", a.out); err != nil {
		return err
	}
	if f.Role, err = GetChoice(a.reader, "Role", models.Roles, models.RoleTechnician, a.out); err != nil {
		return err
	}

	if err := a.staff.RegisterTechnician(ctx, f); err != nil {
		return a.fail(err)
	}
	a.lookup.Invalidate()
	a.println("Technician registered.")
	return nil
}

// AddUser registers a login account. Only administrators may do this.
func (a *App) AddUser(ctx context.Context) error {
	if a.session == nil || !a.session.HasRole(models.RoleAdmin) {
		a.println("Access restricted to administrators.")
		return nil
	}

	var f models.UserForm
	var err error
	if f.Name, err = getSimpleText(a.reader, "Name", a.out); err != nil {
		return err
	}
	if f.Email, err = getSimpleText(a.reader, "Email", a.out); err != nil {
		return err
	}
	if f.Phone, err = getSimpleText(a.reader, "Phone (optional)", a.out); err != nil {
		return err
	}
	if f.Password, err = getPassword(a.out); err != nil {
		return err
	}
	if f.Role, err = GetChoice(a.reader, "Role", models.Roles, models.RoleTechnician, a.out); err != nil {
		return err
	}

	if err := a.staff.RegisterUser(ctx, f); err != nil {
		return a.fail(err)
	}
	a.println("User registered.")
	return nil
}
