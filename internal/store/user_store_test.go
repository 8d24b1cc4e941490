package store

import (
	"errors"
	"testing"

	"github.com/raisama21/ims/internal/model"
)

func userInput(email string, role model.Role) UserInput {
	return UserInput{
		FirstName: "sam",
		LastName:  "seller",
		Email:     email,
		Password:  "sales-pass-1",
		Role:      role,
	}
}

func TestUserCreate(t *testing.T) {
	f := newFixture(t)
	acme, _ := f.tenant(t, "acme")
	globex, _ := f.tenant(t, "globex")

	sam, err := f.users.Create(f.ctx, acme, userInput("sam@acme.test", model.RoleSalesPerson))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if sam.Password == "sales-pass-1" {
		t.Error("password stored in clear text")
	}

	_, err = f.users.Create(f.ctx, acme, userInput("SAM@acme.test", model.RoleProductManager))
	assertConflict(t, err, "email")

	if _, err := f.users.Create(f.ctx, globex, userInput("sam@acme.test", model.RoleSalesPerson)); err != nil {
		t.Fatalf("same email in another tenant: error = %v", err)
	}

	_, err = f.users.Create(f.ctx, acme, userInput("pat@acme.test", "owner"))
	assertValidation(t, err, "role")

	sellers, err := f.users.List(f.ctx, acme, model.RoleSalesPerson)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(sellers) != 1 || sellers[0].ID != sam.ID {
		t.Errorf("List(sales-person) = %v", sellers)
	}

	all, err := f.users.List(f.ctx, acme, "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("List() = %d users, want 2", len(all))
	}

	user, err := f.auth.Authenticate(f.ctx, LoginInput{BusinessName: "acme", Email: "sam@acme.test", Password: "sales-pass-1"})
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if user.Role != model.RoleSalesPerson {
		t.Errorf("role = %q", user.Role)
	}
}

func TestUserUpdate(t *testing.T) {
	f := newFixture(t)
	acme, admin := f.tenant(t, "acme")
	globex, _ := f.tenant(t, "globex")

	sam, err := f.users.Create(f.ctx, acme, userInput("sam@acme.test", model.RoleSalesPerson))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	oldHash := sam.Password

	in := userInput("sam@acme.test", model.RoleProductManager)
	in.Password = ""
	updated, err := f.users.Update(f.ctx, acme, sam.ID, in)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Role != model.RoleProductManager {
		t.Errorf("role = %q", updated.Role)
	}
	if updated.Password != oldHash {
		t.Error("empty password replaced the stored hash")
	}

	_, err = f.users.Update(f.ctx, acme, admin.ID, userInput("admin@acme.test", model.RoleSalesPerson))
	assertValidation(t, err, "role")

	_, err = f.users.Update(f.ctx, globex, sam.ID, in)
	assertNotFound(t, err)

	// with a second admin the first may step down
	in = userInput("sam@acme.test", model.RoleAdmin)
	if _, err := f.users.Update(f.ctx, acme, sam.ID, in); err != nil {
		t.Fatalf("promote: %v", err)
	}
	if _, err := f.users.Update(f.ctx, acme, admin.ID, userInput("admin@acme.test", model.RoleSalesPerson)); err != nil {
		t.Fatalf("demote with another admin: %v", err)
	}
}

func TestUserDeleteRejectsAdmin(t *testing.T) {
	f := newFixture(t)
	acme, admin := f.tenant(t, "acme")
	globex, _ := f.tenant(t, "globex")

	err := f.users.Delete(f.ctx, acme, admin.ID)
	if !errors.Is(err, ErrAdminDelete) {
		t.Fatalf("Delete(admin) error = %v, want ErrAdminDelete", err)
	}
	if _, err := f.users.Get(f.ctx, acme, admin.ID); err != nil {
		t.Fatalf("admin row gone after rejected delete: %v", err)
	}

	sam, err := f.users.Create(f.ctx, acme, userInput("sam@acme.test", model.RoleSalesPerson))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	assertNotFound(t, f.users.Delete(f.ctx, globex, sam.ID))

	if err := f.users.Delete(f.ctx, acme, sam.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	_, err = f.users.Get(f.ctx, acme, sam.ID)
	assertNotFound(t, err)
}
