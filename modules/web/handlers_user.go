package web

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/example/storefront/modules/auth"
)

// RegisterPage shows the registration form.
func (h *Handlers) RegisterPage(c *fiber.Ctx) error {
	data := h.pageData(c, "Registration")
	if user := currentUser(c); user != nil {
		data["Message"] = user.Username
	}
	return h.render(c, "user/registration", data)
}

// Register creates an account from the submitted form. On success the
// session cookie is set and the browser moves to the profile page.
func (h *Handlers) Register(c *fiber.Ctx) error {
	data := h.pageData(c, "Registration")

	username := c.FormValue("username")
	email := c.FormValue("email")
	password := c.FormValue("password")
	if password != c.FormValue("repeat_password") {
		data["Message"] = "Passwords do not match"
		return h.render(c, "user/registration", data)
	}
	dayBirth, _ := time.Parse(dateLayout, c.FormValue("day_birth"))

	_, token, err := h.users.Register(c.UserContext(), username, email, dayBirth, password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUsernameTaken):
			data["Message"] = fmt.Sprintf("User %s already exists", username)
		case errors.Is(err, auth.ErrEmailTaken):
			data["Message"] = fmt.Sprintf("A user with email %s already exists", email)
		case errors.Is(err, auth.ErrEmptyUsername),
			errors.Is(err, auth.ErrInvalidEmail),
			errors.Is(err, auth.ErrWeakPassword),
			errors.Is(err, auth.ErrPasswordTooLong):
			data["Message"] = err.Error()
		default:
			data["Message"] = "Registration failed"
		}
		return h.render(c, "user/registration", data)
	}

	setToken(c, token)
	return c.Redirect("/user", fiber.StatusSeeOther)
}

// LoginPage shows the login form.
func (h *Handlers) LoginPage(c *fiber.Ctx) error {
	return h.render(c, "user/login", h.pageData(c, "Login"))
}

// Login checks credentials and installs the session cookie.
func (h *Handlers) Login(c *fiber.Ctx) error {
	data := h.pageData(c, "Login")

	_, token, err := h.users.Login(c.UserContext(), c.FormValue("username"), c.FormValue("password"))
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			data["Message"] = "User not found"
		case errors.Is(err, auth.ErrInvalidCredentials):
			data["Message"] = "Wrong password"
		default:
			data["Message"] = "Login failed"
		}
		return h.render(c, "user/login", data)
	}

	setToken(c, token)
	return c.Redirect("/user", fiber.StatusSeeOther)
}

// LogoutPage shows the logout confirmation.
func (h *Handlers) LogoutPage(c *fiber.Ctx) error {
	data := h.pageData(c, "Logout")
	if currentUser(c) != nil {
		data["LoggedIn"] = true
	}
	return h.render(c, "user/logout", data)
}

// Logout drops the session cookie.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	data := h.pageData(c, "Logout")
	if user := currentUser(c); user != nil {
		clearToken(c)
		data["Message"] = fmt.Sprintf("User %s logged out", user.Username)
	} else {
		data["Message"] = "You were not logged in"
	}
	return h.render(c, "user/logout", data)
}

// Profile shows the current user's account page.
func (h *Handlers) Profile(c *fiber.Ctx) error {
	return h.render(c, "user/profile", h.pageData(c, "Account"))
}

// ProfileUpdatePage shows the profile edit form. Only the account owner may
// open it.
func (h *Handlers) ProfileUpdatePage(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return c.Redirect("/user/login", fiber.StatusSeeOther)
	}
	if paramUint(c, "id") != user.ID {
		return c.Redirect("/user", fiber.StatusSeeOther)
	}
	return h.render(c, "user/update", h.pageData(c, "Account details"))
}

// ProfileUpdate saves the email and birth date from the edit form.
func (h *Handlers) ProfileUpdate(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return c.Redirect("/user/login", fiber.StatusSeeOther)
	}
	if paramUint(c, "id") != user.ID {
		return c.Redirect("/user", fiber.StatusSeeOther)
	}

	data := h.pageData(c, "Account details")
	dayBirth, _ := time.Parse(dateLayout, c.FormValue("day_birth"))
	if err := h.users.UpdateProfile(c.UserContext(), user.ID, c.FormValue("email"), dayBirth); err != nil {
		data["Message"] = "Update failed"
		return h.render(c, "user/update", data)
	}

	if fresh, err := h.users.GetUser(c.UserContext(), user.ID); err == nil {
		view := auth.ToView(fresh)
		data["User"] = &view
	}
	data["Message"] = "Updated"
	return h.render(c, "user/update", data)
}

// SelfDelete deactivates the current account and ends the session.
func (h *Handlers) SelfDelete(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return c.Redirect("/main", fiber.StatusSeeOther)
	}
	if err := h.users.Deactivate(c.UserContext(), user.ID); err != nil {
		return c.Redirect("/main", fiber.StatusSeeOther)
	}
	clearToken(c)
	return c.Redirect("/main", fiber.StatusSeeOther)
}

// UserList shows every account to an administrator.
func (h *Handlers) UserList(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return c.Redirect("/user/login", fiber.StatusSeeOther)
	}
	data := h.pageData(c, "Users")
	if isAdmin(user) {
		users, err := h.users.ListUsers(c.UserContext())
		if err != nil {
			data["Message"] = "Failed to load users"
		} else {
			views := make([]auth.UserView, 0, len(users))
			for _, u := range users {
				views = append(views, auth.ToView(u))
			}
			data["Users"] = views
		}
	}
	return h.render(c, "user/list", data)
}

// AdminUserPage shows the account edit form for an administrator.
func (h *Handlers) AdminUserPage(c *fiber.Ctx) error {
	if !isAdmin(currentUser(c)) {
		return c.Redirect("/main", fiber.StatusSeeOther)
	}
	data := h.pageData(c, "Account details")
	target, err := h.users.GetUser(c.UserContext(), paramUint(c, "id"))
	if err != nil {
		data["Message"] = "User not found"
		return h.render(c, "user/admin_user", data)
	}
	view := auth.ToView(target)
	data["Target"] = &view
	return h.render(c, "user/admin_user", data)
}

// AdminUserUpdate saves account fields and flags edited by an administrator.
func (h *Handlers) AdminUserUpdate(c *fiber.Ctx) error {
	if !isAdmin(currentUser(c)) {
		return c.Redirect("/main", fiber.StatusSeeOther)
	}
	id := paramUint(c, "id")
	dayBirth, _ := time.Parse(dateLayout, c.FormValue("day_birth"))
	err := h.users.UpdateFlags(c.UserContext(), id, c.FormValue("email"), dayBirth,
		formCheckbox(c, "is_active"), formCheckbox(c, "is_staff"), formCheckbox(c, "is_admin"))
	if err != nil {
		data := h.pageData(c, "Account details")
		data["Message"] = "Update failed"
		return h.render(c, "user/admin_user", data)
	}
	return c.Redirect("/user/list", fiber.StatusSeeOther)
}

// AdminUserDeletePage shows the deletion confirmation for an administrator.
func (h *Handlers) AdminUserDeletePage(c *fiber.Ctx) error {
	if !isAdmin(currentUser(c)) {
		return c.Redirect("/main", fiber.StatusSeeOther)
	}
	data := h.pageData(c, "Delete user")
	target, err := h.users.GetUser(c.UserContext(), paramUint(c, "id"))
	if err != nil {
		data["Message"] = "User not found"
		return h.render(c, "user/delete", data)
	}
	view := auth.ToView(target)
	data["Target"] = &view
	return h.render(c, "user/delete", data)
}

// AdminUserDelete removes an account together with its purchase history and
// cart.
func (h *Handlers) AdminUserDelete(c *fiber.Ctx) error {
	if !isAdmin(currentUser(c)) {
		return c.Redirect("/main", fiber.StatusSeeOther)
	}
	id := paramUint(c, "id")
	if _, err := h.users.GetUser(c.UserContext(), id); err != nil {
		return c.Redirect("/user/list", fiber.StatusSeeOther)
	}
	if err := h.checkout.DeleteByUser(c.UserContext(), id); err != nil {
		return c.Redirect("/user/list", fiber.StatusSeeOther)
	}
	if err := h.users.DeleteUser(c.UserContext(), id); err != nil {
		return c.Redirect("/user/list", fiber.StatusSeeOther)
	}
	return c.Redirect("/user/list", fiber.StatusSeeOther)
}

// RepairPage shows the password recovery form.
func (h *Handlers) RepairPage(c *fiber.Ctx) error {
	return h.render(c, "user/repair", h.pageData(c, "Password recovery"))
}

// Repair verifies the username and email pair before letting the visitor
// set a new password.
func (h *Handlers) Repair(c *fiber.Ctx) error {
	data := h.pageData(c, "Password recovery")
	user, err := h.users.BeginRepair(c.UserContext(), c.FormValue("username"), c.FormValue("email"))
	if err != nil {
		data["Message"] = "User not found"
		return h.render(c, "user/repair", data)
	}
	return c.Redirect(fmt.Sprintf("/user/create_password/%d", user.ID), fiber.StatusSeeOther)
}

// CreatePasswordPage shows the new password form for a recovered account.
func (h *Handlers) CreatePasswordPage(c *fiber.Ctx) error {
	id := paramUint(c, "id")
	user, err := h.users.GetUser(c.UserContext(), id)
	if err != nil {
		return c.Redirect("/user", fiber.StatusSeeOther)
	}
	data := h.pageData(c, "New password")
	data["Name"] = user.Username
	data["TargetID"] = id
	return h.render(c, "user/create_password", data)
}

// CreatePassword saves a new password and signs the user in.
func (h *Handlers) CreatePassword(c *fiber.Ctx) error {
	id := paramUint(c, "id")
	user, err := h.users.GetUser(c.UserContext(), id)
	if err != nil {
		return c.Redirect("/user", fiber.StatusSeeOther)
	}

	data := h.pageData(c, "New password")
	data["Name"] = user.Username
	data["TargetID"] = id

	password := c.FormValue("password")
	if password != c.FormValue("repeat_password") {
		data["Message"] = "Passwords do not match"
		return h.render(c, "user/create_password", data)
	}

	token, err := h.users.SetPassword(c.UserContext(), id, password)
	if err != nil {
		data["Message"] = "Failed to change password"
		return h.render(c, "user/create_password", data)
	}
	setToken(c, token)
	return c.Redirect("/user", fiber.StatusSeeOther)
}
