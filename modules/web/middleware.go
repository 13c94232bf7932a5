package web

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/storefront/modules/auth"
)

const (
	// tokenCookie is the session cookie carrying the signed token.
	tokenCookie = "users_access_token"
	// userContextKey is the Locals key holding the resolved user.
	userContextKey = "current_user"
)

// CurrentUserMiddleware resolves the session cookie into a user and stores
// it in the request locals. A missing, invalid or expired token just leaves
// the request anonymous, pages decide themselves what to do with that.
func CurrentUserMiddleware(authPort auth.AuthPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(tokenCookie)
		if token == "" {
			return c.Next()
		}
		userID, err := authPort.ValidateToken(c.UserContext(), token)
		if err != nil {
			return c.Next()
		}
		user, err := authPort.GetUser(c.UserContext(), userID)
		if err != nil || !user.IsActive {
			return c.Next()
		}
		c.Locals(userContextKey, user)
		return c.Next()
	}
}

// currentUser returns the user resolved by the middleware, or nil for an
// anonymous request.
func currentUser(c *fiber.Ctx) *auth.UserView {
	user, _ := c.Locals(userContextKey).(*auth.UserView)
	return user
}
