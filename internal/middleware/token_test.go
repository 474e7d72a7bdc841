package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"MarvelBackend/internal/entity"
	jwtPkg "MarvelBackend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenMiddlewareAcceptsValidClaims(t *testing.T) {
	t.Setenv("JWT_ACCESS_TOKEN_SECRET", "test-secret")

	m := &middleware{
		token: newTokenMiddleware(),
		log:   logrus.New(),
	}

	var seen entity.EmployeeLoginData
	app := fiber.New()
	app.Get("/protected", m.NewTokenMiddleware, func(ctx *fiber.Ctx) error {
		employee, err := jwtPkg.GetEmployeeLoginData(ctx)
		if err != nil {
			return err
		}
		seen = employee
		return ctx.SendString("ok")
	})

	token, _, err := jwtPkg.Sign(map[string]interface{}{
		"id":    "emp-1",
		"name":  "Amina",
		"email": "amina@example.com",
	}, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "emp-1", seen.ID)
	assert.Equal(t, "amina@example.com", seen.Email)
}

func TestTokenMiddlewareRejectsNonStringClaims(t *testing.T) {
	t.Setenv("JWT_ACCESS_TOKEN_SECRET", "test-secret")

	m := &middleware{
		token: newTokenMiddleware(),
		log:   logrus.New(),
	}

	app := fiber.New()
	app.Get("/protected", m.NewTokenMiddleware, func(ctx *fiber.Ctx) error {
		return ctx.SendString("ok")
	})

	// A numeric id claim must fail auth, not crash the handler.
	token, _, err := jwtPkg.Sign(map[string]interface{}{
		"id":    12345,
		"name":  "Amina",
		"email": "amina@example.com",
	}, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestTokenMiddlewareRejectsMissingHeader(t *testing.T) {
	m := &middleware{
		token: newTokenMiddleware(),
		log:   logrus.New(),
	}

	app := fiber.New()
	app.Get("/protected", m.NewTokenMiddleware, func(ctx *fiber.Ctx) error {
		return ctx.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
