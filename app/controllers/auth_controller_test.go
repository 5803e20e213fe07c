package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bazaar/app/models"
)

func TestRegisterAndMe(t *testing.T) {
	h, _ := setupAPI(t)

	rec, env := request(t, h, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"name":     "Asha",
		"email":    "asha@example.com",
		"password": "secret-password",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "User registered successfully", env["message"])

	data := dataMap(t, env)
	user := data["user"].(map[string]interface{})
	assert.Equal(t, "asha@example.com", user["email"])
	assert.Equal(t, models.RoleUser, user["role"])
	assert.NotContains(t, user, "password")

	token := data["token"].(map[string]interface{})
	access := token["access_token"].(string)
	require.NotEmpty(t, access)

	rec, env = request(t, h, http.MethodGet, "/api/auth/me", access, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "asha@example.com", dataMap(t, env)["email"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h, db := setupAPI(t)
	makeUser(t, db, "taken@example.com", models.RoleUser)

	rec, env := request(t, h, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"name":     "Someone",
		"email":    "taken@example.com",
		"password": "secret-password",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Validation errors", env["message"])
	errs := env["errors"].(map[string]interface{})
	assert.Contains(t, errs, "email")
}

func TestRegisterValidation(t *testing.T) {
	h, _ := setupAPI(t)

	rec, env := request(t, h, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"name":     "Short",
		"email":    "not-an-email",
		"password": "short",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	errs := env["errors"].(map[string]interface{})
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
}

func TestLogin(t *testing.T) {
	h, db := setupAPI(t)
	makeUser(t, db, "shopper@example.com", models.RoleUser)

	rec, env := request(t, h, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "shopper@example.com",
		"password": "secret-password",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	token := dataMap(t, env)["token"].(map[string]interface{})
	assert.Equal(t, "Bearer", token["token_type"])
	assert.NotEmpty(t, token["access_token"])
	assert.NotEmpty(t, token["refresh_token"])
}

func TestLoginWrongPassword(t *testing.T) {
	h, db := setupAPI(t)
	makeUser(t, db, "shopper@example.com", models.RoleUser)

	rec, _ := request(t, h, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "shopper@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = request(t, h, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "nobody@example.com",
		"password": "secret-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRoutesRejectAnonymous(t *testing.T) {
	h, _ := setupAPI(t)

	for _, path := range []string{"/api/products", "/api/cart", "/api/orders", "/api/auth/me"} {
		rec, _ := request(t, h, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "path %s", path)
	}
}
