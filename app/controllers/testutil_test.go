package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/routes"
	"github.com/shashiranjanraj/bazaar/pkg/auth"
	"github.com/shashiranjanraj/bazaar/pkg/database"
	"github.com/shashiranjanraj/bazaar/pkg/router"
)

// setupAPI migrates a fresh sqlite database and mounts the full route table,
// auth middleware included, so tests exercise the real HTTP surface.
func setupAPI(t *testing.T) (http.Handler, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "bazaar_api_test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	))

	database.DB = db
	t.Cleanup(func() { database.DB = nil })

	r := router.New()
	routes.RegisterAPI(r)
	return r.Handler(), db
}

// makeUser creates an account and returns it with a valid bearer token.
func makeUser(t *testing.T, db *gorm.DB, email, role string) (models.User, string) {
	t.Helper()

	hash, err := auth.HashPassword("secret-password")
	require.NoError(t, err)

	user := models.User{Name: "Test User", Email: email, Password: hash, Role: role}
	require.NoError(t, db.Create(&user).Error)

	token, err := auth.GenerateToken(user.ID, user.Role)
	require.NoError(t, err)
	return user, token
}

func makeProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) models.Product {
	t.Helper()
	product := models.Product{Name: name, Price: price, Stock: stock, IsActive: true}
	require.NoError(t, db.Create(&product).Error)
	return product
}

// request performs an HTTP call against the handler and decodes the JSON
// envelope. body may be nil.
func request(t *testing.T, h http.Handler, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var envelope map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope),
			"body: %s", rec.Body.String())
	}
	return rec, envelope
}

func dataMap(t *testing.T, envelope map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := envelope["data"].(map[string]interface{})
	require.True(t, ok, "expected data object, got %v", envelope)
	return data
}
