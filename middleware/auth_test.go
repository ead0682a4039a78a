package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/steelcraft/steelcraft-erp-api/config"
	"github.com/steelcraft/steelcraft-erp-api/models"
	"github.com/steelcraft/steelcraft-erp-api/services"
)

func setupAuthTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func TestCustomClaims_HasScope(t *testing.T) {
	claims := CustomClaims{Scope: "read:orders write:orders"}

	assert.True(t, claims.HasScope("read:orders"))
	assert.True(t, claims.HasScope("write:orders"))
	assert.False(t, claims.HasScope("delete:orders"))

	empty := CustomClaims{}
	assert.False(t, empty.HasScope("read:orders"))
}

func TestGetUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, err := GetUserID(c)
	assert.Error(t, err)

	c.Set("user_id", "auth0|abc123")
	userID, err := GetUserID(c)
	assert.NoError(t, err)
	assert.Equal(t, "auth0|abc123", userID)

	c.Set("user_id", 42)
	_, err = GetUserID(c)
	assert.Error(t, err)
}

func TestGetAccessToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, err := GetAccessToken(c)
	assert.Error(t, err)

	c.Set("access_token", "raw-token")
	token, err := GetAccessToken(c)
	assert.NoError(t, err)
	assert.Equal(t, "raw-token", token)
}

func TestGetClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, err := GetClaims(c)
	assert.Error(t, err)

	claims := &validator.ValidatedClaims{
		CustomClaims: &CustomClaims{Role: models.RoleAdmin},
	}
	c.Set("validated_claims", claims)

	got, err := GetClaims(c)
	assert.NoError(t, err)
	custom := got.CustomClaims.(*CustomClaims)
	assert.Equal(t, models.RoleAdmin, custom.Role)
}

func TestAuthError(t *testing.T) {
	err := &AuthError{Code: "MISSING_USER_ID", Message: "User ID not found in context"}
	assert.Equal(t, "User ID not found in context", err.Error())
}

func requirePermissionRouter(auth0ID, operation string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected",
		func(c *gin.Context) {
			c.Set("user_id", auth0ID)
			c.Next()
		},
		RequirePermission(operation),
		func(c *gin.Context) {
			user, err := GetCurrentUser(c)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false})
				return
			}
			c.JSON(http.StatusOK, gin.H{"success": true, "role": user.Role})
		},
	)
	return router
}

func TestRequirePermission(t *testing.T) {
	db := setupAuthTestDB(t)
	config.SetDB(db)

	operator := models.User{Auth0ID: "auth0|op1", Name: "Op", Email: "op@example.com", Role: models.RoleOperator}
	assert.NoError(t, db.Create(&operator).Error)

	tests := []struct {
		name           string
		auth0ID        string
		operation      string
		expectedStatus int
	}{
		{"operator may record stages", operator.Auth0ID, services.OpRecordStage, http.StatusOK},
		{"operator may not decide orders", operator.Auth0ID, services.OpDecideOrder, http.StatusForbidden},
		{"unknown identity has no profile", "auth0|ghost", services.OpRecordStage, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := requirePermissionRouter(tt.auth0ID, tt.operation)

			req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestRequirePermission_LoadsCurrentUser(t *testing.T) {
	db := setupAuthTestDB(t)
	config.SetDB(db)

	admin := models.User{Auth0ID: "auth0|admin1", Name: "Admin", Email: "admin@example.com", Role: models.RoleAdmin}
	assert.NoError(t, db.Create(&admin).Error)

	router := requirePermissionRouter(admin.Auth0ID, services.OpManageBranches)

	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, models.RoleAdmin, response["role"])
}
