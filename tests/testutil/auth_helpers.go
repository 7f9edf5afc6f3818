package testutil

import (
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BuildForSDGCohort2/Team-096-backend/config"
	"github.com/BuildForSDGCohort2/Team-096-backend/models"
	"github.com/BuildForSDGCohort2/Team-096-backend/services"
)

// TestJWTConfig returns a configuration suitable for signing and validating
// tokens in tests.
func TestJWTConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		JWTIssuer:          "gric-api",
		JWTAudience:        "gric-app",
		JWTExpirationHours: 1,
		AllowedOrigins:     []string{"http://localhost:3000"},
	}
}

// CreateUser registers a user through the service layer with the given role
// flags and returns it.
func CreateUser(t *testing.T, db *gorm.DB, email, password string, staff, superuser bool) *models.User {
	t.Helper()

	user, err := services.RegisterUser(db, services.RegisterInput{
		Email:    email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("Failed to create test user %s: %v", email, err)
	}

	if staff || superuser {
		user.IsStaff = staff
		user.IsSuperuser = superuser
		if err := db.Save(user).Error; err != nil {
			t.Fatalf("Failed to set role flags for %s: %v", email, err)
		}
	}

	return user
}

// BearerToken issues a real signed token for the user.
func BearerToken(t *testing.T, cfg *config.Config, user *models.User) string {
	t.Helper()

	token, err := services.IssueToken(cfg, user)
	if err != nil {
		t.Fatalf("Failed to issue token for %s: %v", user.Email, err)
	}
	return token
}

// SetMockAuthContext sets up a mock authenticated context the way the real
// middleware does after validating a token.
func SetMockAuthContext(c *gin.Context, userID uint) {
	c.Set("user_id", strconv.FormatUint(uint64(userID), 10))
}
