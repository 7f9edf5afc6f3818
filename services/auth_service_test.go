package services

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"github.com/BuildForSDGCohort2/Team-096-backend/config"
	"github.com/BuildForSDGCohort2/Team-096-backend/models"
)

func testAuthConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		JWTIssuer:          "gric-api",
		JWTAudience:        "gric-app",
		JWTExpirationHours: 1,
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	assert.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, CheckPassword(hash, "correct horse battery staple"))
	assert.False(t, CheckPassword(hash, "wrong password"))
	assert.False(t, CheckPassword("not-a-hash", "anything"))
}

func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	cfg := testAuthConfig()

	_, err := RegisterUser(db, RegisterInput{
		Email:    "login@example.com",
		Password: "s3cretpass",
	})
	assert.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{
			name:     "valid credentials",
			email:    "login@example.com",
			password: "s3cretpass",
		},
		{
			name:     "wrong password",
			email:    "login@example.com",
			password: "wrongpass",
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "unknown email",
			email:    "nobody@example.com",
			password: "s3cretpass",
			wantErr:  ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, token, err := Login(db, cfg, tt.email, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.email, user.Email)
				assert.NotEmpty(t, token)
			}
		})
	}
}

func TestLogin_InactiveAccount(t *testing.T) {
	db := setupTestDB(t)
	cfg := testAuthConfig()

	user, err := RegisterUser(db, RegisterInput{
		Email:    "inactive@example.com",
		Password: "s3cretpass",
	})
	assert.NoError(t, err)

	assert.NoError(t, db.Model(user).Update("is_active", false).Error)

	_, _, err = Login(db, cfg, "inactive@example.com", "s3cretpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestIssueToken_Claims(t *testing.T) {
	cfg := testAuthConfig()
	user := &models.User{
		ID:          42,
		Email:       "claims@example.com",
		IsStaff:     true,
		IsSuperuser: false,
	}

	tokenString, err := IssueToken(cfg, user)
	assert.NoError(t, err)

	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	assert.NoError(t, err)
	assert.True(t, parsed.Valid)

	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "42", claims["sub"])
	assert.Equal(t, "claims@example.com", claims["email"])
	assert.Equal(t, true, claims["is_staff"])
	assert.Equal(t, false, claims["is_superuser"])
	assert.Equal(t, "gric-api", claims["iss"])
	assert.Equal(t, "gric-app", claims["aud"])
}

func TestIssueToken_RejectedWithWrongSecret(t *testing.T) {
	cfg := testAuthConfig()
	user := &models.User{ID: 1, Email: "x@example.com"}

	tokenString, err := IssueToken(cfg, user)
	assert.NoError(t, err)

	_, err = jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte("some-other-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	assert.Error(t, err)
}
