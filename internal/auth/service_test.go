package auth

import (
	"context"
	"testing"
	"time"

	"github.com/blogworks/postapi/internal/models"
	"github.com/blogworks/postapi/internal/testutil"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// AuthServiceTestSuite contains auth service tests
type AuthServiceTestSuite struct {
	suite.Suite
	db          *gorm.DB
	authService *Service
	ctx         context.Context
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.db = testutil.NewDB(suite.T())
	suite.authService = NewService(suite.db, []byte("test_jwt_secret_key"), time.Hour)
	suite.ctx = context.Background()
}

func (suite *AuthServiceTestSuite) TestCreateUserHashesPassword() {
	t := suite.T()

	user, err := suite.authService.CreateUser(suite.ctx, "editor", "s3cret-pass")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)

	_, err = suite.authService.CreateUser(suite.ctx, "editor", "other")
	assert.ErrorIs(t, err, ErrUserExists)

	_, err = suite.authService.CreateUser(suite.ctx, "  ", "pw")
	assert.Error(t, err)
}

func (suite *AuthServiceTestSuite) TestLogin() {
	t := suite.T()

	_, err := suite.authService.CreateUser(suite.ctx, "admin", "correct-horse")
	require.NoError(t, err)

	resp, err := suite.authService.Login(suite.ctx, LoginRequest{Username: "admin", Password: "correct-horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), resp.Expiration, 5*time.Second)

	_, err = suite.authService.Login(suite.ctx, LoginRequest{Username: "admin", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = suite.authService.Login(suite.ctx, LoginRequest{Username: "nobody", Password: "correct-horse"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func (suite *AuthServiceTestSuite) TestValidateToken() {
	t := suite.T()

	created, err := suite.authService.CreateUser(suite.ctx, "writer", "pw-writer")
	require.NoError(t, err)

	resp, err := suite.authService.GenerateToken(created)
	require.NoError(t, err)

	user, err := suite.authService.ValidateToken(suite.ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.Equal(t, "writer", user.Username)
}

func (suite *AuthServiceTestSuite) TestValidateTokenRejectsExpired() {
	t := suite.T()

	created, err := suite.authService.CreateUser(suite.ctx, "late", "pw")
	require.NoError(t, err)

	suite.authService.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	resp, err := suite.authService.GenerateToken(created)
	require.NoError(t, err)
	suite.authService.now = time.Now

	_, err = suite.authService.ValidateToken(suite.ctx, resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func (suite *AuthServiceTestSuite) TestValidateTokenRejectsForeignSecret() {
	t := suite.T()

	created, err := suite.authService.CreateUser(suite.ctx, "victim", "pw")
	require.NoError(t, err)

	other := NewService(suite.db, []byte("another_secret"), time.Hour)
	resp, err := other.GenerateToken(created)
	require.NoError(t, err)

	_, err = suite.authService.ValidateToken(suite.ctx, resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func (suite *AuthServiceTestSuite) TestValidateTokenRejectsOtherAlgorithms() {
	t := suite.T()

	claims := Claims{
		Username: "x",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = suite.authService.ValidateToken(suite.ctx, unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = suite.authService.ValidateToken(suite.ctx, "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func (suite *AuthServiceTestSuite) TestValidateTokenForDeletedUser() {
	t := suite.T()

	resp, err := suite.authService.GenerateToken(&models.User{ID: 999, Username: "ghost"})
	require.NoError(t, err)

	_, err = suite.authService.ValidateToken(suite.ctx, resp.Token)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func (suite *AuthServiceTestSuite) TestEnsureAdmin() {
	t := suite.T()

	require.NoError(t, suite.authService.EnsureAdmin(suite.ctx, "admin", "first"))
	require.NoError(t, suite.authService.EnsureAdmin(suite.ctx, "admin", "second"))

	var count int64
	suite.db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(1), count)

	_, err := suite.authService.Login(suite.ctx, LoginRequest{Username: "admin", Password: "first"})
	assert.NoError(t, err)

	require.NoError(t, suite.authService.EnsureAdmin(suite.ctx, "", ""))
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func TestMockAuthService(t *testing.T) {
	mock := NewMockAuthService()
	token := mock.AddUser(&models.User{ID: 4, Username: "mocked"}, "pw")

	resp, err := mock.Login(context.Background(), LoginRequest{Username: "mocked", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, token, resp.Token)

	user, err := mock.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, uint(4), user.ID)

	_, err = mock.ValidateToken(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Len(t, mock.GetCallsForMethod("ValidateToken"), 2)
}
