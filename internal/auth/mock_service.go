package auth

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/blogworks/postapi/internal/models"
)

const mockTokenPrefix = "mock_token_"

// MockCall records a method call for assertion
type MockCall struct {
	Method string
	Args   []interface{}
}

// MockAuthService is a mock implementation of AuthServiceInterface for testing.
// Tokens it issues have the form "mock_token_<user id>".
type MockAuthService struct {
	mu sync.Mutex

	Calls []MockCall

	LoginFunc         func(req LoginRequest) (*AuthResponse, error)
	ValidateTokenFunc func(tokenString string) (*models.User, error)

	// Default error to return
	DefaultError error

	users     map[string]*models.User // keyed by username
	passwords map[string]string
}

// NewMockAuthService creates a new mock auth service with sensible defaults
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{
		Calls:     make([]MockCall, 0),
		users:     make(map[string]*models.User),
		passwords: make(map[string]string),
	}
}

func (m *MockAuthService) recordCall(method string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, MockCall{Method: method, Args: args})
}

// GetCallsForMethod returns calls for a specific method
func (m *MockAuthService) GetCallsForMethod(method string) []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []MockCall
	for _, call := range m.Calls {
		if call.Method == method {
			result = append(result, call)
		}
	}
	return result
}

// AddUser registers a user the mock will accept, returning a valid token for it
func (m *MockAuthService) AddUser(user *models.User, password string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.Username] = user
	m.passwords[user.Username] = password
	return MockToken(user.ID)
}

// MockToken returns the token the mock issues for userID
func MockToken(userID uint) string {
	return mockTokenPrefix + strconv.FormatUint(uint64(userID), 10)
}

func (m *MockAuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	m.recordCall("Login", req)
	if m.LoginFunc != nil {
		return m.LoginFunc(req)
	}
	if m.DefaultError != nil {
		return nil, m.DefaultError
	}

	m.mu.Lock()
	user, exists := m.users[req.Username]
	password := m.passwords[req.Username]
	m.mu.Unlock()

	if !exists || password != req.Password {
		return nil, ErrInvalidCredentials
	}

	return &AuthResponse{
		Token:      MockToken(user.ID),
		Expiration: time.Now().Add(3 * time.Hour).UTC(),
	}, nil
}

func (m *MockAuthService) ValidateToken(ctx context.Context, tokenString string) (*models.User, error) {
	m.recordCall("ValidateToken", tokenString)
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(tokenString)
	}
	if m.DefaultError != nil {
		return nil, m.DefaultError
	}

	if !strings.HasPrefix(tokenString, mockTokenPrefix) {
		return nil, ErrInvalidToken
	}
	id, err := strconv.ParseUint(strings.TrimPrefix(tokenString, mockTokenPrefix), 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.ID == uint(id) {
			return user, nil
		}
	}
	return nil, ErrUserNotFound
}

// Ensure MockAuthService implements AuthServiceInterface
var _ AuthServiceInterface = (*MockAuthService)(nil)
