package auth_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"werewolf/auth"
	"werewolf/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(token string, scope string) (string, error) {
	args := m.Called(token, scope)
	return args.String(0), args.Error(1)
}

func TestRequireScope(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	testCases := []struct {
		description  string
		header       string
		setupMocks   func(m *MockVerifier)
		expectedCode int
		expectedBody string
	}{
		{
			description:  "no header",
			setupMocks:   func(m *MockVerifier) {},
			expectedCode: http.StatusUnauthorized,
			expectedBody: auth.ErrMissingTokenStr,
		},
		{
			description:  "not a bearer token",
			header:       "Basic abc",
			setupMocks:   func(m *MockVerifier) {},
			expectedCode: http.StatusUnauthorized,
			expectedBody: auth.ErrMissingTokenStr,
		},
		{
			description: "valid",
			header:      "Bearer good",
			setupMocks: func(m *MockVerifier) {
				m.On("Verify", "good", "rooms").Return("bot", nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: "bot",
		},
		{
			description: "expired",
			header:      "Bearer old",
			setupMocks: func(m *MockVerifier) {
				m.On("Verify", "old", "rooms").Return("", domain.ErrExpiredToken)
			},
			expectedCode: http.StatusUnauthorized,
			expectedBody: auth.ErrExpiredTokenStr,
		},
		{
			description: "forged",
			header:      "Bearer forged",
			setupMocks: func(m *MockVerifier) {
				m.On("Verify", "forged", "rooms").Return("", domain.ErrInvalidTokenSignature)
			},
			expectedCode: http.StatusUnauthorized,
			expectedBody: domain.ErrInvalidToken.Error(),
		},
		{
			description: "missing scope",
			header:      "Bearer player",
			setupMocks: func(m *MockVerifier) {
				m.On("Verify", "player", "rooms").Return("", domain.ErrMissingScope)
			},
			expectedCode: http.StatusForbidden,
			expectedBody: auth.ErrForbiddenStr,
		},
		{
			description: "unexpected",
			header:      "Bearer weird",
			setupMocks: func(m *MockVerifier) {
				m.On("Verify", "weird", "rooms").Return("", errors.New("boom"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedBody: auth.ErrUnknownStr,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			t.Parallel()
			verifier := &MockVerifier{}
			tc.setupMocks(verifier)

			r := gin.New()
			r.GET("/", auth.RequireScope(verifier, "rooms", 0), func(ctx *gin.Context) {
				ctx.String(http.StatusOK, ctx.GetString(auth.SubjectKey))
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.expectedCode, w.Code)
			assert.Equal(t, tc.expectedBody, w.Body.String())
			verifier.AssertExpectations(t)
		})
	}
}
