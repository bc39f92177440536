package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campus-tools/feedback_backend/internal/auth"
	"github.com/campus-tools/feedback_backend/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockJWTService implements auth.JWTService for testing
type MockJWTService struct {
	ValidToken   string
	ValidClaims  *auth.Claims
	ExpiredError bool
}

func (m *MockJWTService) GenerateAccessToken(userID, departmentID, staffID, role string) (string, time.Time, error) {
	return m.ValidToken, time.Now().Add(time.Hour), nil
}

func (m *MockJWTService) GenerateRefreshToken(userID string) (string, error) {
	return "refresh-token", nil
}

func (m *MockJWTService) GenerateTokenPair(userID, departmentID, staffID, role string) (*auth.TokenPair, error) {
	return &auth.TokenPair{
		AccessToken:  m.ValidToken,
		RefreshToken: "refresh-token",
		ExpiresAt:    time.Now().Add(time.Hour),
		ExpiresIn:    3600,
	}, nil
}

func (m *MockJWTService) ValidateAccessToken(tokenString string) (*auth.Claims, error) {
	if m.ExpiredError {
		return nil, auth.ErrTokenExpired
	}
	if tokenString == "" || tokenString != m.ValidToken {
		return nil, auth.ErrInvalidToken
	}
	return m.ValidClaims, nil
}

func (m *MockJWTService) ValidateRefreshToken(tokenString string) (*auth.RefreshClaims, error) {
	return nil, auth.ErrInvalidToken
}

func hodClaims() *auth.Claims {
	return &auth.Claims{
		UserID:       "65f000000000000000000001",
		DepartmentID: "65f000000000000000000002",
		StaffID:      "65f000000000000000000003",
		Role:         "HOD",
	}
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		authHeader string
		expired    bool
		wantStatus int
	}{
		{"valid token", "Bearer valid-token", false, http.StatusOK},
		{"missing header", "", false, http.StatusUnauthorized},
		{"wrong scheme", "Basic valid-token", false, http.StatusUnauthorized},
		{"malformed header", "Bearer", false, http.StatusUnauthorized},
		{"unknown token", "Bearer other-token", false, http.StatusUnauthorized},
		{"expired token", "Bearer valid-token", true, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &MockJWTService{
				ValidToken:   "valid-token",
				ValidClaims:  hodClaims(),
				ExpiredError: tt.expired,
			}

			router := gin.New()
			router.GET("/protected", AuthMiddleware(mock), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest("GET", "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestAuthMiddleware_SetsContext(t *testing.T) {
	mock := &MockJWTService{ValidToken: "valid-token", ValidClaims: hodClaims()}

	router := gin.New()
	router.GET("/protected", AuthMiddleware(mock), func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok || userID.Hex() != "65f000000000000000000001" {
			t.Errorf("GetUserID = %v, %v", userID, ok)
		}
		deptID, ok := GetDepartmentID(c)
		if !ok || deptID.Hex() != "65f000000000000000000002" {
			t.Errorf("GetDepartmentID = %v, %v", deptID, ok)
		}
		staffID, ok := GetStaffID(c)
		if !ok || staffID.Hex() != "65f000000000000000000003" {
			t.Errorf("GetStaffID = %v, %v", staffID, ok)
		}
		role, ok := GetRole(c)
		if !ok || role != models.UserRoleHOD {
			t.Errorf("GetRole = %v, %v", role, ok)
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		middleware gin.HandlerFunc
		wantStatus int
	}{
		{"hod passes hod gate", "HOD", RequireHOD(), http.StatusOK},
		{"student fails hod gate", "STUDENT", RequireHOD(), http.StatusForbidden},
		{"faculty passes staff gate", "FACULTY", RequireStaff(), http.StatusOK},
		{"hod passes staff gate", "HOD", RequireStaff(), http.StatusOK},
		{"student passes student gate", "STUDENT", RequireStudent(), http.StatusOK},
		{"faculty fails student gate", "FACULTY", RequireStudent(), http.StatusForbidden},
		{"lowercase role accepted", "hod", RequireHOD(), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/x", func(c *gin.Context) {
				c.Set(ContextKeyRole, tt.role)
			}, tt.middleware, func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest("GET", "/x", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestRequireRole_NoRoleInContext(t *testing.T) {
	router := gin.New()
	router.GET("/x", RequireHOD(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/x", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", w.Code, http.StatusForbidden)
	}
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/x", func(c *gin.Context) {
		if GetRequestID(c) == "" {
			t.Error("expected request ID in context")
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/x", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID response header")
	}
}

func TestRequestID_PropagatesHeader(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest("GET", "/x", nil)
	req.Header.Set("X-Request-ID", "client-supplied-id")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "client-supplied-id" {
		t.Errorf("X-Request-ID = %q, want %q", got, "client-supplied-id")
	}
}

func TestCORS_Preflight(t *testing.T) {
	router := gin.New()
	router.Use(CORS([]string{"http://localhost:3000"}))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest("OPTIONS", "/x", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != 204 {
		t.Errorf("preflight status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Allow-Origin = %q", got)
	}
}
