package httpkit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type jwtTestConfig struct{ secret string }

func (c jwtTestConfig) GetJWTAccessSecret() string { return c.secret }

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func accessClaims(userID uuid.UUID, role string) jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"sub":  userID.String(),
		"role": role,
		"type": "access",
		"iat":  now.Unix(),
		"exp":  now.Add(time.Hour).Unix(),
	}
}

func authTestRouter(handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/probe", AuthRequired(jwtTestConfig{secret: testSecret}), handler)
	return engine
}

func TestAuthRequiredAcceptsValidToken(t *testing.T) {
	userID := uuid.New()
	var got Identity

	engine := authTestRouter(func(c *gin.Context) {
		got = GetIdentity(c)
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, accessClaims(userID, RoleSalesperson)))
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
	if !got.IsAuthenticated() || got.UserID() != userID || got.Role() != RoleSalesperson {
		t.Fatalf("identity = %v/%s, want %s/%s", got.UserID(), got.Role(), userID, RoleSalesperson)
	}
}

func TestAuthRequiredRejections(t *testing.T) {
	userID := uuid.New()

	wrongType := accessClaims(userID, RoleCustomer)
	wrongType["type"] = "refresh"

	expired := accessClaims(userID, RoleCustomer)
	expired["exp"] = time.Now().Add(-time.Hour).Unix()

	noRole := accessClaims(userID, "")

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Token abc"},
		{"wrong secret", "Bearer " + signToken(t, "other-secret", accessClaims(userID, RoleCustomer))},
		{"wrong token type", "Bearer " + signToken(t, testSecret, wrongType)},
		{"expired", "Bearer " + signToken(t, testSecret, expired)},
		{"empty role", "Bearer " + signToken(t, testSecret, noRole)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine := authTestRouter(func(c *gin.Context) {
				t.Error("handler reached with invalid credentials")
			})

			req := httptest.NewRequest(http.MethodGet, "/probe", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", w.Code)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/admin",
		func(c *gin.Context) {
			c.Set(ContextUserIDKey, uuid.New())
			c.Set(ContextRoleKey, RoleSalesperson)
		},
		RequireRole(RoleAdmin),
		func(c *gin.Context) { c.Status(http.StatusNoContent) },
	)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestGetIdentityUnauthenticatedWithoutContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	if GetIdentity(c).IsAuthenticated() {
		t.Fatal("identity authenticated without context values")
	}
}
