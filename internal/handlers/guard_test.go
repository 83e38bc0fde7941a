package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/aulalink/lms-service/internal/auth"
	"github.com/aulalink/lms-service/internal/models"
)

type stubVerifier struct {
	identities map[string]*models.Identity
}

func (s *stubVerifier) Verify(token string) (*models.Identity, error) {
	if ident, ok := s.identities[token]; ok {
		return ident, nil
	}
	return nil, errors.New("invalid token")
}

type stubProfiles struct {
	profiles map[string]*models.Profile
}

func (s *stubProfiles) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	if p, ok := s.profiles[id]; ok {
		return p, nil
	}
	return nil, errors.New("not found")
}

func guardTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	verifier := &stubVerifier{identities: map[string]*models.Identity{
		"admin-token":     {ID: "a1", Email: "admin@example.com"},
		"teacher-token":   {ID: "t1", Email: "teacher@example.com"},
		"student-token":   {ID: "s1", Email: "student@example.com"},
		"orphan-token":    {ID: "ghost", Email: "ghost@example.com"},
		"uppercase-token": {ID: "t2", Email: "t2@example.com"},
	}}
	profiles := &stubProfiles{profiles: map[string]*models.Profile{
		"a1": {ID: "a1", Role: models.RoleAdmin},
		"t1": {ID: "t1", Role: models.RoleTeacher},
		"s1": {ID: "s1", Role: models.RoleStudent},
		"t2": {ID: "t2", Role: "DOCENTE"},
	}}

	am := NewAuthMiddleware(verifier, auth.NewResolver(profiles), "https://aulalink.dev/login")

	router := gin.New()
	api := router.Group("/api", am.Authenticate())
	api.GET("/admin-only", am.RequireRole(models.RoleAdmin), okHandler)
	api.GET("/teacher-only", am.RequireRole(models.RoleTeacher), okHandler)
	api.GET("/teacher-or-admin", am.RequireRole(models.RoleTeacher, models.RoleAdmin), okHandler)
	api.GET("/any", okHandler)
	return router
}

func okHandler(c *gin.Context) {
	actor, _ := getActor(c)
	c.JSON(http.StatusOK, gin.H{"actor": actor.ID})
}

func doGet(t *testing.T, router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGuardRejectsMissingToken(t *testing.T) {
	router := guardTestRouter()

	w := doGet(t, router, "/api/any", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "https://aulalink.dev/login" {
		t.Errorf("expected login redirect location, got %q", loc)
	}
}

func TestGuardRejectsInvalidToken(t *testing.T) {
	router := guardTestRouter()

	w := doGet(t, router, "/api/any", "forged-token")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestGuardRejectsIdentityWithoutProfile(t *testing.T) {
	router := guardTestRouter()

	// Valid token, but no profile row exists: fail closed.
	w := doGet(t, router, "/api/any", "orphan-token")
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestGuardDeniesTeacherOnAdminRoute(t *testing.T) {
	router := guardTestRouter()

	w := doGet(t, router, "/api/admin-only", "teacher-token")
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestGuardDeniesAdminOnTeacherOnlyRoute(t *testing.T) {
	router := guardTestRouter()

	// Membership is strict: the admin role grants nothing it is not
	// listed for.
	w := doGet(t, router, "/api/teacher-only", "admin-token")
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestGuardAdmitsListedRoles(t *testing.T) {
	router := guardTestRouter()

	for _, token := range []string{"teacher-token", "admin-token"} {
		w := doGet(t, router, "/api/teacher-or-admin", token)
		if w.Code != http.StatusOK {
			t.Errorf("token %s: expected 200, got %d", token, w.Code)
		}
	}

	w := doGet(t, router, "/api/teacher-or-admin", "student-token")
	if w.Code != http.StatusForbidden {
		t.Errorf("student: expected 403, got %d", w.Code)
	}
}

func TestGuardNormalizesStoredRole(t *testing.T) {
	router := guardTestRouter()

	// Role strings from the store are normalized before comparison.
	w := doGet(t, router, "/api/teacher-only", "uppercase-token")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for normalized role, got %d", w.Code)
	}
}
