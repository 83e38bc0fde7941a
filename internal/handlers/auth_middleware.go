package handlers

import (
	"net/http"
	"strings"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"

	"github.com/aulalink/lms-service/internal/auth"
	"github.com/aulalink/lms-service/internal/config"
	"github.com/aulalink/lms-service/internal/models"
	"github.com/aulalink/lms-service/internal/services"
)

// TokenVerifier validates a bearer token and returns the identity it
// carries.
type TokenVerifier interface {
	Verify(token string) (*models.Identity, error)
}

// CasdoorTokenVerifier validates JWTs issued by the auth provider.
type CasdoorTokenVerifier struct {
	client *casdoorsdk.Client
}

func NewCasdoorTokenVerifier(cfg config.CasdoorConfig) *CasdoorTokenVerifier {
	client := casdoorsdk.NewClient(
		cfg.Endpoint,
		cfg.ClientID,
		cfg.ClientSecret,
		cfg.Cert,
		cfg.Organization,
		cfg.Application,
	)
	return &CasdoorTokenVerifier{client: client}
}

func (v *CasdoorTokenVerifier) Verify(token string) (*models.Identity, error) {
	claims, err := v.client.ParseJwtToken(token)
	if err != nil {
		return nil, err
	}
	return &models.Identity{ID: claims.User.Id, Email: claims.User.Email}, nil
}

// AuthMiddleware resolves the caller's session into a role before any
// route guard runs. The token only establishes identity; the role comes
// from the profile row, resolved fresh per request.
type AuthMiddleware struct {
	verifier TokenVerifier
	resolver *auth.Resolver
	loginURL string
}

func NewAuthMiddleware(verifier TokenVerifier, resolver *auth.Resolver, loginURL string) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		resolver: resolver,
		loginURL: loginURL,
	}
}

// Authenticate requires a valid bearer token and an existing profile.
// Every failure path denies: a missing token, an invalid token, and an
// identity without a profile row all stop the request.
func (am *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			am.denyUnauthenticated(c, "missing bearer token")
			return
		}

		identity, err := am.verifier.Verify(token)
		if err != nil {
			am.denyUnauthenticated(c, "invalid token")
			return
		}

		resolution := am.resolver.Resolve(c.Request.Context(), auth.Session{Identity: identity})
		switch resolution.State {
		case auth.StateAuthorized:
			c.Set("actor", services.Actor{ID: resolution.Profile.ID, Role: resolution.Role})
			c.Set("profile", resolution.Profile)
			c.Next()
		case auth.StateNoProfile:
			c.JSON(http.StatusForbidden, ErrorResponse{
				Message: "Forbidden",
				Details: "no profile exists for this identity",
			})
			c.Abort()
		default:
			am.denyUnauthenticated(c, "unauthenticated")
		}
	}
}

// RequireRole admits only the listed roles. Membership is strict: an
// admin reaches a teacher route only if the route lists the admin role.
func (am *AuthMiddleware) RequireRole(required ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := getActor(c)
		if !ok {
			am.denyUnauthenticated(c, "unauthenticated")
			return
		}

		for _, role := range required {
			if actor.Role == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Forbidden",
			Details: "insufficient role for this route",
		})
		c.Abort()
	}
}

func (am *AuthMiddleware) denyUnauthenticated(c *gin.Context, reason string) {
	if am.loginURL != "" {
		c.Header("Location", am.loginURL)
	}
	c.JSON(http.StatusUnauthorized, ErrorResponse{
		Message: "Unauthorized",
		Details: reason,
	})
	c.Abort()
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
