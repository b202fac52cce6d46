package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-session/session/v3"

	"github.com/vendra/marketplace/auth"
	"github.com/vendra/marketplace/models"
)

const returnToKey = "return_to"

func dashboardFor(role models.Role) string {
	switch role {
	case models.RoleAdmin:
		return "/admin"
	case models.RoleVendor:
		return "/vendor"
	default:
		return "/"
	}
}

// surfaceRole maps an entry surface to the role it serves.
func surfaceRole(surface string) models.Role {
	switch surface {
	case "admin":
		return models.RoleAdmin
	case "vendor":
		return models.RoleVendor
	default:
		return models.RoleCustomer
	}
}

// HandleLoginPageGin serves the login entry surface for the given kind
// (generic, vendor, admin). An already-authenticated visitor with the
// matching role is redirected to their dashboard instead of re-seeing the
// form. The admin surface additionally reports a wrong-role sign-in and
// offers an explicit sign-out-then-retry affordance.
func (s *Server) HandleLoginPageGin(surface string) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := snapshot(c)
		want := surfaceRole(surface)
		if snap.Authenticated() && snap.Role == want {
			c.Redirect(http.StatusFound, dashboardFor(snap.Role))
			return
		}
		if surface == "admin" && snap.Authenticated() && snap.Role != want {
			c.JSON(http.StatusOK, gin.H{
				"page":         "admin_login",
				"state":        "wrong_role",
				"signed_in_as": snap.Identity.Email,
				"role":         snap.Role,
				"switch_url":   "/admin/login/switch",
			})
			return
		}
		// Stash the return target across the login round trip.
		if rt := c.Query(returnToKey); rt != "" && strings.HasPrefix(rt, "/") {
			if st, err := session.Start(c.Request.Context(), c.Writer, c.Request); err == nil {
				st.Set(returnToKey, rt)
				_ = st.Save()
			}
		}
		c.JSON(http.StatusOK, gin.H{"page": surface + "_login", "state": "form"})
	}
}

// HandleAPILoginGin authenticates credentials for an entry surface and opens
// a session. A successful sign-in whose resolved role does not match the
// surface still succeeds (the user is authenticated) but is pointed home
// rather than at the surface's dashboard.
func (s *Server) HandleAPILoginGin(surface string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "invalid JSON payload"})
			return
		}
		if strings.TrimSpace(payload.Email) == "" || payload.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "email and password are required"})
			return
		}
		client := s.newBackendClient()
		identity, err := client.SignInWithPassword(c.Request.Context(), payload.Email, payload.Password)
		if err != nil {
			var authErr *auth.AuthenticationError
			if errors.As(err, &authErr) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_grant", "error_description": authErr.Reason})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": err.Error()})
			return
		}
		rows, err := client.RoleAssignments(c.Request.Context(), identity.ID)
		role := models.RoleCustomer
		if err != nil {
			s.Logger.Printf("login: role resolution failed for %s, defaulting to customer: %v", identity.ID, err)
		} else {
			role = models.ResolveRole(rows)
		}
		s.setSessionCookie(c, client.Token())

		target := dashboardFor(role)
		if role != surfaceRole(surface) {
			target = s.paths.Home
		} else if st, err := session.Start(c.Request.Context(), c.Writer, c.Request); err == nil {
			if rt, ok := st.Get(returnToKey); ok {
				if rts, ok2 := rt.(string); ok2 && rts != "" {
					target = rts
					st.Delete(returnToKey)
					_ = st.Save()
				}
			}
		}
		c.JSON(http.StatusOK, gin.H{"identity": identity, "role": role, "redirect": target})
	}
}

// HandleAPISignupGin registers a new customer account and opens a session.
func (s *Server) HandleAPISignupGin(c *gin.Context) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "invalid JSON payload"})
		return
	}
	if strings.TrimSpace(payload.Email) == "" || len(payload.Password) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "email and a password of at least 8 characters are required"})
		return
	}
	client := s.newBackendClient()
	identity, err := client.SignUp(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		var authErr *auth.AuthenticationError
		if errors.As(err, &authErr) {
			c.JSON(http.StatusConflict, gin.H{"error": "invalid_request", "error_description": authErr.Reason})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": err.Error()})
		return
	}
	s.setSessionCookie(c, client.Token())
	// No role rows yet: resolution yields customer.
	c.JSON(http.StatusCreated, gin.H{"identity": identity, "role": models.RoleCustomer, "redirect": "/"})
}

// HandleAPILogoutGin destroys the session and clears the cookie. The local
// clear happens regardless of the backend round trip outcome.
func (s *Server) HandleAPILogoutGin(c *gin.Context) {
	token := requestToken(c.Request)
	s.clearSessionCookie(c)
	if token != "" {
		client := s.newBackendClient()
		if err := client.Restore(c.Request.Context(), token); err == nil {
			if err := client.SignOut(c.Request.Context()); err != nil {
				s.Logger.Printf("logout: %v", err)
			}
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "signed_out", "redirect": "/"})
}

// HandleAdminLoginSwitchGin is the sign-out-then-retry affordance on the
// admin login surface: it signs the wrong-role user out and points the
// browser back at the admin login form.
func (s *Server) HandleAdminLoginSwitchGin(c *gin.Context) {
	token := requestToken(c.Request)
	s.clearSessionCookie(c)
	if token != "" {
		client := s.newBackendClient()
		if err := client.Restore(c.Request.Context(), token); err == nil {
			if err := client.SignOut(c.Request.Context()); err != nil {
				s.Logger.Printf("admin login switch: %v", err)
			}
		}
	}
	c.JSON(http.StatusOK, gin.H{"state": "signed_out", "retry": s.paths.AdminLogin})
}

// HandleAPIRoleGin returns a freshly resolved role for the current identity,
// bypassing anything cached. Screens that need up-to-the-moment accuracy
// (e.g. the pending vendor application page) call this instead of trusting
// an earlier snapshot.
func (s *Server) HandleAPIRoleGin(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	rows, err := s.Roles.ListForIdentity(c.Request.Context(), identity.ID)
	if err != nil {
		s.Logger.Printf("role refresh failed for %s, defaulting to customer: %v", identity.ID, err)
		c.JSON(http.StatusOK, gin.H{"role": models.RoleCustomer, "degraded": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": models.ResolveRole(rows)})
}

// HandleAPIRedeemInviteGin redeems an invite code for the current identity.
func (s *Server) HandleAPIRedeemInviteGin(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	var payload struct {
		Code string `json:"code"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil || strings.TrimSpace(payload.Code) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "code is required"})
		return
	}
	role, err := s.Invites.Redeem(c.Request.Context(), strings.TrimSpace(payload.Code), identity.ID)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid_code", "error_description": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": role, "redirect": dashboardFor(role)})
}

func (s *Server) setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(SessionCookie, token, int(s.ttl.Seconds()), "/", "", false, true)
}

func (s *Server) clearSessionCookie(c *gin.Context) {
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
}
