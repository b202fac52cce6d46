package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vendra/marketplace/models"
	"github.com/vendra/marketplace/store"
)

// HandleAdminListApplicationsGin lists pending vendor applications.
func (s *Server) HandleAdminListApplicationsGin(c *gin.Context) {
	apps, err := s.Applications.ListPending(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps})
}

// HandleAdminReviewApplicationGin approves or rejects a vendor application.
// Approval grants the vendor role row transactionally; the applicant picks it
// up on their next role refresh.
func (s *Server) HandleAdminReviewApplicationGin(approve bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := snapshot(c)
		var payload struct {
			Note string `json:"note"`
		}
		_ = c.ShouldBindJSON(&payload)
		var err error
		if approve {
			err = s.Applications.Approve(c.Request.Context(), c.Param("id"), snap.Identity.ID, payload.Note)
		} else {
			err = s.Applications.Reject(c.Request.Context(), c.Param("id"), snap.Identity.ID, payload.Note)
		}
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "error_description": "application not found"})
		case errors.Is(err, store.ErrApplicationClosed):
			c.JSON(http.StatusConflict, gin.H{"error": "already_reviewed", "error_description": err.Error()})
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": err.Error()})
		default:
			c.JSON(http.StatusOK, gin.H{"status": "reviewed"})
		}
	}
}

// HandleAdminCreateInviteGin mints a role-granting invite code.
func (s *Server) HandleAdminCreateInviteGin(c *gin.Context) {
	snap := snapshot(c)
	var payload struct {
		Role      models.Role `json:"role"`
		ExpiresIn string      `json:"expires_in"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "invalid JSON payload"})
		return
	}
	if payload.Role == "" {
		payload.Role = models.RoleAdmin
	}
	if !payload.Role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "unknown role"})
		return
	}
	var expiresAt *time.Time
	if payload.ExpiresIn != "" {
		d, err := time.ParseDuration(payload.ExpiresIn)
		if err != nil || d <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "expires_in must be a positive duration"})
			return
		}
		t := time.Now().UTC().Add(d)
		expiresAt = &t
	}
	code, err := s.Invites.Create(c.Request.Context(), snap.Identity.ID, payload.Role, expiresAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, code)
}

// HandleAdminListInvitesGin lists all invite codes.
func (s *Server) HandleAdminListInvitesGin(c *gin.Context) {
	codes, err := s.Invites.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"invites": codes})
}

// HandleAdminRunPayoutsGin materializes pending payouts for a period.
func (s *Server) HandleAdminRunPayoutsGin(c *gin.Context) {
	var payload struct {
		PeriodStart time.Time `json:"period_start"`
		PeriodEnd   time.Time `json:"period_end"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil || payload.PeriodStart.IsZero() || payload.PeriodEnd.IsZero() || !payload.PeriodEnd.After(payload.PeriodStart) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "period_start and period_end are required, end after start"})
		return
	}
	payouts, err := s.Payouts.CreateForPeriod(c.Request.Context(), payload.PeriodStart, payload.PeriodEnd, s.Config.CommissionRateBps())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"payouts": payouts})
}

// HandleAdminMarkPayoutPaidGin settles a pending payout.
func (s *Server) HandleAdminMarkPayoutPaidGin(c *gin.Context) {
	err := s.Payouts.MarkPaid(c.Request.Context(), c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "error_description": "payout not found or already paid"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "paid"})
}

// HandleAdminEarningsGin reports per-vendor earnings over a period, for the
// settlement review screen.
func (s *Server) HandleAdminEarningsGin(c *gin.Context) {
	start, err1 := time.Parse(time.RFC3339, c.Query("period_start"))
	end, err2 := time.Parse(time.RFC3339, c.Query("period_end"))
	if err1 != nil || err2 != nil || !end.After(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "period_start and period_end must be RFC3339, end after start"})
		return
	}
	earnings, err := s.Payouts.VendorEarnings(c.Request.Context(), start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"earnings": earnings})
}

// HandleAdminUpsertPageGin creates or updates a CMS page.
func (s *Server) HandleAdminUpsertPageGin(c *gin.Context) {
	snap := snapshot(c)
	var payload struct {
		Title     string `json:"title"`
		Body      string `json:"body"`
		Published bool   `json:"published"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil || strings.TrimSpace(payload.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "title is required"})
		return
	}
	err := s.Pages.Upsert(c.Request.Context(), models.Page{
		Slug:      c.Param("slug"),
		Title:     payload.Title,
		Body:      payload.Body,
		Published: payload.Published,
		UpdatedBy: snap.Identity.ID,
	})
	if errors.Is(err, gorm.ErrInvalidData) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "slug and title are required"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}

// HandleAdminListPagesGin lists all CMS pages including drafts.
func (s *Server) HandleAdminListPagesGin(c *gin.Context) {
	pages, err := s.Pages.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pages": pages})
}

// HandleAdminDeletePageGin removes a CMS page.
func (s *Server) HandleAdminDeletePageGin(c *gin.Context) {
	if err := s.Pages.Delete(c.Request.Context(), c.Param("slug")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// HandleAdminRevokeRoleGin removes a role assignment (moderation action).
func (s *Server) HandleAdminRevokeRoleGin(c *gin.Context) {
	var payload struct {
		IdentityID string      `json:"identity_id"`
		Role       models.Role `json:"role"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil || payload.IdentityID == "" || !payload.Role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "identity_id and a valid role are required"})
		return
	}
	if err := s.Roles.Revoke(c.Request.Context(), payload.IdentityID, payload.Role); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "revoked"})
}
