package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vendra/marketplace/models"
	"github.com/vendra/marketplace/store"
)

// HandleVendorApplyGin files a vendor application for the current customer.
func (s *Server) HandleVendorApplyGin(c *gin.Context) {
	snap := snapshot(c)
	var payload struct {
		ShopName    string `json:"shop_name"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil || strings.TrimSpace(payload.ShopName) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "shop_name is required"})
		return
	}
	app, err := s.Applications.Submit(c.Request.Context(), snap.Identity.ID, payload.ShopName, payload.Description)
	if err != nil {
		if errors.Is(err, gorm.ErrInvalidData) {
			c.JSON(http.StatusConflict, gin.H{"error": "invalid_request", "error_description": "an application is already pending"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, app)
}

// HandleVendorApplicationGin returns the customer's latest application along
// with a freshly resolved role, so the pending screen notices an approval
// that happened while the tab was open.
func (s *Server) HandleVendorApplicationGin(c *gin.Context) {
	snap := snapshot(c)
	app, err := s.Applications.GetForIdentity(c.Request.Context(), snap.Identity.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": err.Error()})
		return
	}
	role := models.RoleCustomer
	rows, err := s.Roles.ListForIdentity(c.Request.Context(), snap.Identity.ID)
	if err != nil {
		s.Logger.Printf("application status: role refresh failed for %s: %v", snap.Identity.ID, err)
	} else {
		role = models.ResolveRole(rows)
	}
	c.JSON(http.StatusOK, gin.H{"application": app, "role": role})
}

// HandleVendorListProductsGin lists the vendor's own products.
func (s *Server) HandleVendorListProductsGin(c *gin.Context) {
	snap := snapshot(c)
	products, err := s.Products.ListByVendor(c.Request.Context(), snap.Identity.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// HandleVendorCreateProductGin creates a product owned by the vendor.
func (s *Server) HandleVendorCreateProductGin(c *gin.Context) {
	snap := snapshot(c)
	var payload struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Category    string `json:"category"`
		PriceCents  int64  `json:"price_cents"`
		Stock       int    `json:"stock"`
		Publish     bool   `json:"publish"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "invalid JSON payload"})
		return
	}
	status := models.ProductDraft
	if payload.Publish {
		status = models.ProductPublished
	}
	p, err := s.Products.Create(c.Request.Context(), models.Product{
		VendorID:    snap.Identity.ID,
		Name:        payload.Name,
		Description: payload.Description,
		Category:    payload.Category,
		PriceCents:  payload.PriceCents,
		Stock:       payload.Stock,
		Status:      status,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrInvalidData) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "name and a non-negative price are required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, p)
}

// HandleVendorUpdateProductGin edits one of the vendor's products.
func (s *Server) HandleVendorUpdateProductGin(c *gin.Context) {
	snap := snapshot(c)
	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "invalid JSON payload"})
		return
	}
	updates := map[string]interface{}{}
	for _, k := range []string{"name", "description", "category", "price_cents", "stock", "status"} {
		if v, ok := payload[k]; ok {
			updates[k] = v
		}
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "no editable fields in payload"})
		return
	}
	err := s.Products.Update(c.Request.Context(), snap.Identity.ID, c.Param("id"), updates)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "error_description": "product not found"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// HandleVendorDeleteProductGin removes one of the vendor's products.
func (s *Server) HandleVendorDeleteProductGin(c *gin.Context) {
	snap := snapshot(c)
	err := s.Products.Delete(c.Request.Context(), snap.Identity.ID, c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "error_description": "product not found"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// HandleVendorListOrdersGin lists orders containing the vendor's items.
func (s *Server) HandleVendorListOrdersGin(c *gin.Context) {
	snap := snapshot(c)
	orders, err := s.Orders.ListForVendor(c.Request.Context(), snap.Identity.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// HandleVendorUpdateOrderStatusGin moves an order along its lifecycle. Only
// orders containing the vendor's items are visible; a cancellation returns
// the reserved units to stock.
func (s *Server) HandleVendorUpdateOrderStatusGin(c *gin.Context) {
	snap := snapshot(c)
	var payload struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil || payload.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "status is required"})
		return
	}
	orderID := c.Param("id")
	err := s.Orders.UpdateStatus(c.Request.Context(), orderID, snap.Identity.ID, payload.Status)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "error_description": "order not found"})
	case errors.Is(err, store.ErrBadTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "invalid_transition", "error_description": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": err.Error()})
	default:
		if payload.Status == models.OrderCancelled {
			s.restockOrder(c, orderID)
		}
		c.JSON(http.StatusOK, gin.H{"status": "updated"})
	}
}

// restockOrder returns a cancelled order's units to product stock. Failures
// are logged, not surfaced: the cancellation itself has already committed.
func (s *Server) restockOrder(c *gin.Context, orderID string) {
	items, err := s.Orders.Items(c.Request.Context(), orderID)
	if err != nil {
		s.Logger.Printf("restock: list items for order %s: %v", orderID, err)
		return
	}
	for _, it := range items {
		if err := s.Products.AdjustStock(c.Request.Context(), it.ProductID, it.Quantity); err != nil {
			s.Logger.Printf("restock: product %s +%d: %v", it.ProductID, it.Quantity, err)
		}
	}
}

// HandleVendorListPayoutsGin returns the vendor's settlement history.
func (s *Server) HandleVendorListPayoutsGin(c *gin.Context) {
	snap := snapshot(c)
	payouts, err := s.Payouts.ListForVendor(c.Request.Context(), snap.Identity.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payouts": payouts})
}
