package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vendra/marketplace/models"
	"github.com/vendra/marketplace/store"
)

// HandleListProductsGin serves the public storefront listing with
// filter/sort/paginate applied client-style over published products.
func (s *Server) HandleListProductsGin(c *gin.Context) {
	products, err := s.Products.ListPublished(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": err.Error()})
		return
	}
	maxPrice, _ := strconv.ParseInt(c.Query("max_price"), 10, 64)
	page, _ := strconv.Atoi(c.Query("page"))
	perPage, _ := strconv.Atoi(c.Query("per_page"))
	q := models.ProductQuery{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		MaxPrice: maxPrice,
		SortBy:   c.Query("sort"),
		Page:     page,
		PerPage:  perPage,
	}
	c.JSON(http.StatusOK, models.ApplyProductQuery(products, q))
}

// HandleGetProductGin serves one published product.
func (s *Server) HandleGetProductGin(c *gin.Context) {
	p, err := s.Products.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "error_description": "product not found"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": err.Error()})
		return
	}
	if p.Status != models.ProductPublished {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "error_description": "product not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// HandleGetPageGin serves a published CMS page by slug.
func (s *Server) HandleGetPageGin(c *gin.Context) {
	page, err := s.Pages.GetPublished(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": err.Error()})
		return
	}
	if page == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "error_description": "page not found"})
		return
	}
	c.JSON(http.StatusOK, page)
}

// HandleGetCartGin returns the current customer's cart with totals.
func (s *Server) HandleGetCartGin(c *gin.Context) {
	snap := snapshot(c)
	cart, err := s.Carts.Get(c.Request.Context(), snap.Identity.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart, "totals": cart.Totals(s.Config.CommissionRateBps())})
}

// HandleAddCartItemGin adds a published product to the cart, capturing the
// price at add time.
func (s *Server) HandleAddCartItemGin(c *gin.Context) {
	snap := snapshot(c)
	var payload struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil || payload.ProductID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "product_id is required"})
		return
	}
	if payload.Quantity <= 0 {
		payload.Quantity = 1
	}
	p, err := s.Products.GetByID(c.Request.Context(), payload.ProductID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && p.Status != models.ProductPublished) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "error_description": "product not found"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": err.Error()})
		return
	}
	cart, err := s.Carts.Get(c.Request.Context(), snap.Identity.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": err.Error()})
		return
	}
	cart.Upsert(models.CartItem{
		ProductID:  p.ID,
		VendorID:   p.VendorID,
		Name:       p.Name,
		PriceCents: p.PriceCents,
		Quantity:   payload.Quantity,
	})
	if err := s.Carts.Save(c.Request.Context(), snap.Identity.ID, cart); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart, "totals": cart.Totals(s.Config.CommissionRateBps())})
}

// HandleRemoveCartItemGin drops a line from the cart.
func (s *Server) HandleRemoveCartItemGin(c *gin.Context) {
	snap := snapshot(c)
	cart, err := s.Carts.Get(c.Request.Context(), snap.Identity.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": err.Error()})
		return
	}
	cart.Remove(c.Param("productId"))
	if err := s.Carts.Save(c.Request.Context(), snap.Identity.ID, cart); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart, "totals": cart.Totals(s.Config.CommissionRateBps())})
}

// HandleCheckoutGin turns the cart into an order and empties the cart.
func (s *Server) HandleCheckoutGin(c *gin.Context) {
	snap := snapshot(c)
	cart, err := s.Carts.Get(c.Request.Context(), snap.Identity.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": err.Error()})
		return
	}
	order, err := s.Orders.CreateFromCart(c.Request.Context(), snap.Identity.ID, cart, s.Config.CommissionRateBps())
	if err != nil {
		switch {
		case errors.Is(err, store.ErrEmptyCart):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "cart is empty"})
		case errors.Is(err, store.ErrInsufficientStock):
			c.JSON(http.StatusConflict, gin.H{"error": "out_of_stock", "error_description": "one or more items are out of stock"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": err.Error()})
		}
		return
	}
	if err := s.Carts.Delete(c.Request.Context(), snap.Identity.ID); err != nil {
		s.Logger.Printf("checkout: clear cart for %s: %v", snap.Identity.ID, err)
	}
	c.JSON(http.StatusCreated, order)
}

// HandleGetOrderGin returns one of the customer's orders with its item lines.
func (s *Server) HandleGetOrderGin(c *gin.Context) {
	snap := snapshot(c)
	order, err := s.Orders.GetForCustomer(c.Request.Context(), snap.Identity.ID, c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "error_description": "order not found"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": err.Error()})
		return
	}
	items, err := s.Orders.Items(c.Request.Context(), order.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order, "items": items})
}

// HandleListOrdersGin returns the customer's order history.
func (s *Server) HandleListOrdersGin(c *gin.Context) {
	snap := snapshot(c)
	orders, err := s.Orders.ListForCustomer(c.Request.Context(), snap.Identity.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}
