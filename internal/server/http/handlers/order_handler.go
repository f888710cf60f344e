package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/papermart/papermart/internal/domain/model"
	"github.com/papermart/papermart/internal/server/http/dto"
	"github.com/papermart/papermart/internal/usecase"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.CreateOrder(c.Request.Context(), CurrentUserID(c), usecase.CreateOrderRequest{
		WordCount:      req.WordCount,
		Pages:          req.Pages,
		Subject:        model.Subject(req.Subject),
		AssignmentType: model.AssignmentType(req.AssignmentType),
		AcademicLevel:  model.AcademicLevel(req.AcademicLevel),
		Deadline:       req.Deadline,
		Description:    req.Description,
		UploadedFiles:  req.UploadedFiles,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toOrderResponse(order))
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	orderID, err := pathID(c, "id")
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.Order(c.Request.Context(), CurrentUserID(c), CurrentRole(c), orderID)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order))
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.facade.Orders(c.Request.Context(), CurrentUserID(c), CurrentRole(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		response = append(response, toOrderResponse(&orders[i]))
	}

	c.JSON(http.StatusOK, response)
}

// Accept handles POST /api/orders/:id/accept.
func (h *OrderHandler) Accept(c *gin.Context) {
	h.transition(c, h.facade.AcceptOrder)
}

// Reject handles POST /api/orders/:id/reject.
func (h *OrderHandler) Reject(c *gin.Context) {
	h.transition(c, h.facade.RejectOrder)
}

// Assign handles POST /api/orders/:id/assign.
func (h *OrderHandler) Assign(c *gin.Context) {
	orderID, err := pathID(c, "id")
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	var req dto.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.FreelancerID == 0 {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.AssignFreelancer(c.Request.Context(), orderID, req.FreelancerID)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) transition(c *gin.Context, op func(context.Context, int64) (*model.Order, error)) {
	orderID, err := pathID(c, "id")
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := op(c.Request.Context(), orderID)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order))
}

func pathID(c *gin.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

func toOrderResponse(order *model.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:             order.ID,
		CustomerID:     order.CustomerID,
		FreelancerID:   order.FreelancerID,
		Description:    order.Description,
		Subject:        string(order.Subject),
		AssignmentType: string(order.AssignmentType),
		AcademicLevel:  string(order.AcademicLevel),
		WordCount:      order.WordCount,
		Pages:          order.Pages,
		Deadline:       order.Deadline,
		Status:         string(order.EffectiveStatus()),
		Price:          float64(order.TotalPriceCents) / 100,
		IsPaid:         order.IsPaid,
		UploadedFiles:  order.UploadedFiles,
		CompletedFiles: order.CompletedFiles,
		CreatedAt:      order.CreatedAt,
	}
}
