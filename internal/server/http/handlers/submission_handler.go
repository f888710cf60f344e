package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/papermart/papermart/internal/domain/model"
	"github.com/papermart/papermart/internal/server/http/dto"
	"github.com/papermart/papermart/internal/usecase"
)

// SubmissionHandler manages freelancer deliveries and admin review.
type SubmissionHandler struct {
	facade SubmissionFacade
}

// NewSubmissionHandler constructs SubmissionHandler.
func NewSubmissionHandler(facade SubmissionFacade) *SubmissionHandler {
	return &SubmissionHandler{facade: facade}
}

// Submit handles POST /api/orders/:id/submissions.
func (h *SubmissionHandler) Submit(c *gin.Context) {
	orderID, err := pathID(c, "id")
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	var req dto.SubmitWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	submission, err := h.facade.SubmitWork(c.Request.Context(), CurrentUserID(c), usecase.SubmitWorkRequest{
		OrderID:  orderID,
		FileRefs: req.FileRefs,
		Comment:  req.Comment,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toSubmissionResponse(submission))
}

// List handles GET /api/orders/:id/submissions.
func (h *SubmissionHandler) List(c *gin.Context) {
	orderID, err := pathID(c, "id")
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	submissions, err := h.facade.OrderSubmissions(c.Request.Context(), orderID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	if len(submissions) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.SubmissionResponse, 0, len(submissions))
	for i := range submissions {
		response = append(response, toSubmissionResponse(&submissions[i]))
	}

	c.JSON(http.StatusOK, response)
}

// Approve handles POST /api/submissions/:id/approve.
func (h *SubmissionHandler) Approve(c *gin.Context) {
	submissionID, err := pathID(c, "id")
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	submission, err := h.facade.ApproveSubmission(c.Request.Context(), submissionID)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, toSubmissionResponse(submission))
}

// Reject handles POST /api/submissions/:id/reject.
func (h *SubmissionHandler) Reject(c *gin.Context) {
	submissionID, err := pathID(c, "id")
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	var req dto.RejectSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	submission, err := h.facade.RejectSubmission(c.Request.Context(), submissionID, req.Feedback)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, toSubmissionResponse(submission))
}

func toSubmissionResponse(sub *model.Submission) dto.SubmissionResponse {
	return dto.SubmissionResponse{
		ID:            sub.ID,
		OrderID:       sub.OrderID,
		FreelancerID:  sub.FreelancerID,
		FileRefs:      sub.FileRefs,
		Status:        string(sub.Status),
		AdminFeedback: sub.AdminFeedback,
		IsDelivered:   sub.IsDelivered,
		CreatedAt:     sub.CreatedAt,
	}
}
