package handlers

import (
	"net/http"

	"faculty-connect/internal/service"

	"github.com/gin-gonic/gin"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// SubmissionHandler handles the student-facing endpoints
type SubmissionHandler struct {
	selectionService *service.SelectionService
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(selectionService *service.SelectionService) *SubmissionHandler {
	return &SubmissionHandler{
		selectionService: selectionService,
	}
}

// Submit handles POST /api/v1/submissions. The workflow result is the
// response body: validation, duplicate, exhausted-slot and persistence
// failures all come back as 200 with success=false, mirroring the form
// contract. Only a malformed request is a 400.
func (h *SubmissionHandler) Submit(c *gin.Context) {
	var req service.SubmitRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid request format",
			Errors:  err.Error(),
		})
		return
	}

	result := h.selectionService.Submit(c.Request.Context(), &req)
	c.JSON(http.StatusOK, result)
}

// GetSlots handles GET /api/v1/slots
func (h *SubmissionHandler) GetSlots(c *gin.Context) {
	slots, err := h.selectionService.Slots(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, APIResponse{
			Success: false,
			Message: "Failed to retrieve slot availability",
			Errors:  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Slot availability retrieved successfully",
		Data:    map[string]interface{}{"slots": slots},
	})
}
