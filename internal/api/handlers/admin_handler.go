package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	domain "faculty-connect/internal/domain/selection"
	"faculty-connect/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler handles the dashboard endpoints. Authorization happens in
// middleware before these run.
type AdminHandler struct {
	adminService *service.AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// ListSubmissions handles GET /api/v1/admin/submissions
func (h *AdminHandler) ListSubmissions(c *gin.Context) {
	rows, err := h.adminService.ListSubmissions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, APIResponse{
			Success: false,
			Message: "Failed to retrieve submissions",
			Errors:  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Submissions retrieved successfully",
		Data:    map[string]interface{}{"submissions": rows},
	})
}

// ExportSubmissions handles GET /api/v1/admin/submissions/export
func (h *AdminHandler) ExportSubmissions(c *gin.Context) {
	data, err := h.adminService.ExportCSV(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, APIResponse{
			Success: false,
			Message: "Failed to export submissions",
			Errors:  err.Error(),
		})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="submissions.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}

// DeleteSubmission handles DELETE /api/v1/admin/submissions/:roll_number.
// Responds 200 on full restoration, 207 when the deletion succeeded but
// some slot restorations failed, 404 when the roll number has no
// submission.
func (h *AdminHandler) DeleteSubmission(c *gin.Context) {
	rollNumber := c.Param("roll_number")

	result, err := h.adminService.DeleteSubmission(c.Request.Context(), rollNumber)
	if err != nil {
		if errors.Is(err, domain.ErrSubmissionNotFound) {
			c.JSON(http.StatusNotFound, APIResponse{
				Success: false,
				Message: fmt.Sprintf("No submission found for roll number %s", rollNumber),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, APIResponse{
			Success: false,
			Message: "Failed to delete submission",
			Errors:  err.Error(),
		})
		return
	}

	if result.Partial() {
		c.JSON(http.StatusMultiStatus, APIResponse{
			Success: false,
			Message: fmt.Sprintf("Submission deleted for %s, but restoring failed for: %s",
				rollNumber, strings.Join(result.Failed, ", ")),
			Data: result,
		})
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: fmt.Sprintf("Successfully deleted submission for %s and restored faculty slots", rollNumber),
		Data:    result,
	})
}

// ResetSlots handles POST /api/v1/admin/slots/reset
func (h *AdminHandler) ResetSlots(c *gin.Context) {
	if err := h.adminService.ResetSlots(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, APIResponse{
			Success: false,
			Message: "Failed to reset slots",
			Errors:  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "All faculty slots have been reset to their initial values",
	})
}
