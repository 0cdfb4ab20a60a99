package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	feesapp "github.com/learn2pay/backend/internal/application/fees"
)

// StudentFeeHandler handles student fee ledger API endpoints
type StudentFeeHandler struct {
	BaseHandler
	ledgers *feesapp.StudentLedgerService
}

// NewStudentFeeHandler creates a new StudentFeeHandler
func NewStudentFeeHandler(ledgers *feesapp.StudentLedgerService) *StudentFeeHandler {
	return &StudentFeeHandler{
		ledgers: ledgers,
	}
}

// Create godoc
// @Summary      Open a student fee ledger
// @Description  Create a ledger for a student against a fee structure. The fee total is snapshotted at creation.
// @Tags         student-fees
// @Accept       json
// @Produce      json
// @Param        request body feesapp.CreateLedgerRequest true "Ledger creation request"
// @Success      201 {object} dto.Response{data=feesapp.LedgerResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /student-fees [post]
func (h *StudentFeeHandler) Create(c *gin.Context) {
	instituteID, err := getInstituteID(c)
	if err != nil {
		h.Unauthorized(c, "Institute context is required")
		return
	}

	var req feesapp.CreateLedgerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.CreatedBy = getUserID(c)

	ledger, err := h.ledgers.Create(c.Request.Context(), instituteID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, ledger)
}

// GetByID godoc
// @Summary      Get a student fee ledger by ID
// @Tags         student-fees
// @Produce      json
// @Param        id path string true "Ledger ID" format(uuid)
// @Success      200 {object} dto.Response{data=feesapp.LedgerResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /student-fees/{id} [get]
func (h *StudentFeeHandler) GetByID(c *gin.Context) {
	instituteID, err := getInstituteID(c)
	if err != nil {
		h.Unauthorized(c, "Institute context is required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid ledger ID format")
		return
	}

	ledger, err := h.ledgers.GetByID(c.Request.Context(), instituteID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, ledger)
}

// GetByRollNumber godoc
// @Summary      Get a student's ledger by roll number
// @Description  Looks up the current academic year's ledger, falling back to the most recent one
// @Tags         student-fees
// @Produce      json
// @Param        rollNumber path string true "Roll number"
// @Success      200 {object} dto.Response{data=feesapp.LedgerResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /student-fees/roll/{rollNumber} [get]
func (h *StudentFeeHandler) GetByRollNumber(c *gin.Context) {
	instituteID, err := getInstituteID(c)
	if err != nil {
		h.Unauthorized(c, "Institute context is required")
		return
	}

	rollNumber := c.Param("rollNumber")
	if rollNumber == "" {
		h.BadRequest(c, "Roll number is required")
		return
	}

	ledger, err := h.ledgers.GetByRollNumber(c.Request.Context(), instituteID, rollNumber)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, ledger)
}

// List godoc
// @Summary      List student fee ledgers
// @Tags         student-fees
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        payment_status query string false "Filter by payment status"
// @Param        class_name query string false "Filter by class"
// @Param        academic_year query string false "Filter by academic year"
// @Param        search query string false "Search student name, roll number or student ID"
// @Success      200 {object} dto.Response{data=[]feesapp.LedgerResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /student-fees [get]
func (h *StudentFeeHandler) List(c *gin.Context) {
	instituteID, err := getInstituteID(c)
	if err != nil {
		h.Unauthorized(c, "Institute context is required")
		return
	}

	var filter feesapp.LedgerListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PageSize == 0 {
		filter.PageSize = 20
	}

	list, total, err := h.ledgers.List(c.Request.Context(), instituteID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, list, total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update a student fee ledger
// @Description  Partially update editable ledger fields. Derived amounts and status cannot be set by clients.
// @Tags         student-fees
// @Accept       json
// @Produce      json
// @Param        id path string true "Ledger ID" format(uuid)
// @Param        request body feesapp.UpdateLedgerRequest true "Ledger update request"
// @Success      200 {object} dto.Response{data=feesapp.LedgerResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /student-fees/{id} [put]
func (h *StudentFeeHandler) Update(c *gin.Context) {
	instituteID, err := getInstituteID(c)
	if err != nil {
		h.Unauthorized(c, "Institute context is required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid ledger ID format")
		return
	}

	var req feesapp.UpdateLedgerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	ledger, err := h.ledgers.Update(c.Request.Context(), instituteID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, ledger)
}

// Delete godoc
// @Summary      Delete a student fee ledger
// @Tags         student-fees
// @Produce      json
// @Param        id path string true "Ledger ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /student-fees/{id} [delete]
func (h *StudentFeeHandler) Delete(c *gin.Context) {
	instituteID, err := getInstituteID(c)
	if err != nil {
		h.Unauthorized(c, "Institute context is required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid ledger ID format")
		return
	}

	if err := h.ledgers.Delete(c.Request.Context(), instituteID, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// RecordPayment godoc
// @Summary      Record a payment against a ledger
// @Description  Appends one payment. The amount must not exceed the pending balance; concurrent payments are serialized by optimistic locking.
// @Tags         student-fees
// @Accept       json
// @Produce      json
// @Param        id path string true "Ledger ID" format(uuid)
// @Param        request body feesapp.RecordPaymentRequest true "Payment request"
// @Success      200 {object} dto.Response{data=feesapp.LedgerResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /student-fees/{id}/payment [post]
func (h *StudentFeeHandler) RecordPayment(c *gin.Context) {
	instituteID, err := getInstituteID(c)
	if err != nil {
		h.Unauthorized(c, "Institute context is required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid ledger ID format")
		return
	}

	var req feesapp.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	ledger, err := h.ledgers.RecordPayment(c.Request.Context(), instituteID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, ledger)
}

// RecordPaymentByRollNumber godoc
// @Summary      Record a payment located by roll number
// @Description  The institute is taken from the authenticated token only; header and query fallbacks do not apply here.
// @Tags         student-fees
// @Accept       json
// @Produce      json
// @Param        request body feesapp.RecordPaymentByRollRequest true "Payment by roll number request"
// @Success      200 {object} dto.Response{data=feesapp.LedgerResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /student-fees/payment/by-roll-number [post]
func (h *StudentFeeHandler) RecordPaymentByRollNumber(c *gin.Context) {
	instituteID, err := getAuthInstituteID(c)
	if err != nil {
		h.Unauthorized(c, "Authenticated institute context is required")
		return
	}

	var req feesapp.RecordPaymentByRollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	ledger, err := h.ledgers.RecordPaymentByRollNumber(c.Request.Context(), instituteID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, ledger)
}

// PaymentHistory godoc
// @Summary      Get a student's payment history
// @Description  Flattens payments across all of the student's ledgers, newest first, annotated with year and class context
// @Tags         student-fees
// @Produce      json
// @Param        studentId path string true "Student ID"
// @Success      200 {object} dto.Response{data=[]feesapp.PaymentHistoryEntry}
// @Security     BearerAuth
// @Router       /student-fees/student/{studentId}/history [get]
func (h *StudentFeeHandler) PaymentHistory(c *gin.Context) {
	instituteID, err := getInstituteID(c)
	if err != nil {
		h.Unauthorized(c, "Institute context is required")
		return
	}

	studentID := c.Param("studentId")
	if studentID == "" {
		h.BadRequest(c, "Student ID is required")
		return
	}

	history, err := h.ledgers.PaymentHistory(c.Request.Context(), instituteID, studentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, history)
}
