package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	feesapp "github.com/learn2pay/backend/internal/application/fees"
)

// FeeStructureHandler handles fee-structure API endpoints
type FeeStructureHandler struct {
	BaseHandler
	feeStructures *feesapp.FeeStructureService
}

// NewFeeStructureHandler creates a new FeeStructureHandler
func NewFeeStructureHandler(feeStructures *feesapp.FeeStructureService) *FeeStructureHandler {
	return &FeeStructureHandler{
		feeStructures: feeStructures,
	}
}

// Create godoc
// @Summary      Create a fee structure
// @Description  Create a class-level fee structure for the caller's institute. The total fee is derived server-side.
// @Tags         fee-structures
// @Accept       json
// @Produce      json
// @Param        request body feesapp.CreateFeeStructureRequest true "Fee structure creation request"
// @Success      201 {object} dto.Response{data=feesapp.FeeStructureResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /fee-structures [post]
func (h *FeeStructureHandler) Create(c *gin.Context) {
	instituteID, err := getInstituteID(c)
	if err != nil {
		h.Unauthorized(c, "Institute context is required")
		return
	}

	var req feesapp.CreateFeeStructureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.CreatedBy = getUserID(c)

	fs, err := h.feeStructures.Create(c.Request.Context(), instituteID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, fs)
}

// GetByID godoc
// @Summary      Get fee structure by ID
// @Tags         fee-structures
// @Produce      json
// @Param        id path string true "Fee structure ID" format(uuid)
// @Success      200 {object} dto.Response{data=feesapp.FeeStructureResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /fee-structures/{id} [get]
func (h *FeeStructureHandler) GetByID(c *gin.Context) {
	instituteID, err := getInstituteID(c)
	if err != nil {
		h.Unauthorized(c, "Institute context is required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid fee structure ID format")
		return
	}

	fs, err := h.feeStructures.GetByID(c.Request.Context(), instituteID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, fs)
}

// List godoc
// @Summary      List fee structures
// @Description  List the caller institute's fee structures, optionally filtered by class and academic year
// @Tags         fee-structures
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        class_name query string false "Filter by class"
// @Param        academic_year query string false "Filter by academic year"
// @Success      200 {object} dto.Response{data=[]feesapp.FeeStructureResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /fee-structures [get]
func (h *FeeStructureHandler) List(c *gin.Context) {
	instituteID, err := getInstituteID(c)
	if err != nil {
		h.Unauthorized(c, "Institute context is required")
		return
	}

	var filter feesapp.FeeStructureListFilter
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

	list, total, err := h.feeStructures.List(c.Request.Context(), instituteID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, list, total, filter.Page, filter.PageSize)
}

// ListByInstitute godoc
// @Summary      List fee structures for an explicit institute
// @Description  Same as the list endpoint but the institute comes from the path instead of the auth context
// @Tags         fee-structures
// @Produce      json
// @Param        instituteId path string true "Institute ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]feesapp.FeeStructureResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /fee-structures/institute/{instituteId} [get]
func (h *FeeStructureHandler) ListByInstitute(c *gin.Context) {
	instituteID, err := uuid.Parse(c.Param("instituteId"))
	if err != nil {
		h.BadRequest(c, "Invalid institute ID format")
		return
	}

	var filter feesapp.FeeStructureListFilter
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

	list, total, err := h.feeStructures.List(c.Request.Context(), instituteID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, list, total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update a fee structure
// @Description  Partially update a fee structure. The total fee is recomputed from the updated components.
// @Tags         fee-structures
// @Accept       json
// @Produce      json
// @Param        id path string true "Fee structure ID" format(uuid)
// @Param        request body feesapp.UpdateFeeStructureRequest true "Fee structure update request"
// @Success      200 {object} dto.Response{data=feesapp.FeeStructureResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /fee-structures/{id} [put]
func (h *FeeStructureHandler) Update(c *gin.Context) {
	instituteID, err := getInstituteID(c)
	if err != nil {
		h.Unauthorized(c, "Institute context is required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid fee structure ID format")
		return
	}

	var req feesapp.UpdateFeeStructureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	fs, err := h.feeStructures.Update(c.Request.Context(), instituteID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, fs)
}

// Delete godoc
// @Summary      Delete a fee structure
// @Description  Hard-delete a fee structure. Existing ledgers keep their snapshot amounts.
// @Tags         fee-structures
// @Produce      json
// @Param        id path string true "Fee structure ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /fee-structures/{id} [delete]
func (h *FeeStructureHandler) Delete(c *gin.Context) {
	instituteID, err := getInstituteID(c)
	if err != nil {
		h.Unauthorized(c, "Institute context is required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid fee structure ID format")
		return
	}

	if err := h.feeStructures.Delete(c.Request.Context(), instituteID, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
