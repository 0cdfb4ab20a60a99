package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	crmapp "github.com/learn2pay/backend/internal/application/crm"
)

// LeadHandler handles sales lead API endpoints
type LeadHandler struct {
	BaseHandler
	leads *crmapp.LeadService
}

// NewLeadHandler creates a new LeadHandler
func NewLeadHandler(leads *crmapp.LeadService) *LeadHandler {
	return &LeadHandler{
		leads: leads,
	}
}

// Create godoc
// @Summary      Create a lead
// @Description  Create a sales lead. The contact phone must be unique across all leads.
// @Tags         leads
// @Accept       json
// @Produce      json
// @Param        request body crmapp.CreateLeadRequest true "Lead creation request"
// @Success      201 {object} dto.Response{data=crmapp.LeadResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /leads [post]
func (h *LeadHandler) Create(c *gin.Context) {
	var req crmapp.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.CreatedBy = getUserID(c)

	lead, err := h.leads.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, lead)
}

// GetByID godoc
// @Summary      Get lead by ID
// @Tags         leads
// @Produce      json
// @Param        id path string true "Lead ID" format(uuid)
// @Success      200 {object} dto.Response{data=crmapp.LeadResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /leads/{id} [get]
func (h *LeadHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid lead ID format")
		return
	}

	lead, err := h.leads.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, lead)
}

// List godoc
// @Summary      List leads
// @Tags         leads
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        stage query string false "Filter by pipeline stage"
// @Param        from query string false "Created-from date (YYYY-MM-DD)"
// @Param        to query string false "Created-to date (YYYY-MM-DD)"
// @Param        search query string false "Search lead name, institute name, phone or email"
// @Success      200 {object} dto.Response{data=[]crmapp.LeadResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /leads [get]
func (h *LeadHandler) List(c *gin.Context) {
	var filter crmapp.LeadListFilter
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

	list, total, err := h.leads.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, list, total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update a lead
// @Description  Partially update a lead. Changing the phone re-checks uniqueness; any change refreshes the last activity date.
// @Tags         leads
// @Accept       json
// @Produce      json
// @Param        id path string true "Lead ID" format(uuid)
// @Param        request body crmapp.UpdateLeadRequest true "Lead update request"
// @Success      200 {object} dto.Response{data=crmapp.LeadResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /leads/{id} [put]
func (h *LeadHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid lead ID format")
		return
	}

	var req crmapp.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	lead, err := h.leads.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, lead)
}

// UpdateStage godoc
// @Summary      Move a lead through the pipeline
// @Description  Sets the lead's stage. Converted stamps the conversion date; Lost requires a reason.
// @Tags         leads
// @Accept       json
// @Produce      json
// @Param        id path string true "Lead ID" format(uuid)
// @Param        request body crmapp.UpdateLeadStageRequest true "Stage update request"
// @Success      200 {object} dto.Response{data=crmapp.LeadResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /leads/{id}/stage [patch]
func (h *LeadHandler) UpdateStage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid lead ID format")
		return
	}

	var req crmapp.UpdateLeadStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	lead, err := h.leads.UpdateStage(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, lead)
}

// Delete godoc
// @Summary      Delete a lead
// @Tags         leads
// @Produce      json
// @Param        id path string true "Lead ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /leads/{id} [delete]
func (h *LeadHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid lead ID format")
		return
	}

	if err := h.leads.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
