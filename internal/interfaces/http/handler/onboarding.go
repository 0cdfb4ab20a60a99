package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	activityapp "github.com/learn2pay/backend/internal/application/activity"
	onboardingapp "github.com/learn2pay/backend/internal/application/onboarding"
	"github.com/learn2pay/backend/internal/domain/activity"
)

// OnboardingHandler handles onboarding case API endpoints
type OnboardingHandler struct {
	BaseHandler
	cases      *onboardingapp.CaseService
	activities *activityapp.QueryService
}

// NewOnboardingHandler creates a new OnboardingHandler
func NewOnboardingHandler(cases *onboardingapp.CaseService, activities *activityapp.QueryService) *OnboardingHandler {
	return &OnboardingHandler{
		cases:      cases,
		activities: activities,
	}
}

// listCasesQuery binds the list/stats query string. AssignedTo stays a
// string here and is parsed to a UUID before it reaches the service.
type listCasesQuery struct {
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	Stage      string     `form:"stage"`
	AssignedTo string     `form:"assigned_to"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
	Search     string     `form:"search"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (q listCasesQuery) toFilter() (onboardingapp.CaseListFilter, error) {
	filter := onboardingapp.CaseListFilter{
		Page:     q.Page,
		PageSize: q.PageSize,
		Stage:    q.Stage,
		From:     q.From,
		To:       q.To,
		Search:   q.Search,
		OrderBy:  q.OrderBy,
		OrderDir: q.OrderDir,
	}
	if q.AssignedTo != "" {
		assignee, err := uuid.Parse(q.AssignedTo)
		if err != nil {
			return filter, err
		}
		filter.AssignedTo = &assignee
	}
	return filter, nil
}

// Create godoc
// @Summary      Start an onboarding case
// @Description  Open an onboarding for a converted lead. All phase task maps start in their initial states.
// @Tags         onboarding
// @Accept       json
// @Produce      json
// @Param        request body onboardingapp.CreateCaseRequest true "Case creation request"
// @Success      201 {object} dto.Response{data=onboardingapp.CaseResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /onboarding [post]
func (h *OnboardingHandler) Create(c *gin.Context) {
	var req onboardingapp.CreateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.ActingUser = getUserID(c)

	created, err := h.cases.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, created)
}

// GetByID godoc
// @Summary      Get onboarding case by ID
// @Tags         onboarding
// @Produce      json
// @Param        id path string true "Case ID" format(uuid)
// @Success      200 {object} dto.Response{data=onboardingapp.CaseResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /onboarding/{id} [get]
func (h *OnboardingHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid case ID format")
		return
	}

	found, err := h.cases.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, found)
}

// List godoc
// @Summary      List onboarding cases
// @Tags         onboarding
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        stage query string false "Filter by stage"
// @Param        assigned_to query string false "Filter by assignee" format(uuid)
// @Param        search query string false "Search institute name"
// @Success      200 {object} dto.Response{data=[]onboardingapp.CaseResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /onboarding [get]
func (h *OnboardingHandler) List(c *gin.Context) {
	var query listCasesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter, err := query.toFilter()
	if err != nil {
		h.BadRequest(c, "Invalid assignee ID format")
		return
	}
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PageSize == 0 {
		filter.PageSize = 20
	}

	list, total, err := h.cases.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, list, total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update an onboarding case
// @Description  Generic partial update. Field changes are diffed into the activity feed; stage changes get their own entry.
// @Tags         onboarding
// @Accept       json
// @Produce      json
// @Param        id path string true "Case ID" format(uuid)
// @Param        request body onboardingapp.UpdateCaseRequest true "Case update request"
// @Success      200 {object} dto.Response{data=onboardingapp.CaseResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /onboarding/{id} [put]
func (h *OnboardingHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid case ID format")
		return
	}

	var req onboardingapp.UpdateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.ActingUser = getUserID(c)

	updated, err := h.cases.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, updated)
}

// UpdateDocument godoc
// @Summary      Update one document's verification status
// @Description  Moves the named document through Pending, Submitted, Verified or Rejected. Rejection requires a reason.
// @Tags         onboarding
// @Accept       json
// @Produce      json
// @Param        id path string true "Case ID" format(uuid)
// @Param        key path string true "Document key"
// @Param        request body onboardingapp.UpdateDocumentRequest true "Document status update"
// @Success      200 {object} dto.Response{data=onboardingapp.CaseResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /onboarding/{id}/documents/{key} [put]
func (h *OnboardingHandler) UpdateDocument(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid case ID format")
		return
	}

	var req onboardingapp.UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.ActingUser = getUserID(c)

	updated, err := h.cases.UpdateDocument(c.Request.Context(), id, c.Param("key"), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, updated)
}

// UpdateTechnical godoc
// @Summary      Update one technical setup task
// @Tags         onboarding
// @Accept       json
// @Produce      json
// @Param        id path string true "Case ID" format(uuid)
// @Param        key path string true "Setup task key"
// @Param        request body onboardingapp.UpdateTechnicalRequest true "Setup status update"
// @Success      200 {object} dto.Response{data=onboardingapp.CaseResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /onboarding/{id}/technical/{key} [put]
func (h *OnboardingHandler) UpdateTechnical(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid case ID format")
		return
	}

	var req onboardingapp.UpdateTechnicalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.ActingUser = getUserID(c)

	updated, err := h.cases.UpdateTechnical(c.Request.Context(), id, c.Param("key"), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, updated)
}

// ScheduleTraining godoc
// @Summary      Schedule a training session
// @Tags         onboarding
// @Accept       json
// @Produce      json
// @Param        id path string true "Case ID" format(uuid)
// @Param        key path string true "Training session key"
// @Param        request body onboardingapp.ScheduleTrainingRequest true "Training schedule request"
// @Success      200 {object} dto.Response{data=onboardingapp.CaseResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /onboarding/{id}/training/{key}/schedule [post]
func (h *OnboardingHandler) ScheduleTraining(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid case ID format")
		return
	}

	var req onboardingapp.ScheduleTrainingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.ActingUser = getUserID(c)

	updated, err := h.cases.ScheduleTraining(c.Request.Context(), id, c.Param("key"), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, updated)
}

// CompleteTraining godoc
// @Summary      Complete a training session
// @Tags         onboarding
// @Accept       json
// @Produce      json
// @Param        id path string true "Case ID" format(uuid)
// @Param        key path string true "Training session key"
// @Param        request body onboardingapp.CompleteTrainingRequest true "Training completion request"
// @Success      200 {object} dto.Response{data=onboardingapp.CaseResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /onboarding/{id}/training/{key}/complete [post]
func (h *OnboardingHandler) CompleteTraining(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid case ID format")
		return
	}

	var req onboardingapp.CompleteTrainingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.ActingUser = getUserID(c)

	updated, err := h.cases.CompleteTraining(c.Request.Context(), id, c.Param("key"), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, updated)
}

// UpdateTesting godoc
// @Summary      Update one test task
// @Description  Moves the named test through Pending, In Progress, Passed or Failed. Passed counts toward overall progress.
// @Tags         onboarding
// @Accept       json
// @Produce      json
// @Param        id path string true "Case ID" format(uuid)
// @Param        key path string true "Test task key"
// @Param        request body onboardingapp.UpdateTestingRequest true "Test status update"
// @Success      200 {object} dto.Response{data=onboardingapp.CaseResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /onboarding/{id}/testing/{key} [put]
func (h *OnboardingHandler) UpdateTesting(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid case ID format")
		return
	}

	var req onboardingapp.UpdateTestingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.ActingUser = getUserID(c)

	updated, err := h.cases.UpdateTesting(c.Request.Context(), id, c.Param("key"), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, updated)
}

// UpdateGoLive godoc
// @Summary      Update the go-live block
// @Description  Writes the cut-over status, schedule and readiness flags. Completed stamps the actual date and finishes the last progress task.
// @Tags         onboarding
// @Accept       json
// @Produce      json
// @Param        id path string true "Case ID" format(uuid)
// @Param        request body onboardingapp.UpdateGoLiveRequest true "Go-live update"
// @Success      200 {object} dto.Response{data=onboardingapp.CaseResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /onboarding/{id}/golive [put]
func (h *OnboardingHandler) UpdateGoLive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid case ID format")
		return
	}

	var req onboardingapp.UpdateGoLiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.ActingUser = getUserID(c)

	updated, err := h.cases.UpdateGoLive(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, updated)
}

// AddMilestone godoc
// @Summary      Add a milestone
// @Tags         onboarding
// @Accept       json
// @Produce      json
// @Param        id path string true "Case ID" format(uuid)
// @Param        request body onboardingapp.AddMilestoneRequest true "Milestone request"
// @Success      200 {object} dto.Response{data=onboardingapp.CaseResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /onboarding/{id}/milestones [post]
func (h *OnboardingHandler) AddMilestone(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid case ID format")
		return
	}

	var req onboardingapp.AddMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.ActingUser = getUserID(c)

	updated, err := h.cases.AddMilestone(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, updated)
}

// Hold godoc
// @Summary      Put an onboarding on hold
// @Description  A held case keeps its progress but cannot complete until the hold is released.
// @Tags         onboarding
// @Accept       json
// @Produce      json
// @Param        id path string true "Case ID" format(uuid)
// @Param        request body onboardingapp.HoldRequest true "Hold request"
// @Success      200 {object} dto.Response{data=onboardingapp.CaseResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /onboarding/{id}/hold [put]
func (h *OnboardingHandler) Hold(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid case ID format")
		return
	}

	var req onboardingapp.HoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.ActingUser = getUserID(c)

	updated, err := h.cases.PutOnHold(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, updated)
}

// ReleaseHold godoc
// @Summary      Release an onboarding hold
// @Description  Re-derives the stage from task state; a fully done case completes on release.
// @Tags         onboarding
// @Produce      json
// @Param        id path string true "Case ID" format(uuid)
// @Success      200 {object} dto.Response{data=onboardingapp.CaseResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /onboarding/{id}/hold [delete]
func (h *OnboardingHandler) ReleaseHold(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid case ID format")
		return
	}

	updated, err := h.cases.ReleaseHold(c.Request.Context(), id, getUserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, updated)
}

// ListActivities godoc
// @Summary      List an onboarding case's activity feed
// @Tags         onboarding
// @Produce      json
// @Param        id path string true "Case ID" format(uuid)
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]activityapp.ActivityResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /onboarding/{id}/activities [get]
func (h *OnboardingHandler) ListActivities(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid case ID format")
		return
	}

	var filter activityapp.ActivityListFilter
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

	list, total, err := h.activities.ListByEntity(c.Request.Context(), activity.EntityKindOnboarding, id, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, list, total, filter.Page, filter.PageSize)
}

// Stats godoc
// @Summary      Onboarding dashboard statistics
// @Description  Aggregates the pipeline: counts, stage histogram, progress and contract value spreads, completion rate.
// @Tags         onboarding
// @Produce      json
// @Param        stage query string false "Filter by stage"
// @Param        assigned_to query string false "Filter by assignee" format(uuid)
// @Success      200 {object} dto.Response{data=onboardingapp.DashboardStats}
// @Security     BearerAuth
// @Router       /onboarding/stats [get]
func (h *OnboardingHandler) Stats(c *gin.Context) {
	var query listCasesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter, err := query.toFilter()
	if err != nil {
		h.BadRequest(c, "Invalid assignee ID format")
		return
	}

	stats, err := h.cases.Stats(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, stats)
}
