package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	identityapp "github.com/learn2pay/backend/internal/application/identity"
)

// InstituteUserHandler handles institute staff account API endpoints
type InstituteUserHandler struct {
	BaseHandler
	users *identityapp.UserService
}

// NewInstituteUserHandler creates a new InstituteUserHandler
func NewInstituteUserHandler(users *identityapp.UserService) *InstituteUserHandler {
	return &InstituteUserHandler{
		users: users,
	}
}

// Create godoc
// @Summary      Create a staff account
// @Description  Create an institute staff account. The email must be unique within the institute.
// @Tags         institute-users
// @Accept       json
// @Produce      json
// @Param        request body identityapp.CreateUserRequest true "Account creation request"
// @Success      201 {object} dto.Response{data=identityapp.UserResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /institute-users [post]
func (h *InstituteUserHandler) Create(c *gin.Context) {
	instituteID, err := getInstituteID(c)
	if err != nil {
		h.Unauthorized(c, "Institute context is required")
		return
	}

	var req identityapp.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	user, err := h.users.Create(c.Request.Context(), instituteID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, user)
}

// List godoc
// @Summary      List staff accounts
// @Tags         institute-users
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        role query string false "Filter by role"
// @Param        status query string false "Filter by status"
// @Param        search query string false "Search name or email"
// @Success      200 {object} dto.Response{data=[]identityapp.UserResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /institute-users [get]
func (h *InstituteUserHandler) List(c *gin.Context) {
	instituteID, err := getInstituteID(c)
	if err != nil {
		h.Unauthorized(c, "Institute context is required")
		return
	}

	var filter identityapp.UserListFilter
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

	list, total, err := h.users.List(c.Request.Context(), instituteID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, list, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @Summary      Get a staff account by ID
// @Tags         institute-users
// @Produce      json
// @Param        userId path string true "User ID" format(uuid)
// @Success      200 {object} dto.Response{data=identityapp.UserResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /institute-users/{userId} [get]
func (h *InstituteUserHandler) GetByID(c *gin.Context) {
	instituteID, err := getInstituteID(c)
	if err != nil {
		h.Unauthorized(c, "Institute context is required")
		return
	}

	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), instituteID, userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, user)
}

// Update godoc
// @Summary      Update a staff account
// @Description  Partially update an account. An empty password leaves the stored hash untouched.
// @Tags         institute-users
// @Accept       json
// @Produce      json
// @Param        userId path string true "User ID" format(uuid)
// @Param        request body identityapp.UpdateUserRequest true "Account update request"
// @Success      200 {object} dto.Response{data=identityapp.UserResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /institute-users/{userId} [put]
func (h *InstituteUserHandler) Update(c *gin.Context) {
	instituteID, err := getInstituteID(c)
	if err != nil {
		h.Unauthorized(c, "Institute context is required")
		return
	}

	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	var req identityapp.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	user, err := h.users.Update(c.Request.Context(), instituteID, userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, user)
}

// SetStatus godoc
// @Summary      Set a staff account's status
// @Description  Writes the given status (Active or Inactive) directly rather than toggling.
// @Tags         institute-users
// @Accept       json
// @Produce      json
// @Param        userId path string true "User ID" format(uuid)
// @Param        request body identityapp.SetStatusRequest true "Status request"
// @Success      200 {object} dto.Response{data=identityapp.UserResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /institute-users/{userId}/status [put]
func (h *InstituteUserHandler) SetStatus(c *gin.Context) {
	instituteID, err := getInstituteID(c)
	if err != nil {
		h.Unauthorized(c, "Institute context is required")
		return
	}

	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	var req identityapp.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	user, err := h.users.SetStatus(c.Request.Context(), instituteID, userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, user)
}

// Delete godoc
// @Summary      Delete a staff account
// @Tags         institute-users
// @Produce      json
// @Param        userId path string true "User ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /institute-users/{userId} [delete]
func (h *InstituteUserHandler) Delete(c *gin.Context) {
	instituteID, err := getInstituteID(c)
	if err != nil {
		h.Unauthorized(c, "Institute context is required")
		return
	}

	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	if err := h.users.Delete(c.Request.Context(), instituteID, userID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Login godoc
// @Summary      Staff login
// @Description  Verifies credentials within the institute resolved from the X-Institute-ID header or institute_id query parameter, stamps the last login and issues a JWT.
// @Tags         institute-users
// @Accept       json
// @Produce      json
// @Param        X-Institute-ID header string true "Institute ID" format(uuid)
// @Param        request body identityapp.LoginRequest true "Login request"
// @Success      200 {object} dto.Response{data=identityapp.LoginResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /institute-users/login [post]
func (h *InstituteUserHandler) Login(c *gin.Context) {
	instituteID, err := getInstituteID(c)
	if err != nil {
		h.Unauthorized(c, "Institute context is required")
		return
	}

	var req identityapp.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.users.Login(c.Request.Context(), instituteID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}
