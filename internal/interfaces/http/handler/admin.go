package handler

import (
	"github.com/atelier/marketplace/internal/application/admin"
	"github.com/atelier/marketplace/internal/application/identity"
	"github.com/gin-gonic/gin"
)

// UserListRequest holds the query of GET /admin/users
type UserListRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search" binding:"max=100"`
	Role     string `form:"role" binding:"omitempty,oneof=customer professional admin"`
	Status   string `form:"status" binding:"omitempty,oneof=active suspended"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SuspendUserRequest is the body of POST /admin/users/:id/suspend
type SuspendUserRequest struct {
	Reason string `json:"reason" binding:"required,min=3,max=500"`
}

// AdminHandler serves user administration, system settings and the audit trail
type AdminHandler struct {
	BaseHandler
	users    *identity.UserAdminService
	settings *admin.SettingsService
	audit    *admin.AuditService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(users *identity.UserAdminService, settings *admin.SettingsService, audit *admin.AuditService) *AdminHandler {
	return &AdminHandler{users: users, settings: settings, audit: audit}
}

// ListUsers godoc
// @Summary      List users
// @Description  List users
// @Tags         admin-users
// @Produce      json
// @Param        search query string false "Email or name search"
// @Param        role query string false "Role" Enums(customer, professional, admin)
// @Param        status query string false "Status" Enums(active, suspended)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Sort field"
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} dto.Response{data=[]identity.UserInfo,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var req UserListRequest
	if !h.BindQuery(c, &req) {
		return
	}
	page, err := h.users.ListUsers(c.Request.Context(), identity.UserListFilter{
		Page:     req.Page,
		PageSize: req.PageSize,
		Search:   req.Search,
		Role:     req.Role,
		Status:   req.Status,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paged(c, page)
}

// SuspendUser godoc
// @Summary      Suspend user
// @Description  Suspend an account and revoke its sessions. Admin accounts cannot be suspended.
// @Tags         admin-users
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Param        request body SuspendUserRequest true "Suspension reason"
// @Success      200 {object} dto.Response{data=identity.UserInfo}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/users/{id}/suspend [post]
func (h *AdminHandler) SuspendUser(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	var req SuspendUserRequest
	if !h.BindJSON(c, &req) {
		return
	}
	user, err := h.users.SuspendUser(c.Request.Context(), identity.SuspendUserInput{UserID: id, Reason: req.Reason})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// ReactivateUser godoc
// @Summary      Reactivate user
// @Description  Reactivate user
// @Tags         admin-users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} dto.Response{data=identity.UserInfo}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/users/{id}/reactivate [post]
func (h *AdminHandler) ReactivateUser(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	user, err := h.users.ReactivateUser(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// ListSettings godoc
// @Summary      List settings
// @Description  List settings
// @Tags         admin-settings
// @Produce      json
// @Success      200 {object} dto.Response{data=[]admin.SettingResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/settings [get]
func (h *AdminHandler) ListSettings(c *gin.Context) {
	settings, err := h.settings.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, settings)
}

// GetSetting godoc
// @Summary      Get setting
// @Description  Get setting
// @Tags         admin-settings
// @Produce      json
// @Param        key path string true "Setting key"
// @Success      200 {object} dto.Response{data=admin.SettingResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/settings/{key} [get]
func (h *AdminHandler) GetSetting(c *gin.Context) {
	setting, err := h.settings.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, setting)
}

// PutSetting godoc
// @Summary      Upsert setting
// @Description  Create or replace a setting. The value must parse as the setting type.
// @Tags         admin-settings
// @Accept       json
// @Produce      json
// @Param        key path string true "Setting key"
// @Param        request body admin.UpsertSettingRequest true "Setting value"
// @Success      200 {object} dto.Response{data=admin.SettingResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/settings/{key} [put]
func (h *AdminHandler) PutSetting(c *gin.Context) {
	var req admin.UpsertSettingRequest
	if !h.BindJSON(c, &req) {
		return
	}
	setting, err := h.settings.Upsert(c.Request.Context(), c.Param("key"), req, caller(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, setting)
}

// ListAuditLogs godoc
// @Summary      List audit logs
// @Description  List audit logs
// @Tags         admin-audit
// @Produce      json
// @Param        actor_id query string false "Actor ID" format(uuid)
// @Param        action query string false "Action"
// @Param        resource_type query string false "Resource type"
// @Param        resource_id query string false "Resource ID"
// @Param        from query string false "Start date (YYYY-MM-DD)" format(date)
// @Param        to query string false "End date (YYYY-MM-DD)" format(date)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]admin.AuditLogResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/audit-logs [get]
func (h *AdminHandler) ListAuditLogs(c *gin.Context) {
	var filter admin.AuditLogFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	var ok bool
	if filter.ActorID, ok = h.QueryUUID(c, "actor_id"); !ok {
		return
	}
	page, err := h.audit.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paged(c, page)
}
