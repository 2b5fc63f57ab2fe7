package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/MOOQU/CF-License-Server/internal/config"
	"github.com/MOOQU/CF-License-Server/internal/services"

	"github.com/gin-gonic/gin"
)

type usernameRequest struct {
	Username string `json:"username" binding:"required,max=100"`
}

type clearDaysRequest struct {
	Days int `json:"days" binding:"required,min=1,max=36500"`
}

type deleteRequest struct {
	Username string `json:"username" binding:"max=100"`
	HWID     string `json:"hwid"     binding:"max=255"`
}

// AdminHandler serves moderation and reporting endpoints
type AdminHandler struct {
	admin    *services.AdminService
	licenses *services.LicenseService
}

func NewAdminHandler(admin *services.AdminService, licenses *services.LicenseService) *AdminHandler {
	return &AdminHandler{admin: admin, licenses: licenses}
}

// Ban godoc
//
//	@Summary	Ban a device
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Param		request	body		deviceRequest	true	"Device id"
//	@Success	200		{object}	object{status=string}
//	@Failure	404		{object}	object{status=string}
//	@Router		/ban [post]
func (h *AdminHandler) Ban(c *gin.Context) {
	h.setBanned(c, true)
}

// Unban godoc
//
//	@Summary	Lift a device ban
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Param		request	body		deviceRequest	true	"Device id"
//	@Success	200		{object}	object{status=string}
//	@Failure	404		{object}	object{status=string}
//	@Router		/unban [post]
func (h *AdminHandler) Unban(c *gin.Context) {
	h.setBanned(c, false)
}

func (h *AdminHandler) setBanned(c *gin.Context, banned bool) {
	var req deviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	var err error
	if banned {
		err = h.licenses.Ban(c.Request.Context(), req.HWID)
	} else {
		err = h.licenses.Unban(c.Request.Context(), req.HWID)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusSuccess})
}

// ListUsers godoc
//
//	@Summary		List all records
//	@Description	Projection with online state, live usage and trial remaining computed at request time
//	@Tags			Admin
//	@Produce		json
//	@Success		200	{object}	object{users=[]services.DeviceView}
//	@Failure		503	{object}	object{status=string}
//	@Router			/userslist [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	views, err := h.admin.ListDevices(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": views})
}

// SessionHistory godoc
//
//	@Summary	Session history of one user
//	@Tags		Admin
//	@Produce	json
//	@Param		username	query		string	true	"Username"
//	@Param		days		query		int		false	"Only sessions that ended within this many days (0 = all, max 36500)"
//	@Success	200			{object}	object{history=[]services.HistoryEntry}
//	@Failure	404			{object}	object{status=string}
//	@Router		/user_session_history [get]
func (h *AdminHandler) SessionHistory(c *gin.Context) {
	username := c.Query("username")
	days, err := strconv.Atoi(c.DefaultQuery("days", "0"))
	if username == "" || err != nil || days > config.MaxHistoryDays {
		c.JSON(http.StatusBadRequest, gin.H{"status": statusInvalidRequest})
		return
	}

	history, err := h.admin.SessionHistory(c.Request.Context(), username, days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

// ClearUserLogs godoc
//
//	@Summary	Clear one user's session history
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Param		request	body		usernameRequest	true	"Username"
//	@Success	200		{object}	object{status=string}
//	@Failure	404		{object}	object{status=string}
//	@Router		/clear_user_logs [post]
func (h *AdminHandler) ClearUserLogs(c *gin.Context) {
	var req usernameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.admin.ClearUserLogs(c.Request.Context(), req.Username); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusSuccess})
}

// ClearAllLogs godoc
//
//	@Summary	Clear every session history
//	@Tags		Admin
//	@Produce	json
//	@Success	200	{object}	object{status=string,cleared=int}
//	@Failure	503	{object}	object{status=string}
//	@Router		/clear_all_logs [post]
func (h *AdminHandler) ClearAllLogs(c *gin.Context) {
	cleared, err := h.admin.ClearAllLogs(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusSuccess, "cleared": cleared})
}

// ClearLogsDays godoc
//
//	@Summary	Drop history entries older than a number of days
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Param		request	body		clearDaysRequest	true	"Age in days"
//	@Success	200		{object}	object{status=string,pruned=int,entries_removed=int}
//	@Failure	400		{object}	object{status=string}
//	@Failure	503		{object}	object{status=string}
//	@Router		/clear_logs_days [post]
func (h *AdminHandler) ClearLogsDays(c *gin.Context) {
	var req clearDaysRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.admin.ClearLogsOlderThan(c.Request.Context(), req.Days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":          statusSuccess,
		"pruned":          result.Pruned,
		"entries_removed": result.EntriesRemoved,
	})
}

// GenerateLicense godoc
//
//	@Summary		Generate a license
//	@Description	Creates an unbound license. The secret is returned once and only its hash is stored.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			request	body		usernameRequest	true	"Username"
//	@Success		200		{object}	object{status=string,license=string}
//	@Failure		409		{object}	object{status=string}
//	@Router			/usersgen_license [post]
func (h *AdminHandler) GenerateLicense(c *gin.Context) {
	var req usernameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	lic, err := h.licenses.GenerateLicense(c.Request.Context(), req.Username)
	if errors.Is(err, services.ErrAlreadyExists) {
		c.JSON(http.StatusConflict, gin.H{"status": "exists"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   statusSuccess,
		"username": lic.Username,
		"license":  lic.License,
	})
}

// DeleteUser godoc
//
//	@Summary	Delete a record by username or device id
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Param		request	body		deleteRequest	true	"Username or device id"
//	@Success	200		{object}	object{status=string}
//	@Failure	400		{object}	object{status=string}
//	@Failure	404		{object}	object{status=string}
//	@Router		/usersdelete [post]
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	var req deleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.licenses.Delete(c.Request.Context(), req.Username, req.HWID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusSuccess})
}
