package handlers

import (
	"errors"
	"net/http"

	"github.com/MOOQU/CF-License-Server/internal/models"
	"github.com/MOOQU/CF-License-Server/internal/services"

	"github.com/gin-gonic/gin"
)

// Length bounds follow the column widths in models.Device
type deviceRequest struct {
	HWID string `json:"hwid" binding:"required,max=255"`
}

type heartbeatRequest struct {
	HWID    string `json:"hwid"    binding:"required,max=255"`
	Version string `json:"version" binding:"max=50"`
}

type licenseRequest struct {
	Username string `json:"username" binding:"required,max=100"`
	License  string `json:"license"  binding:"required,max=255"`
	HWID     string `json:"hwid"     binding:"required,max=255"`
}

// ClientHandler serves the endpoints the desktop client calls
type ClientHandler struct {
	sessions *services.SessionService
	trials   *services.TrialService
	licenses *services.LicenseService
}

func NewClientHandler(
	sessions *services.SessionService,
	trials *services.TrialService,
	licenses *services.LicenseService,
) *ClientHandler {
	return &ClientHandler{sessions: sessions, trials: trials, licenses: licenses}
}

// Heartbeat godoc
//
//	@Summary		Report liveness
//	@Description	Records that the client is alive and banks the time of an open session. Trials also report their remaining budget.
//	@Tags			Client
//	@Accept			json
//	@Produce		json
//	@Param			request	body		heartbeatRequest	true	"Device id and optional client version"
//	@Success		200		{object}	object{status=string,remaining=int,last_seen=int}	"status is ok, active, expired, banned or no_user"
//	@Failure		400		{object}	object{status=string}
//	@Failure		503		{object}	object{status=string}	"Store temporarily unavailable, retry"
//	@Router			/heartbeat [post]
func (h *ClientHandler) Heartbeat(c *gin.Context) {
	var req heartbeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.sessions.Heartbeat(c.Request.Context(), req.HWID, req.Version)
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusOK, gin.H{"status": services.StatusNoUser})
		return
	case errors.Is(err, services.ErrBanned):
		c.JSON(http.StatusOK, gin.H{"status": services.StatusBanned})
		return
	case err != nil:
		respondError(c, err)
		return
	}

	body := gin.H{
		"status":    result.Status,
		"last_seen": result.LastSeen,
	}
	if result.Remaining != nil {
		body["remaining"] = *result.Remaining
	}
	c.JSON(http.StatusOK, body)
}

// RequestTrial godoc
//
//	@Summary		Request or resume a trial
//	@Description	Issues a trial on first contact; later calls report the existing grant.
//	@Tags			Client
//	@Accept			json
//	@Produce		json
//	@Param			request	body		deviceRequest	true	"Device id"
//	@Success		200		{object}	object{status=string,remaining=int}	"status is active, expired, banned or licensed"
//	@Failure		400		{object}	object{status=string}
//	@Failure		503		{object}	object{status=string}
//	@Router			/request_trial [post]
func (h *ClientHandler) RequestTrial(c *gin.Context) {
	var req deviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.trials.RequestTrial(c.Request.Context(), req.HWID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    result.Status,
		"remaining": result.Remaining,
	})
}

// CheckTrial godoc
//
//	@Summary	Check trial state
//	@Tags		Client
//	@Accept		json
//	@Produce	json
//	@Param		request	body		deviceRequest	true	"Device id"
//	@Success	200		{object}	object{status=string,remaining=int}	"status is no_user, banned, licensed, active or expired"
//	@Failure	400		{object}	object{status=string}
//	@Failure	503		{object}	object{status=string}
//	@Router		/check_trial [post]
func (h *ClientHandler) CheckTrial(c *gin.Context) {
	var req deviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.trials.CheckTrial(c.Request.Context(), req.HWID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    result.Status,
		"remaining": result.Remaining,
	})
}

// CheckLicense godoc
//
//	@Summary		Validate a license
//	@Description	Binds an unused license to the calling device. A license bound elsewhere reports device_mismatch.
//	@Tags			Client
//	@Accept			json
//	@Produce		json
//	@Param			request	body		licenseRequest	true	"Credentials and device id"
//	@Success		200		{object}	object{status=string,type=string}	"status is valid, invalid, banned or device_mismatch"
//	@Failure		400		{object}	object{status=string}
//	@Failure		503		{object}	object{status=string}
//	@Router			/check_license [post]
func (h *ClientHandler) CheckLicense(c *gin.Context) {
	var req licenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.licenses.CheckLicense(c.Request.Context(), req.Username, req.License, req.HWID)
	switch {
	case errors.Is(err, services.ErrInvalidCredential):
		c.JSON(http.StatusOK, gin.H{"status": services.StatusInvalid})
		return
	case errors.Is(err, services.ErrBanned):
		c.JSON(http.StatusOK, gin.H{"status": services.StatusBanned})
		return
	case errors.Is(err, services.ErrDeviceMismatch):
		c.JSON(http.StatusOK, gin.H{"status": services.StatusDeviceMismatch})
		return
	case err != nil:
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": result.Status,
		"type":   models.KindLicensed,
		"bound":  result.Bound,
	})
}

// StartSession godoc
//
//	@Summary	Open a usage session
//	@Tags		Client
//	@Accept		json
//	@Produce	json
//	@Param		request	body		deviceRequest	true	"Device id"
//	@Success	200		{object}	object{status=string,started_at=int}	"status is started, already_running or banned"
//	@Failure	404		{object}	object{status=string}
//	@Failure	503		{object}	object{status=string}
//	@Router		/start_session [post]
func (h *ClientHandler) StartSession(c *gin.Context) {
	var req deviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.sessions.StartSession(c.Request.Context(), req.HWID)
	if errors.Is(err, services.ErrBanned) {
		c.JSON(http.StatusOK, gin.H{"status": services.StatusBanned})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     result.Status,
		"started_at": result.StartedAt,
	})
}

// StopSession godoc
//
//	@Summary	Close the usage session
//	@Tags		Client
//	@Accept		json
//	@Produce	json
//	@Param		request	body		deviceRequest	true	"Device id"
//	@Success	200		{object}	object{status=string,accumulated=int}
//	@Failure	404		{object}	object{status=string}
//	@Failure	503		{object}	object{status=string}
//	@Router		/stop_session [post]
func (h *ClientHandler) StopSession(c *gin.Context) {
	var req deviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.sessions.StopSession(c.Request.Context(), req.HWID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      result.Status,
		"accumulated": result.Accumulated,
	})
}
