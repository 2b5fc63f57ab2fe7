package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/MOOQU/CF-License-Server/internal/models"
	"github.com/MOOQU/CF-License-Server/internal/services"
	"github.com/MOOQU/CF-License-Server/internal/store"

	"github.com/gin-gonic/gin"
)

const (
	// queryValueTrue represents the string "true" used in query parameters
	queryValueTrue = "true"

	// exportLimit caps how many rows a CSV export may contain
	exportLimit = 10000
)

// AuditHandler serves the audit trail of grant and admin events
type AuditHandler struct {
	auditService *services.AuditService
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// parseAuditFilters reads the shared filter query parameters
func parseAuditFilters(c *gin.Context) store.AuditLogFilters {
	filters := store.AuditLogFilters{
		EventType:    models.EventType(c.Query("event_type")),
		ResourceType: models.ResourceType(c.Query("resource_type")),
		ResourceID:   c.Query("resource_id"),
		Severity:     models.EventSeverity(c.Query("severity")),
		ActorIP:      c.Query("actor_ip"),
		Search:       c.Query("search"),
	}

	if successStr := c.Query("success"); successStr != "" {
		success := successStr == queryValueTrue
		filters.Success = &success
	}

	filters.StartTime, filters.EndTime = parseTimeRange(c)
	return filters
}

// parseTimeRange reads RFC 3339 start_time and end_time; malformed values are ignored
func parseTimeRange(c *gin.Context) (start, end time.Time) {
	if s := c.Query("start_time"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			start = t
		}
	}
	if s := c.Query("end_time"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			end = t
		}
	}
	return start, end
}

// ListAuditLogs godoc
//
//	@Summary		List audit logs
//	@Description	Paginated audit trail, newest first
//	@Tags			Audit
//	@Produce		json
//	@Param			page			query		int		false	"Page number (default 1)"
//	@Param			page_size		query		int		false	"Page size (default 20, max 100)"
//	@Param			event_type		query		string	false	"Event type filter"
//	@Param			resource_type	query		string	false	"Resource type filter"
//	@Param			severity		query		string	false	"Severity filter"
//	@Param			success			query		bool	false	"Outcome filter"
//	@Param			search			query		string	false	"Search in action and resource name"
//	@Param			start_time		query		string	false	"RFC 3339 lower bound"
//	@Param			end_time		query		string	false	"RFC 3339 upper bound"
//	@Success		200				{object}	object{logs=[]models.AuditLog,pagination=store.PaginationResult}
//	@Failure		503				{object}	object{status=string}
//	@Router			/admin/audit [get]
func (h *AuditHandler) ListAuditLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	params := store.NewPaginationParams(page, pageSize)
	filters := parseAuditFilters(c)

	logs, pagination, err := h.auditService.GetAuditLogs(c.Request.Context(), params, filters)
	if err != nil {
		respondError(c, fmt.Errorf("%w: list audit logs: %v", services.ErrTransient, err))
		return
	}

	h.auditService.Log(c.Request.Context(), services.AuditLogEntry{
		EventType:    models.EventTypeAuditLogView,
		Severity:     models.SeverityInfo,
		ResourceType: models.ResourceAuditLog,
		Action:       "Viewed audit logs",
		Details: models.AuditDetails{
			"page":      params.Page,
			"page_size": params.PageSize,
			"filters":   filters,
		},
		Success:       true,
		RequestPath:   c.Request.URL.Path,
		RequestMethod: c.Request.Method,
		UserAgent:     c.Request.UserAgent(),
	})

	c.JSON(http.StatusOK, gin.H{
		"logs":       logs,
		"pagination": pagination,
	})
}

// GetAuditLogStats godoc
//
//	@Summary		Audit log statistics
//	@Description	Counts by event type and severity. Defaults to the last 30 days.
//	@Tags			Audit
//	@Produce		json
//	@Param			start_time	query		string	false	"RFC 3339 lower bound"
//	@Param			end_time	query		string	false	"RFC 3339 upper bound"
//	@Success		200			{object}	object{stats=store.AuditLogStats,start_time=string,end_time=string}
//	@Failure		503			{object}	object{status=string}
//	@Router			/admin/audit/stats [get]
func (h *AuditHandler) GetAuditLogStats(c *gin.Context) {
	startTime, endTime := parseTimeRange(c)
	if startTime.IsZero() && endTime.IsZero() {
		endTime = time.Now()
		startTime = endTime.Add(-30 * 24 * time.Hour)
	}

	stats, err := h.auditService.GetAuditLogStats(c.Request.Context(), startTime, endTime)
	if err != nil {
		respondError(c, fmt.Errorf("%w: audit stats: %v", services.ErrTransient, err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":      stats,
		"start_time": startTime,
		"end_time":   endTime,
	})
}

// ExportAuditLogs godoc
//
//	@Summary	Export audit logs as CSV
//	@Tags		Audit
//	@Produce	text/csv
//	@Success	200	{string}	string	"CSV file"
//	@Failure	503	{object}	object{status=string}
//	@Router		/admin/audit/export [get]
func (h *AuditHandler) ExportAuditLogs(c *gin.Context) {
	filters := parseAuditFilters(c)
	params := store.PaginationParams{Page: 1, PageSize: exportLimit}

	logs, _, err := h.auditService.GetAuditLogs(c.Request.Context(), params, filters)
	if err != nil {
		respondError(c, fmt.Errorf("%w: export audit logs: %v", services.ErrTransient, err))
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf(
		"attachment; filename=audit_logs_%s.csv",
		time.Now().Format("2006-01-02"),
	))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	if err := writer.Write([]string{
		"Event Time",
		"Event Type",
		"Severity",
		"Actor IP",
		"Resource Type",
		"Resource Name",
		"Action",
		"Success",
		"Error Message",
	}); err != nil {
		return
	}

	for _, entry := range logs {
		if err := writer.Write([]string{
			entry.EventTime.Format(time.RFC3339),
			string(entry.EventType),
			string(entry.Severity),
			entry.ActorIP,
			string(entry.ResourceType),
			entry.ResourceName,
			entry.Action,
			strconv.FormatBool(entry.Success),
			entry.ErrorMessage,
		}); err != nil {
			return
		}
	}
}
