package handler

import (
	"context"
	"errors"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/questlog/questlog/internal/questlog"
	"github.com/questlog/questlog/internal/questlog/service"
	"github.com/questlog/questlog/pkg/logger"
)

// Handler maps the /api routes onto the quest log service. Every other GET is
// served from the public directory.
type Handler struct {
	svc    *service.Service
	static http.Handler
}

func NewHandler(svc *service.Service, publicDir string) *Handler {
	return &Handler{svc: svc, static: http.FileServer(http.Dir(publicDir))}
}

// saveRequest is the body of /api/save and /api/import.
type saveRequest struct {
	Log *questlog.QuestLog `json:"log"`
}

func (h *Handler) Register(r *gin.Engine) {
	api := r.Group("/api")
	api.GET("/logs", h.ListLogs)
	api.GET("/log/:id", h.GetLog)
	api.POST("/save", h.SaveLog)
	api.DELETE("/delete/:id", h.DeleteLog)
	api.GET("/templates", h.ListTemplates)
	api.GET("/import-template/:id", h.ImportTemplate)
	api.GET("/export/:id", h.ExportLog)
	api.POST("/import", h.ImportLog)

	r.NoRoute(h.NoRoute)
}

// Backuper copies stored logs to durable storage and back.
type Backuper interface {
	Run(ctx context.Context) (int, error)
	Restore(ctx context.Context, id string) (*questlog.QuestLog, error)
}

// RegisterBackup exposes POST /api/backup and POST /api/restore/:id.
// Only called when object storage is configured.
func RegisterBackup(r *gin.Engine, b Backuper) {
	r.POST("/api/backup", func(c *gin.Context) {
		n, err := b.Run(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "count": n})
	})
	r.POST("/api/restore/:id", func(c *gin.Context) {
		log, err := b.Restore(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "log": log})
	})
}

// writeError maps store errors onto status codes.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, questlog.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, questlog.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// ListLogs returns { logs: [...] }
func (h *Handler) ListLogs(c *gin.Context) {
	logs, err := h.svc.ListLogs(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

// GetLog returns { log: {...} }
func (h *Handler) GetLog(c *gin.Context) {
	log, err := h.svc.GetLog(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"log": log})
}

// SaveLog accepts { log: {...} } and overwrites the stored document.
func (h *Handler) SaveLog(c *gin.Context) {
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quest log data: " + err.Error()})
		return
	}
	if err := h.svc.SaveLog(c.Request.Context(), req.Log); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) DeleteLog(c *gin.Context) {
	if err := h.svc.DeleteLog(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListTemplates returns { templates: [...] }
func (h *Handler) ListTemplates(c *gin.Context) {
	templates, err := h.svc.ListTemplates(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

// ImportTemplate instantiates a new log from a template.
func (h *Handler) ImportTemplate(c *gin.Context) {
	log, err := h.svc.ImportTemplate(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "log": log})
}

// ExportLog sends the stored log as a .quest attachment.
func (h *Handler) ExportLog(c *gin.Context) {
	name, body, err := h.svc.ExportLog(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "application/json", body)
}

// ImportLog stores an uploaded .quest document, either bare (as served by
// /api/export) or wrapped as { log: {...} }.
func (h *Handler) ImportLog(c *gin.Context) {
	doc, err := decodeImport(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quest log file: " + err.Error()})
		return
	}
	log, err := h.svc.ImportLog(c.Request.Context(), doc)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "log": log})
}

func decodeImport(c *gin.Context) (*questlog.QuestLog, error) {
	body, err := c.GetRawData()
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	if wrapped, ok := fields["log"]; ok {
		body = wrapped
	}
	var doc *questlog.QuestLog
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// NoRoute serves static files for GET/HEAD and 404 for everything else.
// Dot-prefixed paths (.env, .git/...) are never served.
func (h *Handler) NoRoute(c *gin.Context) {
	if (c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead) && !hiddenPath(c.Request.URL.Path) {
		h.static.ServeHTTP(c.Writer, c.Request)
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
}

// hiddenPath reports whether any segment of p starts with a dot.
func hiddenPath(p string) bool {
	for _, seg := range strings.FieldsFunc(p, func(r rune) bool { return r == '/' || r == '\\' }) {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}
