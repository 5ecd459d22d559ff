package tasks

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo *Repo
}

func Register(rg *gin.RouterGroup, repo *Repo) {
	h := &Handler{repo: repo}

	rg.POST("", h.create)
	rg.GET("", h.list)
	rg.GET("/:id", h.get)
	rg.PATCH("/:id", h.update)
	rg.DELETE("/:id", h.delete)
}

func (h *Handler) create(c *gin.Context) {
	var req NewTask
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	req.Title = strings.TrimSpace(req.Title)

	t, err := h.repo.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "task": taskView(t, time.Now())})
}

func (h *Handler) list(c *gin.Context) {
	f := Filter{
		ProjectID:  c.Query("project_id"),
		AssigneeID: c.Query("assignee_id"),
	}

	items, err := h.repo.List(c.Request.Context(), f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	now := time.Now()
	views := make([]gin.H, 0, len(items))
	for i := range items {
		views = append(views, taskView(&items[i], now))
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "tasks": views})
}

func (h *Handler) get(c *gin.Context) {
	t, err := h.repo.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "task": taskView(t, time.Now())})
}

func (h *Handler) update(c *gin.Context) {
	var patch Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	t, err := h.repo.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "task not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "task": taskView(t, time.Now())})
}

func (h *Handler) delete(c *gin.Context) {
	ok, err := h.repo.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "task not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// taskView decorates a task with the presentation fields the cards
// render: the status badge color and the due-date bucket.
func taskView(t *Task, now time.Time) gin.H {
	return gin.H{
		"id":           t.ID,
		"title":        t.Title,
		"description":  t.Description,
		"status":       t.Status,
		"status_color": StatusColor(t.Status),
		"priority":     t.Priority,
		"project_id":   t.ProjectID,
		"assignee_id":  t.AssigneeID,
		"due_date":     t.DueDate,
		"due_bucket":   DueBucket(t.DueDate, now),
		"created_at":   t.CreatedAt,
		"updated_at":   t.UpdatedAt,
	}
}
