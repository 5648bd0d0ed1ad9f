// Package notify collects the leveled outcome notices the domain
// services emit, keeps the most recent ones in a bounded buffer, and
// serves them over Echo HTTP handlers.
package notify

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Level classifies a notice for the presentation layer.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
)

// Notice is one recorded outcome. How long the UI shows it is the UI's
// business; the center only stores and serves.
type Notice struct {
	ID        uuid.UUID `json:"id"`
	Level     Level     `json:"level"`
	Title     string    `json:"title"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Publisher pushes each recorded notice to the rendering boundary.
type Publisher interface {
	Publish(topic, eventType string, data interface{}) error
}

// Center is a bounded in-memory notice buffer. When full, the oldest
// notice is dropped.
type Center struct {
	mu       sync.RWMutex
	capacity int
	notices  []Notice
	push     Publisher
}

const DefaultCapacity = 200

// NewCenter creates a notice center holding at most capacity notices.
// push may be nil.
func NewCenter(capacity int, push Publisher) *Center {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Center{capacity: capacity, push: push}
}

func (c *Center) Info(title, detail string)    { c.record(LevelInfo, title, detail) }
func (c *Center) Success(title, detail string) { c.record(LevelSuccess, title, detail) }
func (c *Center) Warning(title, detail string) { c.record(LevelWarning, title, detail) }

func (c *Center) record(level Level, title, detail string) {
	n := Notice{
		ID:        uuid.New(),
		Level:     level,
		Title:     title,
		Detail:    detail,
		CreatedAt: time.Now(),
	}

	c.mu.Lock()
	c.notices = append(c.notices, n)
	if len(c.notices) > c.capacity {
		c.notices = c.notices[len(c.notices)-c.capacity:]
	}
	c.mu.Unlock()

	if c.push != nil {
		_ = c.push.Publish("notices", "notice", n)
	}
}

// Recent returns up to limit notices, newest first. limit <= 0 returns
// everything buffered.
func (c *Center) Recent(limit int) []Notice {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := len(c.notices)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]Notice, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, c.notices[i])
	}
	return out
}

// Stats reports buffered notice counts per level.
type Stats struct {
	Total    int `json:"total"`
	Info     int `json:"info"`
	Success  int `json:"success"`
	Warning  int `json:"warning"`
	Capacity int `json:"capacity"`
}

func (c *Center) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	st := Stats{Total: len(c.notices), Capacity: c.capacity}
	for _, n := range c.notices {
		switch n.Level {
		case LevelInfo:
			st.Info++
		case LevelSuccess:
			st.Success++
		case LevelWarning:
			st.Warning++
		}
	}
	return st
}

// Handler serves the notice buffer over HTTP.
type Handler struct {
	center *Center
}

func NewHandler(center *Center) *Handler {
	return &Handler{center: center}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/notices", h.ListNotices)
	api.GET("/notices/stats", h.GetStats)
}

func (h *Handler) ListNotices(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return c.JSON(http.StatusOK, h.center.Recent(limit))
}

func (h *Handler) GetStats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.center.Stats())
}
