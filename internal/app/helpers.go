package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/soldertec/site/internal/database"
	"github.com/soldertec/site/internal/pkg/response"
)

const healthTimeout = 3 * time.Second

func (a *App) status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"maintenance": a.maintenance.Load(),
		"languages":   a.cfg.Languages,
		"version":     a.cfg.Version,
	})
}

// health pings the database and, when configured, redis.
func (a *App) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	checks := gin.H{"database": "ok", "redis": "disabled"}
	healthy := true
	if err := database.Ping(ctx, a.deps.DB); err != nil {
		checks["database"] = err.Error()
		healthy = false
	}
	if a.deps.Redis != nil {
		checks["redis"] = "ok"
		if err := a.deps.Redis.Ping(ctx); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		}
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"ok":     healthy,
		"uptime": time.Since(a.started).Truncate(time.Second).String(),
		"checks": checks,
	})
}

func (a *App) listJobs(c *gin.Context) {
	response.OK(c, a.sched.List())
}

func (a *App) runJob(c *gin.Context) {
	name := c.Param("name")
	if _, ok := a.sched.Get(name); !ok {
		response.NotFound(c)
		return
	}
	ran, err := a.sched.Run(c.Request.Context(), name)
	if err != nil {
		response.NotFound(c)
		return
	}
	if !ran {
		response.Abort(c, http.StatusConflict, "job is already running")
		return
	}
	info, _ := a.sched.Get(name)
	response.OK(c, info)
}

type maintenanceRequest struct {
	Enabled *bool `json:"enabled"`
}

func (a *App) setMaintenance(c *gin.Context) {
	var req maintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Enabled == nil {
		response.BadRequest(c, "enabled is required")
		return
	}
	a.SetMaintenance(*req.Enabled)
	response.OK(c, gin.H{"maintenance": *req.Enabled})
}
