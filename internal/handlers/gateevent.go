package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gatewatch/gate-metrics-service/internal/ingest"
	"github.com/gatewatch/gate-metrics-service/internal/metrics"
	"github.com/gatewatch/gate-metrics-service/internal/models"
	"github.com/gatewatch/gate-metrics-service/internal/store"
)

// naiveLayout matches RFC3339 without an offset. Bounds in this form are
// interpreted as UTC; documented normalization, not silent truncation.
const naiveLayout = "2006-01-02T15:04:05"

// parseBound accepts RFC3339 (with offset) or a naive timestamp treated
// as UTC, and normalizes the result to UTC. Only query bounds get the
// naive fallback; event timestamps must carry an explicit offset.
func parseBound(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(naiveLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// RegisterGateMetricRoutes registers the write path and both aggregate
// read paths.
//
// POST /gatemetrics/gate-event
// GET  /gatemetrics/summary?gate=&type=&start=&end=
// GET  /gatemetrics/live?minutes=1&gate=&type=
func RegisterGateMetricRoutes(r gin.IRoutes, svc *ingest.Service, engine *metrics.Engine) {
	r.POST("/gatemetrics/gate-event", func(c *gin.Context) {
		var req models.GateEventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
			return
		}

		ts, err := time.Parse(time.RFC3339, req.Timestamp)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "timestamp must be RFC3339 with offset"})
			return
		}

		ev, err := svc.Submit(c.Request.Context(), req.Gate, ts, req.NumberOfPeople, req.Type)
		if errors.Is(err, ingest.ErrInvalidEvent) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "event not recorded"})
			return
		}

		c.JSON(http.StatusOK, ev)
	})

	r.GET("/gatemetrics/summary", func(c *gin.Context) {
		filter := store.EventFilter{
			Gate: c.Query("gate"),
			Type: c.Query("type"),
		}

		if s := c.Query("start"); s != "" {
			t, err := parseBound(s)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "start must be RFC3339"})
				return
			}
			filter.Start = &t
		}
		if s := c.Query("end"); s != "" {
			t, err := parseBound(s)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "end must be RFC3339"})
				return
			}
			filter.End = &t
		}

		summaries, err := engine.Summarize(c.Request.Context(), filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "summary query failed"})
			return
		}
		c.JSON(http.StatusOK, summaries)
	})

	r.GET("/gatemetrics/live", func(c *gin.Context) {
		minutes := 1
		if s := c.Query("minutes"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "minutes must be an integer"})
				return
			}
			minutes = n
		}

		summaries, err := engine.Live(c.Request.Context(), minutes, c.Query("gate"), c.Query("type"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "live query failed"})
			return
		}
		c.JSON(http.StatusOK, summaries)
	})
}
