package httpapi

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"childcare_summary_service/internal/app"
	"childcare_summary_service/internal/domain/summary"
	idb "childcare_summary_service/internal/infra/database"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// NewRouter wires the thin request-level API over the pipeline services. Each
// route maps 1:1 to a service operation; auth is handled upstream.
func NewRouter(
	summaries app.SummaryService,
	batches app.BatchService,
	dispatch app.DispatchService,
	db *sql.DB,
	logger *logrus.Logger,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/healthz", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "db": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": true})
	})

	ai := r.Group("/v1/ai")

	ai.POST("/summary/generate", func(c *gin.Context) {
		var req struct {
			ChildID        string `json:"childId" binding:"required"`
			OrganizationID string `json:"organizationId" binding:"required"`
			Date           string `json:"date"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		date, ok := parseDate(c, req.Date)
		if !ok {
			return
		}

		saved, err := summaries.SaveDailySummary(c.Request.Context(), req.ChildID, req.OrganizationID, date)
		if err != nil {
			logger.WithError(err).Error("Generate summary request failed")
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, summaryResponse(saved))
	})

	ai.POST("/summary/generate-classroom", func(c *gin.Context) {
		var req struct {
			ClassroomID    string `json:"classroomId" binding:"required"`
			OrganizationID string `json:"organizationId" binding:"required"`
			Date           string `json:"date"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		date, ok := parseDate(c, req.Date)
		if !ok {
			return
		}

		res, err := batches.GenerateForClassroom(c.Request.Context(), req.ClassroomID, req.OrganizationID, date)
		if err != nil {
			logger.WithError(err).Error("Classroom summaries request failed")
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, res)
	})

	ai.POST("/summary/:summaryId/send", func(c *gin.Context) {
		count, err := dispatch.SendToParents(c.Request.Context(), c.Param("summaryId"))
		if err != nil {
			logger.WithError(err).Error("Send summary request failed")
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"sent": true, "recipientCount": count})
	})

	ai.POST("/analyze-sentiment", func(c *gin.Context) {
		var req struct {
			Content string `json:"content" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, summaries.AnalyzeMessageSentiment(c.Request.Context(), req.Content))
	})

	return r
}

// parseDate interprets an optional YYYY-MM-DD field, defaulting to today.
// On a malformed value it writes the 400 response and reports false.
func parseDate(c *gin.Context, raw string) (time.Time, bool) {
	if raw == "" {
		return time.Now(), true
	}
	d, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return time.Time{}, false
	}
	return d, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, idb.ErrChildNotFound), errors.Is(err, idb.ErrSummaryNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func summaryResponse(s *summary.DailySummary) gin.H {
	var sentAt *time.Time
	if s.SentAt.Valid {
		sentAt = &s.SentAt.Time
	}
	return gin.H{
		"id":              s.ID,
		"organizationId":  s.OrganizationID,
		"childId":         s.ChildID,
		"date":            s.Date.Format("2006-01-02"),
		"summaryText":     s.SummaryText,
		"highlights":      s.Highlights,
		"totalActivities": s.TotalActivities,
		"mealsEaten":      s.MealsEaten,
		"napDurationMins": s.NapDurationMins,
		"photosCount":     s.PhotosCount,
		"aiModel":         s.Model,
		"aiGeneratedAt":   s.GeneratedAt,
		"teacherReviewed": s.TeacherReviewed,
		"sentToParents":   s.SentToParents,
		"sentAt":          sentAt,
	}
}
