package stats

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zapdesk/zapdesk/internal/loaders"
	"github.com/zapdesk/zapdesk/internal/utils"
)

var weekdayLabels = [7]string{"Dom", "Seg", "Ter", "Qua", "Qui", "Sex", "Sab"}

// DayCount is one bar of the dashboard activity chart.
type DayCount struct {
	Name string `json:"name"`
	Msgs int    `json:"msgs"`
	Date string `json:"date"`
}

// Controller serves the dashboard activity stats.
type Controller struct {
	db *loaders.PostgresClient
}

func NewController(db *loaders.PostgresClient) *Controller {
	return &Controller{db: db}
}

// MessagesByDay returns zero-filled message counts for the last seven days.
// GET /api/stats/messages-by-day
func (c *Controller) MessagesByDay(ctx *gin.Context) {
	now := time.Now().UTC()
	cutoff := now.AddDate(0, 0, -7)

	timestamps, err := c.db.MessageTimestampsSince(ctx.Request.Context(), cutoff)
	if err != nil {
		utils.Zlog.Error("Failed to fetch message stats", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		return
	}

	ctx.JSON(http.StatusOK, bucketByDay(now, timestamps))
}

// bucketByDay folds raw timestamps into zero-filled per-day counts for the
// seven days ending at now, oldest first.
func bucketByDay(now time.Time, timestamps []time.Time) []DayCount {
	counts := make(map[string]int, 7)
	for _, ts := range timestamps {
		counts[ts.UTC().Format("2006-01-02")]++
	}

	days := make([]DayCount, 0, 7)
	for i := 6; i >= 0; i-- {
		d := now.AddDate(0, 0, -i)
		key := d.Format("2006-01-02")
		days = append(days, DayCount{
			Name: weekdayLabels[int(d.Weekday())],
			Msgs: counts[key],
			Date: key,
		})
	}
	return days
}
