package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"go.uber.org/zap"

	"github.com/laptev-dv/diploma-backend/internal/services"
)

type ReportHandler struct {
	log      *zap.Logger
	sessions *services.SessionService
}

func NewReportHandler(log *zap.Logger, sessions *services.SessionService) *ReportHandler {
	return &ReportHandler{log: log, sessions: sessions}
}

// SessionReport renders an HTML page of charts over the session's computed
// statistics. Authorization matches the session detail endpoint.
func (h *ReportHandler) SessionReport(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	detail, err := h.sessions.GetByID(c.Request.Context(), id, callerID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("Session %d report", detail.ID)
	page.AddCharts(
		generateOutcomeChart(detail.Results),
		generateScoreChart(detail.Results),
	)

	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(c.Writer); err != nil {
		h.log.Error("Failed to render session report", zap.Error(err))
	}
}

// generateOutcomeChart builds the per-task bar chart of outcome counts.
func generateOutcomeChart(results []services.ScoredResult) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Outcomes per task",
			Subtitle: "success / error / miss counts",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	labels := make([]string, 0, len(results))
	success := make([]opts.BarData, 0, len(results))
	errs := make([]opts.BarData, 0, len(results))
	misses := make([]opts.BarData, 0, len(results))
	for i, r := range results {
		labels = append(labels, fmt.Sprintf("Task %d", i+1))
		success = append(success, opts.BarData{Value: r.Stats.SuccessCount})
		errs = append(errs, opts.BarData{Value: r.Stats.ErrorCount})
		misses = append(misses, opts.BarData{Value: r.Stats.MissCount})
	}

	bar.SetXAxis(labels).
		AddSeries("Success", success).
		AddSeries("Error", errs).
		AddSeries("Miss", misses)
	return bar
}

// generateScoreChart builds the efficiency and final score line chart.
func generateScoreChart(results []services.ScoredResult) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "Performance per task",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:  "value",
			Scale: opts.Bool(true),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	labels := make([]string, 0, len(results))
	efficiency := make([]opts.LineData, 0, len(results))
	finalScore := make([]opts.LineData, 0, len(results))
	for i, r := range results {
		labels = append(labels, fmt.Sprintf("Task %d", i+1))
		efficiency = append(efficiency, opts.LineData{Value: r.Stats.Efficiency})
		finalScore = append(finalScore, opts.LineData{Value: r.Stats.FinalScore})
	}

	line.SetXAxis(labels).
		AddSeries("Efficiency", efficiency).
		AddSeries("Final score", finalScore).
		SetSeriesOptions(charts.WithLineStyleOpts(opts.LineStyle{Width: 2}))
	return line
}
