// Package stats derives performance metrics from a session's raw result
// set. It is a pure computation layer: no I/O, no stored state, identical
// input always yields identical output.
package stats

import (
	"fmt"
	"math"

	"github.com/laptev-dv/diploma-backend/internal/apperrors"
	"github.com/laptev-dv/diploma-backend/internal/models"
)

// Outcome classifies a single presentation.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeError   Outcome = "error"
	OutcomeMiss    Outcome = "miss"
)

// Classify assigns exactly one outcome to a presentation. A presentation
// counts as answered only if both row and column are non-zero; a partial
// answer is a miss, not an error.
func Classify(p models.Presentation) Outcome {
	if !p.Answered() {
		return OutcomeMiss
	}
	if p.UserAnswer == p.CorrectAnswer {
		return OutcomeSuccess
	}
	return OutcomeError
}

// TaskStats holds the derived metrics for one task result.
//
// Zero-division policy: with no presentations, efficiency, avgResponseTime
// and finalScore are all 0. Entropy at efficiency 0 or 1 is 0 (the limit
// of x*log2(x) as x approaches 0). The engine never emits NaN or Inf.
type TaskStats struct {
	TaskID            uint    `json:"taskId"`
	SuccessCount      int     `json:"successCount"`
	ErrorCount        int     `json:"errorCount"`
	MissCount         int     `json:"missCount"`
	TotalResponseTime float64 `json:"totalResponseTime"`
	Efficiency        float64 `json:"efficiency"`
	AvgResponseTime   float64 `json:"avgResponseTime"`
	FinalScore        float64 `json:"finalScore"`
	Workload          float64 `json:"workload"`
	Entropy           float64 `json:"entropy"`
}

// CalculateTaskStats computes the aggregate metrics for one task result.
// The task supplies the timing and grid parameters the composite scores
// are normalized against.
func CalculateTaskStats(task *models.Task, presentations []models.Presentation) TaskStats {
	s := TaskStats{TaskID: task.ID}

	for _, p := range presentations {
		switch Classify(p) {
		case OutcomeSuccess:
			s.SuccessCount++
			s.TotalResponseTime += p.ResponseTime
		case OutcomeError:
			s.ErrorCount++
			s.TotalResponseTime += p.ResponseTime
		case OutcomeMiss:
			s.MissCount++
		}
	}

	n := float64(len(presentations))
	s.Efficiency = safeDiv(float64(s.SuccessCount), n)
	s.AvgResponseTime = safeDiv(s.TotalResponseTime, n)

	// The time budget of a single presentation: stimulus display plus the
	// response window.
	budget := task.StimulusTime + task.ResponseTime
	s.FinalScore = s.Efficiency * (1 - safeDiv(s.AvgResponseTime, budget))
	s.Workload = safeDiv(float64(task.Rows*task.Columns), budget)
	s.Entropy = binaryEntropy(s.Efficiency)

	return s
}

// CalculateSessionStats computes per-task-result metrics for a fully
// resolved session. It fails without partial output if any task result
// lacks its task or its presentations payload; an empty presentation list
// is valid and yields zero-valued metrics.
func CalculateSessionStats(results []models.TaskResult) ([]TaskStats, error) {
	out := make([]TaskStats, 0, len(results))
	for i, r := range results {
		if r.Task == nil {
			return nil, apperrors.MalformedResult(fmt.Sprintf("result %d references unresolved task %d", i, r.TaskID))
		}
		if r.Presentations == nil {
			return nil, apperrors.MalformedResult(fmt.Sprintf("result %d has no presentations payload", i))
		}
		out = append(out, CalculateTaskStats(r.Task, r.Presentations))
	}
	return out, nil
}

// CalculateSessionDuration estimates the wall-clock duration of a session:
// the sum over every presentation of its response time plus the owning
// task's configured pause time.
func CalculateSessionDuration(results []models.TaskResult) (float64, error) {
	var total float64
	for i, r := range results {
		if r.Task == nil {
			return 0, apperrors.MalformedResult(fmt.Sprintf("result %d references unresolved task %d", i, r.TaskID))
		}
		for _, p := range r.Presentations {
			total += p.ResponseTime + r.Task.PauseTime
		}
	}
	return total, nil
}

// safeDiv returns a/b with the 0/0 convention mapped to 0.
func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// binaryEntropy computes p*log2(p) + (1-p)*log2(1-p), clamped to 0 at the
// boundaries where log2 diverges.
func binaryEntropy(p float64) float64 {
	if p <= 0 || p >= 1 {
		return 0
	}
	return p*math.Log2(p) + (1-p)*math.Log2(1-p)
}
