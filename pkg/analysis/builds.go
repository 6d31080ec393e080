// Package analysis computes summary statistics over a job's build history
// for the detail panel.
package analysis

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"jenkdash/internal/jenkins"
)

// BuildStats summarizes a job's recent build history. Durations cover
// completed builds only; in-progress builds count toward Total but not
// Completed.
type BuildStats struct {
	Total          int
	Completed      int
	Successes      int
	SuccessRate    float64 // successes / completed, 0 when no completed builds
	MeanDuration   time.Duration
	StddevDuration time.Duration
	LastResult     string // result of the newest completed build, "" if none
}

// Summarize computes BuildStats over the given builds, which are expected in
// the server's order (newest first).
func Summarize(builds []jenkins.Build) BuildStats {
	s := BuildStats{Total: len(builds)}

	var durations []float64
	for _, b := range builds {
		if b.Building || b.Result == "" {
			continue
		}
		s.Completed++
		if s.LastResult == "" {
			s.LastResult = b.Result
		}
		if b.Result == "SUCCESS" {
			s.Successes++
		}
		durations = append(durations, float64(b.Duration))
	}

	if s.Completed == 0 {
		return s
	}

	s.SuccessRate = float64(s.Successes) / float64(s.Completed)
	s.MeanDuration = time.Duration(stat.Mean(durations, nil)) * time.Millisecond
	if len(durations) > 1 {
		s.StddevDuration = time.Duration(stat.StdDev(durations, nil)) * time.Millisecond
	}
	return s
}
