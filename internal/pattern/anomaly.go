package pattern

import (
	"fmt"
	"math"
	"strings"

	"github.com/Veraticus/ledgerlens/internal/model"
	"github.com/Veraticus/ledgerlens/internal/stats"
)

const (
	anomalyMinPoints = 4
	anomalyZ         = 2.0
	anomalyHighZ     = 3.0
)

// AnomalyDetector flags months whose z-score exceeds two standard
// deviations.
type AnomalyDetector struct{}

// Name implements Detector.
func (AnomalyDetector) Name() string { return "anomaly" }

// Detect implements Detector.
func (AnomalyDetector) Detect(in Input) Result {
	var out Result
	if !usable(in) {
		return out
	}
	for _, col := range statColumns {
		def, _ := model.SeriesFor(col)
		s := in.Panel.Series(col)
		if s.Len() < anomalyMinPoints {
			continue
		}
		zs := stats.ZScores(s.Values)
		if zs == nil {
			continue
		}
		mean := stats.Mean(s.Values)
		std := stats.StdDev(s.Values)
		expected := model.ValueRange{
			Low:  stats.Round(mean-2*std, 2),
			High: stats.Round(mean+2*std, 2),
		}

		for i, z := range zs {
			if math.Abs(z) <= anomalyZ {
				continue
			}
			month := s.Months[i]
			value := s.Values[i]
			direction := "below"
			if z > 0 {
				direction = "above"
			}
			severity := model.SeverityMedium
			if math.Abs(z) > anomalyHighZ {
				severity = model.SeverityHigh
			}

			spec := seriesEvidence(in.Panel, s,
				fmt.Sprintf("z_score = (%.0f - %.0f) / %.0f = %.2f", value, mean, std, z), nil)
			spec.Filters = map[string]string{"month": month.String()}

			out.Anomalies = append(out.Anomalies, model.DataAnomaly{
				ID:             fmt.Sprintf("%s_anomaly_%s", def.Prefix, strings.ReplaceAll(month.String(), "-", "_")),
				Description:    fmt.Sprintf("%s in %s was %s normal range (z-score: %.2f)", def.Label, month, direction, z),
				Severity:       severity,
				AffectedMetric: col,
				Chain:          model.NewEvidenceChain(spec),
				Values:         []float64{stats.Round(value, 2)},
				ExpectedRange:  expected,
				Recommendation: fmt.Sprintf("Investigate what happened in %s that caused %s to be %.0f %s average",
					month, strings.ToLower(def.Label), math.Abs(value-mean), direction),
			})
		}
	}
	return out
}
