package metrics

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/ledgerlens/internal/model"
	"github.com/Veraticus/ledgerlens/internal/panel"
	"github.com/Veraticus/ledgerlens/internal/stats"
)

// SignalMetrics evaluates each signal on the most recent month where both
// operand columns are non-null and non-zero. Signals whose operands are
// missing from the panel are skipped.
func SignalMetrics(p *panel.Panel, signals []model.Signal) []model.ComputedMetric {
	months := p.Months()
	var out []model.ComputedMetric
	for _, sig := range signals {
		if len(sig.Operands) != 2 || !p.Has(sig.Operands[0]) || !p.Has(sig.Operands[1]) {
			slog.Debug("Skipping signal with missing operands", "signal", sig.ID)
			continue
		}
		a, b := sig.Operands[0], sig.Operands[1]
		for i := len(months) - 1; i >= 0; i-- {
			m := months[i]
			av, aok := p.Value(a, m)
			bv, bok := p.Value(b, m)
			if !aok || !bok || av == 0 || bv == 0 {
				continue
			}
			result, ok := sig.Op.Apply(av, bv)
			if !ok {
				continue
			}
			result *= sig.Factor()

			computation := fmt.Sprintf("%s(%.0f) %s %s(%.0f)", a, av, sig.Op.Symbol(), b, bv)
			if sig.Factor() != 1 {
				computation += fmt.Sprintf(" × %g", sig.Factor())
			}
			label := sig.Label
			if label == "" {
				label = sig.ID
			}
			out = append(out, newMetric(metricSpec{
				id:       sig.ID,
				label:    label,
				unit:     sig.Unit,
				category: model.CategorySignal,
				value:    stats.Round(result, 2),
				conf:     signalConfidence,
				evidence: model.EvidenceSpec{
					Dataset:     p.DatasetLabel(a, b),
					Columns:     []string{a, b},
					Filters:     monthFilter(m),
					Computation: computation,
					SampleSize:  1,
					TimeRange:   &model.TimeRange{Start: m, End: m},
				},
			}))
			break
		}
	}
	return out
}
