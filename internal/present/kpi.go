package present

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/message"

	"pulse-dashboard/internal/model"
)

type kpiRenderer struct {
	printer *message.Printer
}

// Render shows one figure per measure, summed over all rows
func (k *kpiRenderer) Render(res *model.Result, style Style) (*Artifact, error) {
	a := newArtifact(KindKPI, res, style)
	// a total always has a row, so an empty KPI is not a missing-data case
	a.Notice = ""

	for _, name := range res.Measures {
		label := name
		if l, ok := style.Labels[name]; ok {
			label = l
		}
		total := res.Total(name)
		a.KPIs = append(a.KPIs, KPI{
			Label: label,
			Value: style.Currency + k.format(total),
			Raw:   total.String(),
		})
	}
	return a, nil
}

func (k *kpiRenderer) format(d decimal.Decimal) string {
	if d.IsInteger() {
		return k.printer.Sprintf("%d", d.IntPart())
	}
	return k.printer.Sprintf("%.2f", d.InexactFloat64())
}
