package dashboard

import (
	"fmt"
	"html/template"
	"net/url"

	"github.com/felixgeelhaar/doccompare/pkg/domain/deal"
	"github.com/felixgeelhaar/doccompare/pkg/domain/portfolio"
)

var funcMap = template.FuncMap{
	"riskClass":   riskClass,
	"riskBadge":   riskBadge,
	"bandClass":   bandClass,
	"barPercent":  portfolio.BarPercent,
	"score":       formatScore,
	"versionName": deal.DisplayVersionName,
	"lineClass":   lineClass,
	"query":       url.QueryEscape,
	"path":        url.PathEscape,
}

func riskClass(level deal.RiskLevel) string {
	return level.Display().CSSClass
}

func riskBadge(level deal.RiskLevel) string {
	return level.Display().Badge
}

func bandClass(score float64) string {
	return "band-" + string(portfolio.ScoreBand(score))
}

func formatScore(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

func lineClass(kind deal.LineKind) string {
	switch kind {
	case deal.LineAdded:
		return "line-added"
	case deal.LineRemoved:
		return "line-removed"
	default:
		return "line-context"
	}
}
