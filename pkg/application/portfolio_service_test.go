package application

import (
	"context"
	"errors"
	"testing"

	"github.com/felixgeelhaar/doccompare/pkg/domain/deal"
	"github.com/felixgeelhaar/doccompare/pkg/domain/portfolio"
)

func portfolioItems() []deal.PortfolioItem {
	return []deal.PortfolioItem{
		{ID: "1", Jurisdiction: deal.JurisdictionEnglishLaw, RiskScore: 2, RiskLabel: deal.RiskLow},
		{ID: "2", Jurisdiction: deal.JurisdictionIrishLaw, RiskScore: 8, RiskLabel: deal.RiskHigh, IsRedFlag: true},
		{ID: "3", Jurisdiction: deal.JurisdictionEnglishLaw, RiskScore: 5, RiskLabel: deal.RiskMedium},
	}
}

func TestPortfolioService_LoadAndFilter(t *testing.T) {
	backend := &fakeBackend{items: portfolioItems(), stats: &deal.PortfolioStats{TotalDeals: 3}}
	svc := NewPortfolioService(backend, nil)

	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	v := svc.View()
	if v.Total != 3 || len(v.Items) != 3 || v.Filter != deal.JurisdictionAll {
		t.Fatalf("view = %+v", v)
	}
	if v.Summary.AverageLabel() != "5.0" || v.Summary.HighRiskDeals != 1 {
		t.Errorf("summary = %+v", v.Summary)
	}
	if v.Backend == nil || v.Backend.TotalDeals != 3 {
		t.Errorf("backend stats = %+v", v.Backend)
	}

	svc.SetFilter(deal.JurisdictionEnglishLaw)
	v = svc.View()
	if len(v.Items) != 2 || v.Items[0].ID != "1" || v.Items[1].ID != "3" {
		t.Errorf("filtered = %+v", v.Items)
	}
	if v.Summary.TotalDeals != 3 {
		t.Error("summary must cover every deal, not the filtered subset")
	}

	svc.SetFilter(deal.JurisdictionAll)
	if got := svc.View().Items; len(got) != 3 || got[0].ID != "1" || got[2].ID != "3" {
		t.Errorf("All should restore original order, got %+v", got)
	}

	if j := svc.CycleFilter(); j != deal.JurisdictionEnglishLaw {
		t.Errorf("CycleFilter = %s", j)
	}
}

func TestPortfolioService_Empty(t *testing.T) {
	svc := NewPortfolioService(&fakeBackend{items: []deal.PortfolioItem{}}, nil)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	v := svc.View()
	if !v.Empty() {
		t.Error("expected empty view")
	}
	if v.Summary.AverageLabel() != portfolio.NoDataLabel {
		t.Errorf("average = %q", v.Summary.AverageLabel())
	}
}

func TestPortfolioService_StatsFailureIsNotFatal(t *testing.T) {
	svc := NewPortfolioService(&fakeBackend{items: portfolioItems(), statsErr: errors.New("no stats")}, nil)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if v := svc.View(); v.Backend != nil || v.Total != 3 {
		t.Errorf("view = %+v", v)
	}
}

func TestPortfolioService_LoadFailureSurfaced(t *testing.T) {
	boom := errors.New("portfolio down")
	svc := NewPortfolioService(&fakeBackend{itemsErr: boom}, nil)
	if err := svc.Load(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Load error = %v", err)
	}
	v := svc.View()
	if !errors.Is(v.Err, boom) || v.Loading || v.Empty() {
		t.Errorf("view = %+v", v)
	}
}
