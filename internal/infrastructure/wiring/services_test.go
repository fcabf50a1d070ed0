package wiring

import (
	"testing"

	"github.com/felixgeelhaar/doccompare/internal/infrastructure/config"
)

func TestBuildAppServicesDefaults(t *testing.T) {
	cfg := config.Default()
	services, err := BuildAppServices(cfg, nil)
	if err != nil {
		t.Fatalf("build services failed: %v", err)
	}
	if services.Client == nil || services.SingleDeal == nil || services.Portfolio == nil || services.Amendments == nil {
		t.Fatalf("expected non-nil services, got %+v", services)
	}
	if services.Client.BaseURL() != config.DefaultAPIURL {
		t.Errorf("base url = %s", services.Client.BaseURL())
	}
	if services.Client.TemplateID() != cfg.API.Template {
		t.Errorf("template = %s", services.Client.TemplateID())
	}
	if got := services.Amendments.View().Family; got != "Deal_Delta" {
		t.Errorf("family = %s", got)
	}
}

func TestBuildAppServicesErrors(t *testing.T) {
	if _, err := BuildAppServices(nil, nil); err == nil {
		t.Error("expected error for nil config")
	}
	cfg := config.Default()
	cfg.Log.Level = "loud"
	if _, err := BuildAppServices(cfg, nil); err == nil {
		t.Error("expected error for bad log level")
	}
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("debug")
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if logger == nil {
		t.Fatal("expected logger")
	}
}
