package e2e

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// newBackend serves a minimal analysis backend with one deal family.
func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	write := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, body)
		}
	}
	analysis := `{"deal_name": "Deal_Alpha", "template_name": "LMA_Leveraged_2023", "overall_score": 7.5, "risk_label": "High",
		"deviations": [{"clause": "22.1", "type": "Financial Covenant", "risk_level": "High", "description": "Leverage 5.00:1", "recommendation": "Negotiate"}],
		"counts": {"High": 1, "Medium": 0, "Low": 0}}`

	mux.HandleFunc("GET /{$}", write(`{"status": "ok"}`))
	mux.HandleFunc("GET /api/analyze/samples", write(`{"samples": ["Deal_Alpha.txt"]}`))
	mux.HandleFunc("POST /api/analyze/{$}", write(analysis))
	mux.HandleFunc("GET /api/portfolio/{$}", write(`[{"id": "1", "deal_name": "Deal_Alpha", "jurisdiction": "UAE", "vintage": "2018", "risk_score": 7.5, "risk_label": "High", "high_risk_count": 1, "medium_risk_count": 0, "low_risk_count": 0, "is_red_flag": true}]`))
	mux.HandleFunc("GET /api/portfolio/stats", write(`{"total_deals": 1, "high_risk_count": 1, "high_risk_percentage": 100, "average_risk_score": 7.5, "jurisdiction_breakdown": {"UAE": 1}, "pre_2020_documentation": 1, "red_flags": 1}`))
	mux.HandleFunc("GET /api/amendments/{base}/versions", write(`{"versions": ["Deal_Delta_Oct2022.txt", "Deal_Delta_Mar2023.txt"]}`))
	mux.HandleFunc("GET /api/amendments/compare", write(`{"changes": ["- Margin: 3.75%", "+ Margin: 4.25%"]}`))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHappyPath(t *testing.T) {
	distDir, _ := filepath.Abs("../../dist")
	bin := filepath.Join(distDir, "doccompare")
	if _, err := os.Stat(bin); err != nil {
		t.Skipf("binary not built at %s", bin)
	}

	backend := newBackend(t)
	tempDir := t.TempDir()

	run := func(args ...string) string {
		cmd := exec.Command(bin, args...)
		cmd.Dir = tempDir
		cmd.Env = append(os.Environ(),
			"HOME="+tempDir,
			"DOCCOMPARE_API_URL="+backend.URL+"/api",
			"DOCCOMPARE_LOG_LEVEL=error",
		)
		output, err := cmd.CombinedOutput()
		if err != nil {
			t.Fatalf("doccompare %v failed: %v\nOutput: %s", args, err, output)
		}
		return string(output)
	}

	t.Log("Running doccompare doctor...")
	if out := run("doctor"); !strings.Contains(out, "All checks passed.") {
		t.Errorf("Unexpected doctor output: %s", out)
	}

	t.Log("Running doccompare analyze...")
	if out := run("analyze", "Deal_Alpha.txt"); !strings.Contains(out, "Overall score: 7.5/10") {
		t.Errorf("Unexpected analyze output: %s", out)
	}

	t.Log("Running doccompare portfolio...")
	if out := run("portfolio", "-j", "UAE"); !strings.Contains(out, "Deal_Alpha") {
		t.Errorf("Unexpected portfolio output: %s", out)
	}

	t.Log("Running doccompare compare...")
	out := run("compare", "Deal_Delta_Oct2022.txt", "Deal_Delta_Mar2023.txt")
	if !strings.Contains(out, "+ Margin: 4.25%") {
		t.Errorf("Unexpected compare output: %s", out)
	}
}
