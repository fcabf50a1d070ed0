package cli

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const testAnalysisJSON = `{
  "deal_name": "Deal_Alpha",
  "template_name": "LMA_Leveraged_2023",
  "overall_score": 6.5,
  "risk_label": "Medium",
  "deviations": [
    {"clause": "23.4", "type": "Event of Default", "risk_level": "Low", "description": "Grace period extended", "recommendation": "Accept"},
    {"clause": "22.1", "type": "Financial Covenant", "risk_level": "High", "description": "Leverage 4.50:1", "recommendation": "Negotiate to 3.00:1"}
  ],
  "counts": {"High": 1, "Medium": 0, "Low": 1}
}`

const testPortfolioJSON = `[
  {"id": "1", "deal_name": "Project Alpha", "jurisdiction": "English Law", "vintage": "2023", "risk_score": 2.0, "risk_label": "Low", "high_risk_count": 0, "medium_risk_count": 2, "low_risk_count": 3, "is_red_flag": false},
  {"id": "2", "deal_name": "Zenith Facility", "jurisdiction": "Irish Law", "vintage": "2019", "risk_score": 8.0, "risk_label": "High", "high_risk_count": 3, "medium_risk_count": 2, "low_risk_count": 1, "is_red_flag": true}
]`

// fakeAPI is an in-process analysis backend. Handlers answer from the
// exported fields so each test can adjust one response.
type fakeAPI struct {
	mu        sync.Mutex
	Samples   string
	Analysis  string
	Portfolio string
	Stats     string
	Versions  string
	Diff      string
	Report    string
	Status    map[string]int
	bodies    []string

	srv *httptest.Server
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{
		Samples:   `{"samples": ["Deal_Alpha.txt", "Deal_Beta.txt"]}`,
		Analysis:  testAnalysisJSON,
		Portfolio: testPortfolioJSON,
		Stats:     `{"total_deals": 2, "high_risk_count": 1, "high_risk_percentage": 50.0, "average_risk_score": 5.0, "jurisdiction_breakdown": {"English Law": 1, "Irish Law": 1}, "pre_2020_documentation": 1, "red_flags": 1}`,
		Versions:  `{"versions": ["Deal_Delta_Oct2022.txt", "Deal_Delta_Mar2023.txt"]}`,
		Diff:      `{"changes": ["- Margin: 3.75%", "+ Margin: 4.25%", "  Clause 22.1 unchanged"]}`,
		Report:    "COMPLIANCE REPORT\nDeal_Alpha\n",
		Status:    map[string]int{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", f.answer("health", `{"status": "ok"}`))
	mux.HandleFunc("GET /api/analyze/samples", f.answer("samples", ""))
	mux.HandleFunc("POST /api/analyze/{$}", f.answer("analyze", ""))
	mux.HandleFunc("POST /api/analyze/add-to-portfolio", f.answer("add", ""))
	mux.HandleFunc("GET /api/portfolio/{$}", f.answer("portfolio", ""))
	mux.HandleFunc("GET /api/portfolio/stats", f.answer("stats", ""))
	mux.HandleFunc("GET /api/amendments/{base}/versions", f.answer("versions", ""))
	mux.HandleFunc("GET /api/amendments/compare", f.answer("compare", ""))
	mux.HandleFunc("GET /api/report/{deal}", f.answer("report", ""))

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAPI) URL() string { return f.srv.URL + "/api" }

func (f *fakeAPI) Bodies() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.bodies...)
}

func (f *fakeAPI) answer(route, fixed string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		f.mu.Lock()
		f.bodies = append(f.bodies, string(body))
		status, ok := f.Status[route]
		var payload string
		switch route {
		case "samples":
			payload = f.Samples
		case "analyze":
			payload = f.Analysis
		case "add":
			payload = `{"analysis": ` + f.Analysis + `, "portfolio_status": {"message": "Deal added to portfolio"}}`
		case "portfolio":
			payload = f.Portfolio
		case "stats":
			payload = f.Stats
		case "versions":
			payload = f.Versions
		case "compare":
			payload = f.Diff
		case "report":
			payload = f.Report
		default:
			payload = fixed
		}
		f.mu.Unlock()

		if !ok {
			status = http.StatusOK
		}
		if status >= 400 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = io.WriteString(w, `{"detail": "`+route+` failed"}`)
			return
		}
		if route == "report" {
			w.Header().Set("Content-Type", "text/plain")
		} else {
			w.Header().Set("Content-Type", "application/json")
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, payload)
	}
}

// setupCLI isolates a test from real config files and points the client at
// api. Pass nil to leave the backend unset.
func setupCLI(t *testing.T, api *fakeAPI) string {
	t.Helper()
	dir := t.TempDir()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })

	t.Setenv("HOME", dir)
	for _, name := range []string{"DOCCOMPARE_API_URL", "DOCCOMPARE_TEMPLATE", "DOCCOMPARE_TIMEOUT",
		"DOCCOMPARE_LISTEN", "DOCCOMPARE_LOG_LEVEL", "DOCCOMPARE_BASE_DEAL"} {
		t.Setenv(name, "")
		_ = os.Unsetenv(name)
	}
	t.Setenv("DOCCOMPARE_LOG_LEVEL", "error")
	if api != nil {
		t.Setenv("DOCCOMPARE_API_URL", api.URL())
	}
	return dir
}

// runCLI executes the root command with args and returns what it wrote to
// stdout. Flag values from earlier runs are reset first.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(RootCmd)

	var out, errOut bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&errOut)
	RootCmd.SetArgs(args)
	t.Cleanup(func() {
		RootCmd.SetOut(nil)
		RootCmd.SetErr(nil)
		RootCmd.SetArgs(nil)
	})

	err := Execute()
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}
