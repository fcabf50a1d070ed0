package application

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/felixgeelhaar/doccompare/pkg/domain/amendment"
	"github.com/felixgeelhaar/doccompare/pkg/domain/deal"
)

func amendmentBackend() *fakeBackend {
	return &fakeBackend{
		versions: map[string][]string{
			"Deal_Delta": {"Deal_Delta_Oct2022", "Deal_Delta_Mar2023", "Deal_Delta_Nov2023"},
			"Deal_Solo":  {"Deal_Solo_Jan2024"},
			"Deal_None":  {},
		},
		diffs: map[string]*deal.VersionDiff{
			pairKey("Deal_Delta_Oct2022", "Deal_Delta_Mar2023"): {Changes: []string{"+ Mar clause"}},
			pairKey("Deal_Delta_Oct2022", "Deal_Delta_Nov2023"): {Changes: []string{"+ New clause", "- Removed clause", " Unchanged line"}},
			pairKey("Deal_Delta_Mar2023", "Deal_Delta_Mar2023"): {Changes: []string{}},
		},
		gates: map[string]chan struct{}{},
	}
}

func TestAmendmentService_LoadVersionsInitialisesPair(t *testing.T) {
	backend := amendmentBackend()
	svc := NewAmendmentService(backend, "Deal_Delta", nil)
	ctx := context.Background()

	req, ok, err := svc.LoadVersions(ctx, "Deal_Delta")
	if err != nil || !ok {
		t.Fatalf("LoadVersions = %+v, %v, %v", req, ok, err)
	}
	if req.V1 != "Deal_Delta_Oct2022" || req.V2 != "Deal_Delta_Mar2023" {
		t.Errorf("req = %+v", req)
	}
	if applied, err := svc.FetchDiff(ctx, req); !applied || err != nil {
		t.Fatalf("FetchDiff = %v, %v", applied, err)
	}

	v := svc.View()
	if v.State != amendment.StateChanges || len(v.Lines) != 1 {
		t.Errorf("view = %+v", v)
	}
	if len(v.Timeline) != 3 {
		t.Errorf("timeline = %+v", v.Timeline)
	}

	_, ok, err = svc.LoadVersions(ctx, "Deal_Solo")
	if err != nil || ok {
		t.Errorf("single version should not request a diff: ok=%v err=%v", ok, err)
	}
	if v := svc.View(); v.V1 != "Deal_Solo_Jan2024" || v.V2 != "" || v.State != amendment.StateEmpty {
		t.Errorf("view = %+v", v)
	}

	_, ok, _ = svc.LoadVersions(ctx, "Deal_None")
	if ok {
		t.Error("no versions should not request a diff")
	}
	if len(backend.calls()) != 1 {
		t.Errorf("compare calls = %v", backend.calls())
	}
}

func TestAmendmentService_ExactlyOneFetchPerSelection(t *testing.T) {
	backend := amendmentBackend()
	svc := NewAmendmentService(backend, "Deal_Delta", nil)
	ctx := context.Background()

	if _, ok := svc.SelectV1("Deal_Delta_Oct2022"); ok {
		t.Fatal("no request while v2 is empty")
	}
	req, ok := svc.SelectV2("Deal_Delta_Mar2023")
	if !ok {
		t.Fatal("expected a request")
	}
	_, _ = svc.FetchDiff(ctx, req)

	req, ok = svc.SelectV2("Deal_Delta_Nov2023")
	if !ok {
		t.Fatal("expected a request")
	}
	_, _ = svc.FetchDiff(ctx, req)

	want := []string{
		pairKey("Deal_Delta_Oct2022", "Deal_Delta_Mar2023"),
		pairKey("Deal_Delta_Oct2022", "Deal_Delta_Nov2023"),
	}
	got := backend.calls()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("compare calls = %v, want %v", got, want)
	}
}

func TestAmendmentService_StaleResponseDiscarded(t *testing.T) {
	backend := amendmentBackend()
	slow := make(chan struct{})
	backend.gates[pairKey("Deal_Delta_Oct2022", "Deal_Delta_Mar2023")] = slow

	svc := NewAmendmentService(backend, "Deal_Delta", nil)
	ctx := context.Background()

	svc.SelectV1("Deal_Delta_Oct2022")
	stale, _ := svc.SelectV2("Deal_Delta_Mar2023")

	type outcome struct {
		applied bool
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		applied, err := svc.FetchDiff(ctx, stale)
		done <- outcome{applied, err}
	}()

	// Wait until the stale request is actually in flight.
	for len(backend.calls()) == 0 {
		runtime.Gosched()
	}

	fresh, _ := svc.SelectV2("Deal_Delta_Nov2023")
	if applied, err := svc.FetchDiff(ctx, fresh); !applied || err != nil {
		t.Fatalf("fresh FetchDiff = %v, %v", applied, err)
	}

	close(slow)
	res := <-done
	if res.applied || res.err != nil {
		t.Errorf("stale FetchDiff = %v, %v, want discarded", res.applied, res.err)
	}

	v := svc.View()
	if v.V2 != "Deal_Delta_Nov2023" {
		t.Errorf("V2 = %s", v.V2)
	}
	if len(v.Lines) != 3 || v.Lines[0].Text != "+ New clause" {
		t.Errorf("displayed lines = %+v, want the Nov diff", v.Lines)
	}
	if v.Lines[0].Kind != deal.LineAdded || v.Lines[1].Kind != deal.LineRemoved || v.Lines[2].Kind != deal.LineContext {
		t.Errorf("classification = %+v", v.Lines)
	}
}

func TestAmendmentService_NewerSelectionCancelsInFlight(t *testing.T) {
	backend := amendmentBackend()
	// Never opened: the request can only finish through cancellation.
	backend.gates[pairKey("Deal_Delta_Oct2022", "Deal_Delta_Mar2023")] = make(chan struct{})

	svc := NewAmendmentService(backend, "Deal_Delta", nil)
	svc.SelectV1("Deal_Delta_Oct2022")
	stale, _ := svc.SelectV2("Deal_Delta_Mar2023")

	done := make(chan bool, 1)
	go func() {
		applied, _ := svc.FetchDiff(context.Background(), stale)
		done <- applied
	}()
	for len(backend.calls()) == 0 {
		runtime.Gosched()
	}

	svc.SelectV2("Deal_Delta_Nov2023")

	select {
	case applied := <-done:
		if applied {
			t.Error("cancelled request should not be applied")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("in-flight request was not cancelled by the newer selection")
	}
}

func TestAmendmentService_NoDifferencesAndFailure(t *testing.T) {
	backend := amendmentBackend()
	svc := NewAmendmentService(backend, "Deal_Delta", nil)
	ctx := context.Background()

	if err := svc.Compare(ctx, "Deal_Delta_Mar2023", "Deal_Delta_Mar2023"); err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if s := svc.View().State; s != amendment.StateNoDifferences {
		t.Errorf("state = %v, want no_differences", s)
	}

	boom := errors.New("diff engine down")
	backend.diffErr = boom
	req, _ := svc.Retry()
	if _, err := svc.FetchDiff(ctx, req); !errors.Is(err, boom) {
		t.Fatalf("FetchDiff error = %v", err)
	}
	v := svc.View()
	if v.State != amendment.StateFailed || !errors.Is(v.Err, boom) {
		t.Errorf("view = %+v", v)
	}
}

func TestAmendmentService_VersionLoadFailure(t *testing.T) {
	svc := NewAmendmentService(amendmentBackend(), "Deal_Delta", nil)
	if _, _, err := svc.LoadVersions(context.Background(), "Deal_Unknown"); err == nil {
		t.Fatal("expected error")
	}
	if v := svc.View(); v.State != amendment.StateFailed || v.Err == nil {
		t.Errorf("view = %+v", v)
	}
}
