package firetrack

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/zenfield/firetrack/api"
)

func newReplacementEnv(t *testing.T) (*testEnv, *ReplacementFlow) {
	t.Helper()
	env := newTestEnv(t, nil, nil)
	mustLogin(t, env, time.Hour)
	env.api.assetFn = func(ctx context.Context, id int64) (*api.Asset, error) {
		return &api.Asset{ID: id, Location: "somewhere"}, nil
	}
	return env, env.client.NewReplacementFlow()
}

func scanUnit(t *testing.T, flow *ReplacementFlow, id int64) error {
	t.Helper()
	if err := flow.StartCapture(); err != nil {
		t.Fatalf("StartCapture failed: %v", err)
	}
	return flow.HandleBarcode(context.Background(), `{"id": `+strconv.FormatInt(id, 10)+`}`)
}

func TestReplacementHappyPath(t *testing.T) {
	env, flow := newReplacementEnv(t)

	var recorded api.ReplacementInput
	env.api.replaceFn = func(ctx context.Context, in api.ReplacementInput) error {
		recorded = in
		return nil
	}

	if err := scanUnit(t, flow, 7); err != nil {
		t.Fatalf("original scan failed: %v", err)
	}
	if flow.Step() != StepScanReplacement {
		t.Fatalf("step = %v, want scan replacement", flow.Step())
	}
	if err := scanUnit(t, flow, 9); err != nil {
		t.Fatalf("replacement scan failed: %v", err)
	}
	if flow.Step() != StepFillForm {
		t.Fatalf("step = %v, want fill form", flow.Step())
	}

	cond := Condition{
		CylinderCondition: "good",
		HoseCondition:     "good",
		StandCondition:    "rusted",
		FullWeight:        6,
		ActualWeight:      5.4,
	}
	if err := flow.Submit(context.Background(), cond, cond, "unit swapped"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if recorded.OriginalExtinguisherID != 7 || recorded.ReplacementExtinguisherID != 9 {
		t.Fatalf("recorded ids = %d -> %d", recorded.OriginalExtinguisherID, recorded.ReplacementExtinguisherID)
	}
	if recorded.Notes != "unit swapped" {
		t.Fatalf("recorded notes = %q", recorded.Notes)
	}
}

func TestReplacementRejectsSameUnit(t *testing.T) {
	env, flow := newReplacementEnv(t)

	if err := scanUnit(t, flow, 7); err != nil {
		t.Fatalf("original scan failed: %v", err)
	}
	err := scanUnit(t, flow, 7)
	if !errors.Is(err, ErrDuplicateSubject) {
		t.Fatalf("err = %v, want ErrDuplicateSubject", err)
	}
	if flow.Step() != StepScanReplacement {
		t.Fatalf("step = %v, must stay at scan replacement", flow.Step())
	}
	if _, ok := flow.Replacement(); ok {
		t.Fatal("rejected scan must not set the replacement")
	}
	if env.client.MetricsSnapshot().Value(MetricReplacementDuplicate) != 1 {
		t.Fatal("expected duplicate counter increment")
	}

	// The flow reopens capture; a distinct unit goes through directly.
	if err := flow.HandleBarcode(context.Background(), `{"id": 9}`); err != nil {
		t.Fatalf("retry scan failed: %v", err)
	}
	if flow.Step() != StepFillForm {
		t.Fatalf("step = %v, want fill form after retry", flow.Step())
	}
}

func TestReplacementSubmitRequiresBothScans(t *testing.T) {
	_, flow := newReplacementEnv(t)

	cond := Condition{CylinderCondition: "good", HoseCondition: "good", StandCondition: "good", FullWeight: 6, ActualWeight: 5}
	err := flow.Submit(context.Background(), cond, cond, "notes")
	if !errors.Is(err, ErrReplacementIncomplete) {
		t.Fatalf("err = %v, want ErrReplacementIncomplete", err)
	}
}

func TestReplacementSubmitValidatesForm(t *testing.T) {
	_, flow := newReplacementEnv(t)
	if err := scanUnit(t, flow, 7); err != nil {
		t.Fatalf("original scan failed: %v", err)
	}
	if err := scanUnit(t, flow, 9); err != nil {
		t.Fatalf("replacement scan failed: %v", err)
	}

	complete := Condition{CylinderCondition: "good", HoseCondition: "good", StandCondition: "good", FullWeight: 6, ActualWeight: 5}
	incomplete := complete
	incomplete.HoseCondition = ""

	cases := map[string]struct {
		orig, repl Condition
		notes      string
	}{
		"missing original field":    {orig: incomplete, repl: complete, notes: "ok"},
		"missing replacement field": {orig: complete, repl: incomplete, notes: "ok"},
		"blank notes":               {orig: complete, repl: complete, notes: "   "},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := flow.Submit(context.Background(), tc.orig, tc.repl, tc.notes)
			if !errors.Is(err, ErrIncompleteForm) {
				t.Fatalf("err = %v, want ErrIncompleteForm", err)
			}
		})
	}

	// Still at the form step; a corrected submission succeeds.
	if flow.Step() != StepFillForm {
		t.Fatalf("step = %v, want fill form after failed submissions", flow.Step())
	}
}

func TestReplacementResetReturnsToStart(t *testing.T) {
	_, flow := newReplacementEnv(t)
	if err := scanUnit(t, flow, 7); err != nil {
		t.Fatalf("original scan failed: %v", err)
	}

	flow.Reset()
	if flow.Step() != StepScanOriginal {
		t.Fatalf("step = %v, want scan original", flow.Step())
	}
	if _, ok := flow.Original(); ok {
		t.Fatal("reset must clear the original")
	}
}
