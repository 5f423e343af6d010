package observ

import (
	"strings"
	"testing"
	"time"
)

func fakeClock(step time.Duration) func() time.Time {
	now := time.Unix(0, 0)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func TestTimerPhases(t *testing.T) {
	timer := NewTimer()
	timer.now = fakeClock(2 * time.Millisecond)

	parse := timer.Begin("parse")
	timer.End(parse, "0 diagnostics")
	rough := timer.Begin("rough")
	timer.End(rough, "")
	timer.End(42, "ignored")

	r := timer.Report()
	if len(r.Phases) != 2 || r.Phases[0].Name != "parse" || r.Phases[0].Note != "0 diagnostics" {
		t.Fatalf("unexpected report %+v", r)
	}
	if r.Phases[0].DurationMS != 2 || r.TotalMS != 4 {
		t.Fatalf("durations = %+v", r)
	}
	sum := timer.Summary()
	if !strings.Contains(sum, "parse") || !strings.Contains(sum, "// 0 diagnostics") || !strings.Contains(sum, "total") {
		t.Fatalf("unexpected summary:\n%s", sum)
	}
}

func TestReportAdd(t *testing.T) {
	var total Report
	total.Add(Report{TotalMS: 3, Phases: []PhaseReport{{Name: "parse", DurationMS: 1, Note: "x"}, {Name: "rough", DurationMS: 2}}})
	total.Add(Report{TotalMS: 1, Phases: []PhaseReport{{Name: "parse", DurationMS: 1}}})
	if len(total.Phases) != 2 || total.Phases[0].DurationMS != 2 || total.TotalMS != 4 {
		t.Fatalf("unexpected sum %+v", total)
	}
	if total.Phases[0].Note != "" {
		t.Fatalf("notes must not be aggregated")
	}
}
