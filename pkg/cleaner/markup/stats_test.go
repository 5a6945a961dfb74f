package markup

import (
	"strings"
	"testing"
)

func TestCleanWithStats(t *testing.T) {
	input := readTestdata(t, "pricing_interleaved.txt")

	res := New().CleanWithStats(input)

	if res.Content != Clean(input) {
		t.Errorf("CleanWithStats().Content differs from Clean()")
	}

	st := res.Stats
	if st.InputBytes != len(input) {
		t.Errorf("InputBytes = %d, want %d", st.InputBytes, len(input))
	}
	if st.OutputBytes != len(res.Content) {
		t.Errorf("OutputBytes = %d, want %d", st.OutputBytes, len(res.Content))
	}
	if len(st.Stages) != 6 {
		t.Fatalf("len(Stages) = %d, want 6", len(st.Stages))
	}
	if got := st.RuleDrops["this-code"]; got != 1 {
		t.Errorf("RuleDrops[this-code] = %d, want 1", got)
	}
	if got := st.LinesDropped(); got != 1 {
		t.Errorf("LinesDropped() = %d, want 1", got)
	}

	leading := st.Stage("leading")
	if leading == nil {
		t.Fatal("Stage(leading) = nil")
	}
	if leading.LinesOut != leading.LinesIn-1 {
		t.Errorf("leading lines %d -> %d, want one line removed", leading.LinesIn, leading.LinesOut)
	}

	if st.ReductionPercent() <= 0 {
		t.Errorf("ReductionPercent() = %f, want > 0", st.ReductionPercent())
	}
}

func TestCleanWithStats_SkippedProse(t *testing.T) {
	res := New().CleanWithStats("plain words only")

	prose := res.Stats.Stage("prose")
	if prose == nil {
		t.Fatal("Stage(prose) = nil")
	}
	if !prose.Skipped {
		t.Error("prose stage should be skipped without markup")
	}
	if res.Content != "plain words only" {
		t.Errorf("Content = %q", res.Content)
	}
}

func TestStats_String(t *testing.T) {
	st := NewStats()
	st.InputBytes = 2048
	st.OutputBytes = 1024
	st.RecordDrop("note")
	st.RecordDrop("bullet")
	st.RecordDrop("note")
	st.recordSkip("prose", "abc")

	got := st.String()
	for _, want := range []string{
		"50.0% reduction",
		"prose     skipped",
		"Dropped by rule: bullet=1, note=2",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("String() missing %q\n%s", want, got)
		}
	}
}

func TestStats_Empty(t *testing.T) {
	st := NewStats()
	if st.ReductionPercent() != 0 {
		t.Errorf("ReductionPercent() = %f, want 0", st.ReductionPercent())
	}
	if st.Stage("fences") != nil {
		t.Error("Stage() on empty stats should be nil")
	}
	if lineCount("") != 0 || lineCount("a\nb") != 2 {
		t.Error("lineCount mismatch")
	}
}
