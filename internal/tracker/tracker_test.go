package tracker

import (
	"testing"

	"livecap/internal/textnorm"
)

type sliceHistory struct {
	texts []string
}

func (h *sliceHistory) RecentTexts(n int) []string {
	if n <= 0 || len(h.texts) == 0 {
		return nil
	}
	start := len(h.texts) - n
	if start < 0 {
		start = 0
	}
	return h.texts[start:]
}

func (h *sliceHistory) add(text string) {
	h.texts = append(h.texts, text)
}

func newTestTracker(recent RecentHistory) *Tracker {
	return New(DefaultTuning(), textnorm.NewPatterns(), recent, nil)
}

// admitAll feeds snapshots and records accepted deltas in the history, the
// way the engine wires the accumulator in.
func admitAll(t *testing.T, trk *Tracker, history *sliceHistory, snapshots []string) []string {
	t.Helper()
	var out []string
	for _, snap := range snapshots {
		if text, ok := trk.Admit(snap); ok {
			out = append(out, text)
			if history != nil {
				history.add(text)
			}
		}
	}
	return out
}

func TestTrackerConvergence(t *testing.T) {
	history := &sliceHistory{}
	trk := newTestTracker(history)

	got := admitAll(t, trk, history, []string{"A", "A B", "A B C"})
	want := []string{"A", "B", "C"}
	if len(got) != len(want) {
		t.Fatalf("deltas = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("delta[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTrackerIdenticalReadmit(t *testing.T) {
	trk := newTestTracker(nil)

	if _, ok := trk.Admit("안녕하세요"); !ok {
		t.Fatal("first admit should accept")
	}
	if text, ok := trk.Admit("안녕하세요"); ok {
		t.Errorf("second admit = (%q, true), want empty", text)
	}
}

func TestTrackerGrowingSnapshot(t *testing.T) {
	trk := newTestTracker(nil)

	text, ok := trk.Admit("안녕하세요")
	if !ok || text != "안녕하세요" {
		t.Fatalf("Admit() = (%q, %v)", text, ok)
	}
	text, ok = trk.Admit("안녕하세요 반갑습니다")
	if !ok || text != "반갑습니다" {
		t.Fatalf("Admit(grown) = (%q, %v), want 반갑습니다", text, ok)
	}
	if text, ok = trk.Admit("안녕하세요 반갑습니다"); ok {
		t.Errorf("Admit(repeat) = (%q, true), want empty", text)
	}
}

func TestTrackerWhitespaceVariantSnapshot(t *testing.T) {
	trk := newTestTracker(nil)

	trk.Admit("국장 발언")
	// Re-render with different spacing must not re-emit confirmed text.
	if text, ok := trk.Admit("국 장 발언"); ok {
		t.Errorf("Admit(respaced) = (%q, true), want empty", text)
	}
}

func TestTrackerDesyncResync(t *testing.T) {
	history := &sliceHistory{}
	trk := newTestTracker(history)

	admitAll(t, trk, history, []string{"기존 자막 내용입니다"})

	unrelated := "완전히 무관한 화면 내용"
	var accepted string
	for i := 0; i < DefaultTuning().DesyncThreshold; i++ {
		text, ok := trk.Admit(unrelated)
		if i < DefaultTuning().DesyncThreshold-1 {
			if ok {
				t.Fatalf("admit %d accepted %q before the desync threshold", i, text)
			}
			continue
		}
		if !ok {
			t.Fatal("snapshot at the desync threshold should be accepted")
		}
		accepted = text
	}

	if accepted != unrelated {
		t.Errorf("accepted = %q, want the whole snapshot", accepted)
	}
	if trk.DesyncCount() != 0 {
		t.Errorf("DesyncCount() = %d after resync, want 0", trk.DesyncCount())
	}
}

func TestTrackerEmptySnapshot(t *testing.T) {
	trk := newTestTracker(nil)
	if text, ok := trk.Admit("   "); ok {
		t.Errorf("Admit(blank) = (%q, true), want rejection", text)
	}
}

func TestTrackerReset(t *testing.T) {
	trk := newTestTracker(nil)

	trk.Admit("첫 세션 내용")
	trk.Reset()

	// After reset the same snapshot is new content again.
	text, ok := trk.Admit("첫 세션 내용")
	if !ok || text != "첫 세션 내용" {
		t.Errorf("Admit after Reset = (%q, %v)", text, ok)
	}
}

func TestTrackerPrefixDropped(t *testing.T) {
	trk := newTestTracker(nil)

	trk.Admit("위원회 회의를 시작하겠습니다")
	// The region dropped its prefix but kept the tail, then appended.
	text, ok := trk.Admit("시작하겠습니다 첫 번째 안건은")
	if !ok || text != "첫 번째 안건은" {
		t.Errorf("Admit(slide) = (%q, %v), want 첫 번째 안건은", text, ok)
	}
}
