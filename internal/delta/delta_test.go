package delta

import (
	"strings"
	"testing"
)

func TestExtractSimpleAppend(t *testing.T) {
	prev := "위원장님께서 말씀하셨습니다"
	if got := Extract(prev, prev+" 다음 안건입니다"); got != "다음 안건입니다" {
		t.Errorf("Extract(prev, prev+suffix) = %q, want %q", got, "다음 안건입니다")
	}
}

func TestExtractIdentical(t *testing.T) {
	text := "동일한 자막 내용"
	if got := Extract(text, text); got != "" {
		t.Errorf("Extract(identical) = %q, want empty", got)
	}
}

func TestExtractCompactSubset(t *testing.T) {
	// Whitespace-only differences carry no new content.
	if got := Extract("안녕하세요 반갑습니다", "안녕 하세요 반갑습니다"); got != "" {
		t.Errorf("Extract(compact subset) = %q, want empty", got)
	}
	if got := Extract("안녕하세요 반갑습니다", "반갑습니다"); got != "" {
		t.Errorf("Extract(shrunk) = %q, want empty", got)
	}
}

func TestExtractAnchorsOnLastOccurrence(t *testing.T) {
	if got := Extract("ABC", "XYZ ABC ABC MORE"); got != "MORE" {
		t.Errorf("Extract() = %q, want %q", got, "MORE")
	}
}

func TestExtractWhitespaceInvisible(t *testing.T) {
	if got := Extract("국 장", "국장 발언"); got != "발언" {
		t.Errorf("Extract() = %q, want %q", got, "발언")
	}
}

func TestExtractEmptyPrevious(t *testing.T) {
	if got := Extract("", "  첫 자막  "); got != "첫 자막" {
		t.Errorf("Extract(empty prev) = %q", got)
	}
}

func TestExtractEmptyCurrent(t *testing.T) {
	if got := Extract("이전 자막", ""); got != "" {
		t.Errorf("Extract(empty current) = %q, want empty", got)
	}
}

func TestExtractWordOverlap(t *testing.T) {
	// The region slid forward: the tail words of prev reappear as the head.
	prev := "의사일정 제1항 국정감사 계획서"
	cur := "국정감사 계획서 채택의 건을 상정합니다"
	if got := Extract(prev, cur); got != "채택의 건을 상정합니다" {
		t.Errorf("Extract(word overlap) = %q", got)
	}
}

func TestExtractCompactSuffixProbe(t *testing.T) {
	// Prev is long enough for the suffix probe; cur rewrites everything
	// before the probed tail and appends new content after it.
	tail := strings.Repeat("가나다라마바사아자차", 2) // 20 runes
	prev := "앞부분내용이완전히다릅니다" + tail
	cur := "전혀다른앞부분 " + tail + " 새로운내용"
	if got := Extract(prev, cur); got != "새로운내용" {
		t.Errorf("Extract(compact suffix) = %q, want %q", got, "새로운내용")
	}
}

func TestExtractNoOverlapFallsBackToWhole(t *testing.T) {
	prev := "기존 문장"
	cur := "완전히 무관한 새 문장"
	if got := Extract(prev, cur); got != cur {
		t.Errorf("Extract(no overlap) = %q, want whole current", got)
	}
}
