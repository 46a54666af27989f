package textnorm

import "testing"

func TestCleanDisplay(t *testing.T) {
	p := NewPatterns()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"trims", "  안녕하세요  ", "안녕하세요"},
		{"strips year token", "2024년 예산안 심사", "예산안 심사"},
		{"year token mid text", "오늘 2025년 회의를 시작합니다", "오늘  회의를 시작합니다"},
		{"keeps year inside word", "1234년도 예산", "1234년도 예산"},
		{"strips zero width", "안녕\u200b하세요\ufeff", "안녕하세요"},
		{"keeps internal spacing", "국정  감사", "국정  감사"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.CleanDisplay(tt.input)
			if got != tt.want {
				t.Errorf("CleanDisplay(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanDisplayNFC(t *testing.T) {
	p := NewPatterns()
	// Decomposed Hangul jamo must normalize to the precomposed syllable.
	decomposed := "한" // 한 as jamo
	if got := p.CleanDisplay(decomposed); got != "한" {
		t.Errorf("CleanDisplay(decomposed) = %q, want %q", got, "한")
	}
}

func TestCollapse(t *testing.T) {
	p := NewPatterns()
	if got := p.Collapse("국정   감사\t시작"); got != "국정 감사 시작" {
		t.Errorf("Collapse() = %q", got)
	}
}

func TestCompact(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"국 장", "국장"},
		{"안녕 하 세요\n반갑습니다", "안녕하세요반갑습니다"},
		{"a\u200b b", "ab"},
	}
	for _, tt := range tests {
		if got := Compact(tt.input); got != tt.want {
			t.Errorf("Compact(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCompactIdempotent(t *testing.T) {
	once := Compact("국정 감사 2차 회의")
	if twice := Compact(once); twice != once {
		t.Errorf("Compact not idempotent: %q -> %q", once, twice)
	}
}

func TestCompactedSliceFrom(t *testing.T) {
	c := NewCompacted("국장 발언 중")

	tests := []struct {
		name  string
		index int
		want  string
	}{
		{"zero returns whole", 0, "국장 발언 중"},
		{"negative returns whole", -1, "국장 발언 중"},
		{"past end returns empty", len(c.Compact()), ""},
		{"after 국장", len("국장"), "발언 중"},
		{"after 국장발언", len("국장발언"), "중"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.SliceFrom(tt.index); got != tt.want {
				t.Errorf("SliceFrom(%d) = %q, want %q", tt.index, got, tt.want)
			}
		})
	}
}

func TestCompactedRoundTrip(t *testing.T) {
	c := NewCompacted("  안녕 하세요  ")
	if c.Compact() != "안녕하세요" {
		t.Errorf("Compact() = %q", c.Compact())
	}
	if c.Raw() != "  안녕 하세요  " {
		t.Errorf("Raw() = %q", c.Raw())
	}
}
