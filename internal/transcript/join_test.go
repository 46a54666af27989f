package transcript

import "testing"

func TestJoinStream(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		addition string
		want     string
	}{
		{"plain words", "안녕하세요", "반갑습니다", "안녕하세요 반갑습니다"},
		{"empty base", "", "반갑습니다", "반갑습니다"},
		{"empty addition", "안녕하세요", "", "안녕하세요"},
		{"no space before period", "발언을 마치겠습니다", ". 감사합니다", "발언을 마치겠습니다. 감사합니다"},
		{"no space before comma", "네", ", 알겠습니다", "네, 알겠습니다"},
		{"no space after opener", "제목 (", "초안)", "제목 (초안)"},
		{"trims joint whitespace", "앞부분  ", "  뒷부분", "앞부분 뒷부분"},
		{"closing quote attaches", "말씀하셨습니다", "” 이상입니다", "말씀하셨습니다” 이상입니다"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := JoinStream(tt.base, tt.addition); got != tt.want {
				t.Errorf("JoinStream(%q, %q) = %q, want %q", tt.base, tt.addition, got, tt.want)
			}
		})
	}
}
