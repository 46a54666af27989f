package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func collect(t *testing.T, out <-chan string) []string {
	t.Helper()
	var got []string
	for text := range out {
		got = append(got, text)
	}
	return got
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"", ModeLine, false},
		{"line", ModeLine, false},
		{"Block", ModeBlock, false},
		{"words", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseMode(%q) expected error", tt.input)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseMode(%q) = (%v, %v), want %v", tt.input, got, err, tt.want)
		}
	}
}

func TestStreamLineMode(t *testing.T) {
	input := "첫 번째 스냅샷\n\n두 번째 스냅샷\n세 번째 스냅샷\n"
	out := make(chan string, 8)

	err := Stream(context.Background(), strings.NewReader(input), ModeLine, out)
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}

	got := collect(t, out)
	want := []string{"첫 번째 스냅샷", "두 번째 스냅샷", "세 번째 스냅샷"}
	if len(got) != len(want) {
		t.Fatalf("snapshots = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("snapshot[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestStreamBlockMode(t *testing.T) {
	input := "여러 줄로 된\n하나의 스냅샷\n\n다음 스냅샷\n"
	out := make(chan string, 8)

	err := Stream(context.Background(), strings.NewReader(input), ModeBlock, out)
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}

	got := collect(t, out)
	if len(got) != 2 {
		t.Fatalf("snapshots = %v, want 2 blocks", got)
	}
	if got[0] != "여러 줄로 된\n하나의 스냅샷" {
		t.Errorf("block[0] = %q", got[0])
	}
	if got[1] != "다음 스냅샷" {
		t.Errorf("block[1] = %q", got[1])
	}
}

func TestStreamClosesChannel(t *testing.T) {
	out := make(chan string)
	done := make(chan struct{})
	go func() {
		defer close(done)
		collect(t, out)
	}()

	if err := Stream(context.Background(), strings.NewReader(""), ModeLine, out); err != nil {
		t.Fatalf("Stream: %v", err)
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("channel was not closed")
	}
}

func TestPollEmitsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "region.txt")
	if err := os.WriteFile(path, []byte("초기 내용"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan string, 8)
	errCh := make(chan error, 1)
	go func() {
		errCh <- Poll(ctx, path, 10*time.Millisecond, nil, out)
	}()

	first := <-out
	if first != "초기 내용" {
		t.Errorf("first snapshot = %q", first)
	}

	if err := os.WriteFile(path, []byte("초기 내용 추가됨"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	select {
	case second := <-out:
		if second != "초기 내용 추가됨" {
			t.Errorf("second snapshot = %q", second)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot after file change")
	}

	cancel()
	if err := <-errCh; err != context.Canceled {
		t.Errorf("Poll err = %v, want context.Canceled", err)
	}
}

func TestPollSkipsUnchangedContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "region.txt")
	if err := os.WriteFile(path, []byte("고정 내용"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	out := make(chan string, 8)
	go func() { _ = Poll(ctx, path, 5*time.Millisecond, nil, out) }()

	<-out
	select {
	case extra := <-out:
		t.Errorf("unchanged file re-emitted %q", extra)
	case <-time.After(100 * time.Millisecond):
	}
}
