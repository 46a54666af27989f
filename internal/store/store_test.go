package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"livecap/internal/store"
	"livecap/internal/testsupport"
	"livecap/internal/transcript"
)

func TestCreateAndGetSession(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	session := testsupport.NewSession(t, st, "국정감사 1일차", "assembly.webcast.go.kr")
	if session.ID == "" {
		t.Fatal("session ID is empty")
	}
	if !session.Live() {
		t.Error("new session should be live")
	}

	got, err := st.SessionByID(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("SessionByID: %v", err)
	}
	if got.Title != "국정감사 1일차" || got.Source != "assembly.webcast.go.kr" {
		t.Errorf("session = %+v", got)
	}
}

func TestSessionNotFound(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	_, err := st.SessionByID(context.Background(), "no-such-id")
	if !errors.Is(err, store.ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
	if err := st.EndSession(context.Background(), "no-such-id", time.Now()); !errors.Is(err, store.ErrSessionNotFound) {
		t.Errorf("EndSession err = %v, want ErrSessionNotFound", err)
	}
}

func TestEndSession(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	session := testsupport.NewSession(t, st, "테스트", "")
	ended := time.Now().Add(time.Hour)
	if err := st.EndSession(context.Background(), session.ID, ended); err != nil {
		t.Fatalf("EndSession: %v", err)
	}

	got, err := st.SessionByID(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("SessionByID: %v", err)
	}
	if got.EndedAt == nil {
		t.Fatal("EndedAt is nil after EndSession")
	}
	if got.Live() {
		t.Error("ended session reports live")
	}
}

func TestAppendAndReadEntries(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	session := testsupport.NewSession(t, st, "entries", "")

	base := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	first := transcript.NewEntry("첫 번째 발언", base)
	second := transcript.NewEntry("두 번째 발언", base.Add(10*time.Second))

	ctx := context.Background()
	if err := st.AppendEntry(ctx, session.ID, 0, first); err != nil {
		t.Fatalf("AppendEntry(0): %v", err)
	}
	if err := st.AppendEntry(ctx, session.ID, 1, second); err != nil {
		t.Fatalf("AppendEntry(1): %v", err)
	}

	entries, err := st.Entries(ctx, session.ID)
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].Text != "첫 번째 발언" || entries[1].Text != "두 번째 발언" {
		t.Errorf("entries = %q, %q", entries[0].Text, entries[1].Text)
	}
	if !entries[0].StartTime.Equal(base) {
		t.Errorf("StartTime = %v, want %v", entries[0].StartTime, base)
	}
}

func TestAppendEntryUpsertsSameSeq(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	session := testsupport.NewSession(t, st, "upsert", "")

	ctx := context.Background()
	base := time.Now().UTC()
	if err := st.AppendEntry(ctx, session.ID, 0, transcript.NewEntry("안녕하세요", base)); err != nil {
		t.Fatalf("AppendEntry: %v", err)
	}
	grown := transcript.NewEntrySpan("안녕하세요 반갑습니다", base, base, base.Add(2*time.Second))
	if err := st.AppendEntry(ctx, session.ID, 0, grown); err != nil {
		t.Fatalf("AppendEntry(upsert): %v", err)
	}

	entries, err := st.Entries(ctx, session.ID)
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1 after upsert", len(entries))
	}
	if entries[0].Text != "안녕하세요 반갑습니다" {
		t.Errorf("entry text = %q", entries[0].Text)
	}
}

func TestReplaceEntries(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	session := testsupport.NewSession(t, st, "replace", "")

	ctx := context.Background()
	base := time.Now().UTC()
	_ = st.AppendEntry(ctx, session.ID, 0, transcript.NewEntry("문장1. 문장2.", base))

	replacement := []*transcript.Entry{
		transcript.NewEntry("문장1.", base),
		transcript.NewEntry("문장2.", base.Add(time.Second)),
	}
	if err := st.ReplaceEntries(ctx, session.ID, replacement); err != nil {
		t.Fatalf("ReplaceEntries: %v", err)
	}

	entries, err := st.Entries(ctx, session.ID)
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].Text != "문장1." || entries[1].Text != "문장2." {
		t.Errorf("entries = %q, %q", entries[0].Text, entries[1].Text)
	}
}

func TestListSessionsWithCounts(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	first := testsupport.NewSession(t, st, "first", "")
	second := testsupport.NewSession(t, st, "second", "")
	_ = st.AppendEntry(ctx, first.ID, 0, transcript.NewEntry("내용", time.Now().UTC()))

	sessions, err := st.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("len(sessions) = %d, want 2", len(sessions))
	}

	counts := map[string]int{}
	for _, s := range sessions {
		counts[s.ID] = s.EntryCount
	}
	if counts[first.ID] != 1 {
		t.Errorf("first session count = %d, want 1", counts[first.ID])
	}
	if counts[second.ID] != 0 {
		t.Errorf("second session count = %d, want 0", counts[second.ID])
	}
}

func TestDeleteSessionCascades(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	session := testsupport.NewSession(t, st, "doomed", "")

	ctx := context.Background()
	_ = st.AppendEntry(ctx, session.ID, 0, transcript.NewEntry("내용", time.Now().UTC()))

	if err := st.DeleteSession(ctx, session.ID); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if _, err := st.SessionByID(ctx, session.ID); !errors.Is(err, store.ErrSessionNotFound) {
		t.Errorf("session still present after delete: %v", err)
	}
	entries, err := st.Entries(ctx, session.ID)
	if err != nil {
		t.Fatalf("Entries after delete: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries survived session delete: %d", len(entries))
	}
}

func TestStats(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	live := testsupport.NewSession(t, st, "live", "")
	ended := testsupport.NewSession(t, st, "ended", "")
	if err := st.EndSession(ctx, ended.ID, time.Now()); err != nil {
		t.Fatalf("EndSession: %v", err)
	}
	for seq, text := range []string{"첫 번째", "두 번째", "세 번째"} {
		if err := st.AppendEntry(ctx, live.ID, seq, transcript.NewEntry(text, time.Now().UTC())); err != nil {
			t.Fatalf("AppendEntry: %v", err)
		}
	}

	stats, err := st.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Sessions != 2 || stats.LiveSessions != 1 || stats.Entries != 3 {
		t.Errorf("stats = %+v, want 2 sessions, 1 live, 3 entries", stats)
	}
}

func TestCheckHealth(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	health, err := st.CheckHealth(context.Background())
	if err != nil {
		t.Fatalf("CheckHealth: %v", err)
	}
	if !health.DatabaseExists || !health.DatabaseReadable {
		t.Errorf("health = %+v, want existing readable database", health)
	}
	if health.SchemaVersion != 1 {
		t.Errorf("schema version = %d, want 1", health.SchemaVersion)
	}
	if len(health.MissingTables) != 0 {
		t.Errorf("missing tables: %v", health.MissingTables)
	}
	if !health.IntegrityCheck {
		t.Error("integrity check failed")
	}
}
