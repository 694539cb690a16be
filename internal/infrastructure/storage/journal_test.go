package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"gridtactics/internal/domain"
	"path/filepath"
	"strings"
	"testing"
)

func sampleSession() *domain.JournalSession {
	return &domain.JournalSession{
		Level:     "training ground",
		TickRate:  30,
		Timestamp: 1760000000,
		Actions: []domain.JournalAction{
			{Tick: 0, Token: "hero", Action: domain.ActionInit, Payload: json.RawMessage{}},
			{Tick: 3, Token: "hero", Action: domain.ActionMove, Payload: json.RawMessage(`{"dx":1,"dy":0}`)},
			{Tick: 3, Token: "hero", Action: domain.ActionAttack, Payload: json.RawMessage{}},
			{Tick: 42, Token: "hero", Action: domain.ActionDash, Payload: json.RawMessage(`{"dx":0,"dy":-1}`)},
		},
	}
}

func TestJournal_RoundTrip(t *testing.T) {
	in := sampleSession()
	var buf bytes.Buffer
	if err := WriteJournal(&buf, in); err != nil {
		t.Fatalf("WriteJournal: %v", err)
	}

	out, err := ReadJournal(&buf)
	if err != nil {
		t.Fatalf("ReadJournal: %v", err)
	}

	if out.Level != in.Level || out.TickRate != in.TickRate || out.Timestamp != in.Timestamp {
		t.Errorf("header mismatch: %+v", out)
	}
	if len(out.Actions) != len(in.Actions) {
		t.Fatalf("got %d actions, want %d", len(out.Actions), len(in.Actions))
	}
	for i, want := range in.Actions {
		got := out.Actions[i]
		if got.Tick != want.Tick || got.Token != want.Token || got.Action != want.Action {
			t.Errorf("action %d = %+v, want %+v", i, got, want)
		}
		if !bytes.Equal(got.Payload, want.Payload) {
			t.Errorf("action %d payload = %s, want %s", i, got.Payload, want.Payload)
		}
	}
}

func TestJournal_Rejects(t *testing.T) {
	t.Run("bad magic", func(t *testing.T) {
		var buf bytes.Buffer
		_ = WriteJournal(&buf, sampleSession())
		raw := buf.Bytes()
		copy(raw, "NOPE")
		if _, err := ReadJournal(bytes.NewReader(raw)); !errors.Is(err, ErrBadMagic) {
			t.Errorf("err = %v, want ErrBadMagic", err)
		}
	})

	t.Run("truncated", func(t *testing.T) {
		var buf bytes.Buffer
		_ = WriteJournal(&buf, sampleSession())
		raw := buf.Bytes()
		if _, err := ReadJournal(bytes.NewReader(raw[:len(raw)-3])); err == nil {
			t.Error("expected error on truncated journal")
		}
	})

	t.Run("token too long", func(t *testing.T) {
		s := sampleSession()
		s.Actions[0].Token = strings.Repeat("x", 300)
		if err := WriteJournal(&bytes.Buffer{}, s); err == nil {
			t.Error("expected error for 300-byte token")
		}
	})
}

func TestJournalService_SaveLoad(t *testing.T) {
	svc, err := NewJournalService(filepath.Join(t.TempDir(), "journals"))
	if err != nil {
		t.Fatal(err)
	}

	path, err := svc.Save(sampleSession())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Ext(path) != FileExt || strings.Contains(filepath.Base(path), " ") {
		t.Errorf("unexpected file name %q", path)
	}

	loaded, err := svc.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Actions) != 4 || loaded.Level != "training ground" {
		t.Errorf("loaded = %+v", loaded)
	}
}
