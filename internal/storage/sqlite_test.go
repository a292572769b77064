package storage

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/biafin/bia/internal/profile"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestMigrations(t *testing.T) {
	s := openTestStore(t)

	versions, err := s.AppliedMigrations()
	if err != nil {
		t.Fatalf("AppliedMigrations: %v", err)
	}
	if len(versions) < 2 {
		t.Fatalf("got %d applied migrations, want at least 2", len(versions))
	}
	for i := 1; i < len(versions); i++ {
		if versions[i] <= versions[i-1] {
			t.Errorf("versions not ascending: %v", versions)
		}
	}
}

func TestProfileRoundTrip(t *testing.T) {
	s := openTestStore(t)

	// Empty store yields a zero profile, not an error.
	p, err := s.LoadProfile()
	if err != nil {
		t.Fatalf("LoadProfile(empty): %v", err)
	}
	if p.Name != "" || p.MonthlyIncome != nil {
		t.Errorf("empty profile = %+v, want zero value", p)
	}

	income := 5000.0
	want := profile.Profile{
		Name:            "João",
		MonthlyIncome:   &income,
		InvestorProfile: profile.InvestorProfile{Value: "moderado", Confirmed: true},
		Goals: []profile.Goal{
			{Description: "Comprar carro", Deadline: "2025", Confirmed: true},
		},
		LastUpdated: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := s.SaveProfile(want); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	got, err := s.LoadProfile()
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if got.Name != "João" || got.MonthlyIncome == nil || *got.MonthlyIncome != 5000 {
		t.Errorf("loaded profile = %+v", got)
	}
	if got.InvestorProfile.Value != "moderado" || !got.InvestorProfile.Confirmed {
		t.Errorf("InvestorProfile = %+v", got.InvestorProfile)
	}
	if len(got.Goals) != 1 || got.Goals[0].Description != "Comprar carro" {
		t.Errorf("Goals = %+v", got.Goals)
	}
	if !got.LastUpdated.Equal(want.LastUpdated) {
		t.Errorf("LastUpdated = %v, want %v", got.LastUpdated, want.LastUpdated)
	}
}

func TestSaveProfile_Overwrites(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveProfile(profile.Profile{Name: "João"}); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	if err := s.SaveProfile(profile.Profile{Name: "Maria"}); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	got, err := s.LoadProfile()
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if got.Name != "Maria" {
		t.Errorf("Name = %q, want Maria", got.Name)
	}
}

func TestInteractions(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	income := 5000.0
	fields := profile.FieldSet{MonthlyIncome: &income}
	if err := s.RecordInteraction(ctx, "minha renda é 5000", "Entendi!", fields); err != nil {
		t.Fatalf("RecordInteraction: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	if err := s.RecordInteraction(ctx, "sim", "Salvo!", profile.FieldSet{}); err != nil {
		t.Fatalf("RecordInteraction: %v", err)
	}

	recent, err := s.GetRecentInteractions(10)
	if err != nil {
		t.Fatalf("GetRecentInteractions: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d interactions, want 2", len(recent))
	}
	if recent[0].UserMessage != "sim" {
		t.Errorf("recent[0] = %q, want newest first", recent[0].UserMessage)
	}

	var decoded profile.FieldSet
	if err := json.Unmarshal([]byte(recent[1].ExtractedJSON), &decoded); err != nil {
		t.Fatalf("decoding extracted fields: %v", err)
	}
	if decoded.MonthlyIncome == nil || *decoded.MonthlyIncome != 5000 {
		t.Errorf("extracted = %+v", decoded)
	}

	got, err := s.GetInteraction(recent[0].ID)
	if err != nil {
		t.Fatalf("GetInteraction: %v", err)
	}
	if got.Reply != "Salvo!" {
		t.Errorf("Reply = %q", got.Reply)
	}

	if _, err := s.GetInteraction("missing"); err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestJobQueue(t *testing.T) {
	s := openTestStore(t)

	job := Job{ID: "job-1", Type: "import_extract", PayloadJSON: `{"path":"x.pdf"}`}
	if err := s.EnqueueJob(job); err != nil {
		t.Fatalf("EnqueueJob: %v", err)
	}

	claimed, err := s.ClaimNextJob([]string{"import_extract"})
	if err != nil {
		t.Fatalf("ClaimNextJob: %v", err)
	}
	if claimed == nil || claimed.ID != "job-1" {
		t.Fatalf("claimed = %+v, want job-1", claimed)
	}
	if claimed.Status != "running" {
		t.Errorf("Status = %q, want running", claimed.Status)
	}

	// A running job cannot be claimed again.
	again, err := s.ClaimNextJob([]string{"import_extract"})
	if err != nil {
		t.Fatalf("ClaimNextJob: %v", err)
	}
	if again != nil {
		t.Errorf("claimed a running job: %+v", again)
	}

	if err := s.CompleteJob("job-1"); err != nil {
		t.Fatalf("CompleteJob: %v", err)
	}
	if err := s.CompleteJob("missing"); err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestJobQueue_TypeFilter(t *testing.T) {
	s := openTestStore(t)

	if err := s.EnqueueJob(Job{ID: "job-1", Type: "other", PayloadJSON: "{}"}); err != nil {
		t.Fatalf("EnqueueJob: %v", err)
	}

	claimed, err := s.ClaimNextJob([]string{"import_extract"})
	if err != nil {
		t.Fatalf("ClaimNextJob: %v", err)
	}
	if claimed != nil {
		t.Errorf("claimed = %+v, want nil for unmatched type", claimed)
	}
}

func TestFailJob_RetriesThenFails(t *testing.T) {
	s := openTestStore(t)

	if err := s.EnqueueJob(Job{ID: "job-1", Type: "import_extract", PayloadJSON: "{}", MaxAttempts: 2}); err != nil {
		t.Fatalf("EnqueueJob: %v", err)
	}

	claimed, err := s.ClaimNextJob([]string{"import_extract"})
	if err != nil || claimed == nil {
		t.Fatalf("ClaimNextJob: %v, %v", claimed, err)
	}

	// First failure re-queues with backoff, so it is not immediately due.
	if err := s.FailJob("job-1", "boom"); err != nil {
		t.Fatalf("FailJob: %v", err)
	}
	notDue, err := s.ClaimNextJob([]string{"import_extract"})
	if err != nil {
		t.Fatalf("ClaimNextJob: %v", err)
	}
	if notDue != nil {
		t.Errorf("claimed a backed-off job: %+v", notDue)
	}

	// Second failure exhausts MaxAttempts.
	if err := s.FailJob("job-1", "boom again"); err != nil {
		t.Fatalf("FailJob: %v", err)
	}
	gone, err := s.ClaimNextJob([]string{"import_extract"})
	if err != nil {
		t.Fatalf("ClaimNextJob: %v", err)
	}
	if gone != nil {
		t.Errorf("claimed a permanently failed job: %+v", gone)
	}
}
