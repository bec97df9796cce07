package models

import (
	"testing"
	"time"

	"github.com/mmrentals/rentdesk_backend/utils"
)

func TestApplyStatusTransition_StampsTimestampsOnce(t *testing.T) {
	now := time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)
	incident := &Incident{Status: IncidentStatusNew}

	if err := applyStatusTransition(incident, IncidentStatusInProgress, now); err != nil {
		t.Fatalf("new -> in_progress: %v", err)
	}
	if incident.StartedAt == nil || !incident.StartedAt.Equal(now) {
		t.Fatalf("started_at = %v, want %v", incident.StartedAt, now)
	}

	// Bounce back to new and forward again: started_at keeps the first stamp.
	if err := applyStatusTransition(incident, IncidentStatusNew, now.Add(time.Hour)); err != nil {
		t.Fatalf("in_progress -> new: %v", err)
	}
	later := now.Add(2 * time.Hour)
	if err := applyStatusTransition(incident, IncidentStatusInProgress, later); err != nil {
		t.Fatalf("new -> in_progress again: %v", err)
	}
	if !incident.StartedAt.Equal(now) {
		t.Fatalf("started_at overwritten: %v, want %v", incident.StartedAt, now)
	}

	done := now.Add(3 * time.Hour)
	if err := applyStatusTransition(incident, IncidentStatusDone, done); err != nil {
		t.Fatalf("in_progress -> done: %v", err)
	}
	if incident.CompletedAt == nil || !incident.CompletedAt.Equal(done) {
		t.Fatalf("completed_at = %v, want %v", incident.CompletedAt, done)
	}
}

func TestApplyStatusTransition_DirectDoneStampsBoth(t *testing.T) {
	now := time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)
	incident := &Incident{Status: IncidentStatusNew}

	if err := applyStatusTransition(incident, IncidentStatusDone, now); err != nil {
		t.Fatalf("new -> done: %v", err)
	}
	if incident.StartedAt == nil || incident.CompletedAt == nil {
		t.Fatalf("direct done must stamp started_at and completed_at")
	}
}

func TestApplyStatusTransition_SameStatusIsNoOp(t *testing.T) {
	now := time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)
	incident := &Incident{Status: IncidentStatusNew}

	if err := applyStatusTransition(incident, IncidentStatusDone, now); err != nil {
		t.Fatalf("new -> done: %v", err)
	}

	// Re-sending done on a done incident succeeds and keeps the stamps.
	if err := applyStatusTransition(incident, IncidentStatusDone, now.Add(time.Hour)); err != nil {
		t.Fatalf("done -> done: %v", err)
	}
	if !incident.CompletedAt.Equal(now) {
		t.Fatalf("completed_at overwritten: %v, want %v", incident.CompletedAt, now)
	}
	if incident.Status != IncidentStatusDone {
		t.Fatalf("status = %s, want done", incident.Status)
	}
}

func TestApplyStatusTransition_ClosedIsTerminal(t *testing.T) {
	now := time.Now()
	for _, closed := range []IncidentStatus{IncidentStatusDone, IncidentStatusCancelled} {
		incident := &Incident{Status: closed}
		err := applyStatusTransition(incident, IncidentStatusInProgress, now)
		if err == nil {
			t.Fatalf("reopening a %s incident should fail", closed)
		}
		if utils.KindOf(err) != utils.KindConflict {
			t.Fatalf("kind = %v, want conflict", utils.KindOf(err))
		}
	}
}

func TestApplyStatusTransition_RejectsUnknownStatus(t *testing.T) {
	incident := &Incident{Status: IncidentStatusNew}
	err := applyStatusTransition(incident, IncidentStatus("vanished"), time.Now())
	if err == nil {
		t.Fatal("unknown status should fail")
	}
	if utils.KindOf(err) != utils.KindValidation {
		t.Fatalf("kind = %v, want validation", utils.KindOf(err))
	}
}
