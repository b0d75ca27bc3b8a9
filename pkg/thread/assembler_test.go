package thread

import (
	"reflect"
	"testing"
	"time"

	"synparse/pkg/models"
)

func ts(t *testing.T, s string) *time.Time {
	t.Helper()
	v, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("parse %s: %v", s, err)
	}
	return &v
}

func TestAssembleSortsChronologically(t *testing.T) {
	msgs := []models.Message{
		{MessageID: "b", Date: ts(t, "2024-01-02T10:00:00Z")},
		{MessageID: "a", Date: ts(t, "2024-01-01T10:00:00Z")},
		{MessageID: "c", Date: ts(t, "2024-01-03T10:00:00Z")},
	}
	th := Assemble(msgs, "15551234567")

	var got []string
	for _, m := range th.Messages {
		got = append(got, m.MessageID)
	}
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("order = %v", got)
	}
	if msgs[0].MessageID != "b" {
		t.Fatal("input slice was mutated")
	}
}

func TestAssembleUnparseableDatesSortLastInOriginalOrder(t *testing.T) {
	msgs := []models.Message{
		{MessageID: "x", DateRaw: "garbage"},
		{MessageID: "a", Date: ts(t, "2024-01-01T10:00:00Z")},
		{MessageID: "y", DateRaw: "also garbage"},
	}
	th := Assemble(msgs, "")

	var got []string
	for _, m := range th.Messages {
		got = append(got, m.MessageID)
	}
	if !reflect.DeepEqual(got, []string{"a", "x", "y"}) {
		t.Fatalf("order = %v", got)
	}
}

func TestAssembleEqualTimestampsKeepInputOrder(t *testing.T) {
	same := ts(t, "2024-01-01T10:00:00Z")
	msgs := []models.Message{
		{MessageID: "first", Date: same},
		{MessageID: "second", Date: same},
	}
	th := Assemble(msgs, "")
	if th.Messages[0].MessageID != "first" || th.Messages[1].MessageID != "second" {
		t.Fatalf("equal timestamps reordered: %v, %v", th.Messages[0].MessageID, th.Messages[1].MessageID)
	}
}

func TestAssembleParticipantsFirstSeenExcludingTarget(t *testing.T) {
	msgs := []models.Message{
		{Date: ts(t, "2024-01-01T09:00:00Z"), Sender: "(555) 123-4567", Recipients: "15559876543"},
		{Date: ts(t, "2024-01-01T10:00:00Z"), Sender: "5559876543", Recipients: "5551234567; 555-000-1111"},
	}
	th := Assemble(msgs, "15551234567")

	want := []string{"5559876543", "5550001111"}
	if !reflect.DeepEqual(th.Participants, want) {
		t.Fatalf("participants = %v, want %v", th.Participants, want)
	}
	if th.Target != "5551234567" {
		t.Fatalf("target = %q", th.Target)
	}
}

func TestRole(t *testing.T) {
	target := "5551234567"
	self := models.Message{Sender: "+1 (555) 123-4567"}
	other := models.Message{Sender: "5559876543"}
	if Role(self, target) != RoleSelf {
		t.Fatal("target's own message not marked self")
	}
	if Role(other, target) != RoleOther {
		t.Fatal("other party's message not marked other")
	}
}

func TestSplitRecipients(t *testing.T) {
	got := SplitRecipients("5551111111; 5552222222,5553333333 | ")
	want := []string{"5551111111", "5552222222", "5553333333"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SplitRecipients = %v", got)
	}
	if out := SplitRecipients(""); out != nil {
		t.Fatalf("empty input should yield nil, got %v", out)
	}
}
