package domain

import "testing"

func TestUserString(t *testing.T) {
	if got := (User{Username: "jdoe", DisplayName: "John Doe"}).String(); got != "John Doe (jdoe)" {
		t.Fatalf("got %q", got)
	}
	if got := (User{Username: "jdoe"}).String(); got != "jdoe" {
		t.Fatalf("got %q", got)
	}
	if got := (User{Username: "jdoe", DisplayName: "   "}).String(); got != "jdoe" {
		t.Fatalf("expected whitespace display name to be ignored, got %q", got)
	}
}

func TestReselect_KeepsPreviousWithRefreshedName(t *testing.T) {
	prev := &User{Username: "bob", DisplayName: "Bob"}
	users := []User{
		{Username: "alice", DisplayName: "Alice"},
		{Username: "bob", DisplayName: "Robert"},
	}

	got := Reselect(prev, users)
	if got == nil {
		t.Fatalf("expected a selection")
	}
	if got.Username != "bob" {
		t.Fatalf("expected bob to stay selected, got %q", got.Username)
	}
	if got.DisplayName != "Robert" {
		t.Fatalf("expected refreshed display name, got %q", got.DisplayName)
	}
}

func TestReselect_FallsBackToFirst(t *testing.T) {
	prev := &User{Username: "gone"}
	users := []User{{Username: "alice"}, {Username: "bob"}}

	got := Reselect(prev, users)
	if got == nil || got.Username != "alice" {
		t.Fatalf("expected first entry, got %+v", got)
	}

	got = Reselect(nil, users)
	if got == nil || got.Username != "alice" {
		t.Fatalf("expected first entry without previous selection, got %+v", got)
	}
}

func TestReselect_EmptyListClearsSelection(t *testing.T) {
	if got := Reselect(&User{Username: "alice"}, nil); got != nil {
		t.Fatalf("expected nil selection, got %+v", got)
	}
}

func TestCloneUsers_IsIndependent(t *testing.T) {
	in := []User{{Username: "alice"}}
	out := CloneUsers(in)
	out[0].Username = "mallory"
	if in[0].Username != "alice" {
		t.Fatalf("expected clone not to alias input")
	}
	if CloneUsers(nil) == nil {
		t.Fatalf("expected empty non-nil slice")
	}
}
