package spawn

import (
	"testing"
	"time"
)

func reapUntil(t *testing.T, s *Spawner, n int) []Exit {
	t.Helper()
	var got []Exit
	deadline := time.Now().Add(5 * time.Second)
	for len(got) < n {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d exits, got %d", n, len(got))
		}
		got = append(got, s.Reap()...)
		time.Sleep(10 * time.Millisecond)
	}
	return got
}

func TestSpawn_ReapsExitCodes(t *testing.T) {
	s := New(nil)
	if err := s.Spawn([]string{"/bin/sh", "-c", "exit 3"}); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	exits := reapUntil(t, s, 1)
	if exits[0].Code != 3 || exits[0].Err == nil {
		t.Fatalf("expected exit code 3, got %+v", exits[0])
	}
	if exits[0].Name != "/bin/sh" || exits[0].Pid == 0 {
		t.Fatalf("unexpected exit record %+v", exits[0])
	}
}

func TestSpawn_SuccessfulChild(t *testing.T) {
	s := New(nil)
	if err := s.Spawn([]string{"/bin/sh", "-c", "true"}); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if exits := reapUntil(t, s, 1); exits[0].Err != nil || exits[0].Code != 0 {
		t.Fatalf("expected clean exit, got %+v", exits[0])
	}
}

func TestSpawn_Errors(t *testing.T) {
	s := New(nil)
	if err := s.Spawn(nil); err == nil {
		t.Fatal("expected error for empty argv")
	}
	if err := s.Spawn([]string{"/nonexistent/tagtile-test-binary"}); err == nil {
		t.Fatal("expected error for missing binary")
	}
}

func TestReap_EmptyDoesNotBlock(t *testing.T) {
	if got := New(nil).Reap(); len(got) != 0 {
		t.Fatalf("expected no exits, got %v", got)
	}
}
