package core

import "testing"

func TestSnapshotReady(t *testing.T) {
	var nilSnap *Snapshot
	if nilSnap.Ready() {
		t.Error("nil snapshot should not be ready")
	}

	s := &Snapshot{Players: []Player{{ID: "a"}}}
	if s.Ready() {
		t.Error("snapshot with one player should not be ready")
	}

	s.Players = append(s.Players, Player{ID: "b"})
	if !s.Ready() {
		t.Error("snapshot with two players should be ready")
	}
}

func TestSnapshotCloneIsDeep(t *testing.T) {
	s := &Snapshot{Players: []Player{{Score: 1}, {Score: 2}}}
	c := s.Clone()
	c.Players[0].Score = 9

	if s.Players[0].Score != 1 {
		t.Errorf("Clone shares players: original score = %d, expected 1", s.Players[0].Score)
	}
}

func TestBallSpeed(t *testing.T) {
	b := Ball{VX: 300, VY: 400}
	if b.Speed() != 500 {
		t.Errorf("Speed() = %v, expected 500", b.Speed())
	}
}
