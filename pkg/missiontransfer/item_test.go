package missiontransfer

import "testing"

func TestItemIntEqual(t *testing.T) {
	a := ItemInt{Seq: 1, Frame: 3, Command: 16, Param1: 1.5, X: 100, Y: 200, Z: 12.3}
	b := a
	if !a.Equal(b) {
		t.Fatalf("expected equal items")
	}
	b.Param1 = 1.6
	if a.Equal(b) {
		t.Fatalf("expected unequal items after Param1 change")
	}
}

func TestItemsEqual(t *testing.T) {
	a := []ItemInt{{Seq: 0}, {Seq: 1}}
	b := []ItemInt{{Seq: 0}, {Seq: 1}}
	if !ItemsEqual(a, b) {
		t.Fatalf("expected equal lists")
	}
	if ItemsEqual(a, []ItemInt{{Seq: 0}}) {
		t.Fatalf("expected unequal lists of different length")
	}
	c := []ItemInt{{Seq: 0}, {Seq: 1, Command: 1}}
	if ItemsEqual(a, c) {
		t.Fatalf("expected unequal lists with differing item")
	}
}
