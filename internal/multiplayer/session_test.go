package multiplayer

import "testing"

func TestChannelSessionDropsOldest(t *testing.T) {
	s := NewChannelSession("s", 2)
	s.Send(LobbyErrorEvent{Message: "1"})
	s.Send(LobbyErrorEvent{Message: "2"})
	s.Send(LobbyErrorEvent{Message: "3"})

	first := (<-s.Events()).(LobbyErrorEvent)
	second := (<-s.Events()).(LobbyErrorEvent)
	if first.Message != "2" || second.Message != "3" {
		t.Errorf("got %q, %q; expected the oldest event dropped", first.Message, second.Message)
	}
	if s.Dropped() != 1 {
		t.Errorf("Dropped = %d, want 1", s.Dropped())
	}
}

func TestChannelSessionDropsSnapshotsFirst(t *testing.T) {
	s := NewChannelSession("s", 3)
	s.Send(MatchStartedEvent{MatchID: "m"})
	s.Send(SnapshotEvent{MatchID: "m", Tick: 1})
	s.Send(SnapshotEvent{MatchID: "m", Tick: 2})
	s.Send(MatchEndedEvent{MatchID: "m"})

	var got []SessionEvent
	for i := 0; i < 3; i++ {
		got = append(got, <-s.Events())
	}
	if _, ok := got[0].(MatchStartedEvent); !ok {
		t.Fatalf("first event = %T, want MatchStartedEvent", got[0])
	}
	if snap, ok := got[1].(SnapshotEvent); !ok || snap.Tick != 2 {
		t.Fatalf("second event = %#v, want the tick 2 snapshot", got[1])
	}
	if _, ok := got[2].(MatchEndedEvent); !ok {
		t.Fatalf("third event = %T, want MatchEndedEvent", got[2])
	}
}

func TestChannelSessionClosed(t *testing.T) {
	s := NewChannelSession("s", 4)
	s.Close()
	s.Close()
	s.Send(LobbyErrorEvent{})

	select {
	case <-s.Done():
	default:
		t.Fatal("Done not closed")
	}
	if len(s.Events()) != 0 {
		t.Error("closed session accepted an event")
	}
}

func TestSessionRegistry(t *testing.T) {
	r := NewSessionRegistry()
	r.Register(NewChannelSession("a", 1))
	r.Register(NewChannelSession("b", 1))

	if r.Count() != 2 {
		t.Fatalf("count = %d", r.Count())
	}
	if _, ok := r.Get("a"); !ok {
		t.Error("a not found")
	}
	r.Unregister("a")
	if _, ok := r.Get("a"); ok || r.Count() != 1 {
		t.Error("a not removed")
	}
}
