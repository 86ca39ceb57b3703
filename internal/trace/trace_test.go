package trace

import (
	"testing"
)

func TestMultiFansOut(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	m := Multi{a, Nop{}, b}
	m.Record(Event{Kind: VariableFixed, Subject: "T", Detail: "Int"})
	m.Record(Event{Kind: RunFinished})

	if len(a.Events()) != 2 || len(b.Events()) != 2 {
		t.Fatalf("events not fanned out: %v %v", a.Events(), b.Events())
	}
	if fixed := a.OfKind(VariableFixed); len(fixed) != 1 || fixed[0].Detail != "Int" {
		t.Errorf("OfKind = %v", fixed)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	s, err := OpenStore(":memory:")
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer s.Close()

	first, err := s.Begin("first.yaml")
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	s.Record(Event{Kind: RunStarted, Subject: "full"})
	s.Record(Event{Kind: VariableFixed, Subject: "T", Detail: "Int"})

	second, err := s.Begin("second.yaml")
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	s.Record(Event{Kind: VariableFailed, Subject: "U"})
	if err := s.Err(); err != nil {
		t.Fatalf("Record: %v", err)
	}

	events, err := s.Events(first)
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(events) != 2 || events[0].Kind != RunStarted || events[1].Subject != "T" || events[1].Detail != "Int" {
		t.Errorf("first run events = %+v", events)
	}
	events, err = s.Events(second)
	if err != nil || len(events) != 1 || events[0].Kind != VariableFailed {
		t.Errorf("second run events = %+v, %v", events, err)
	}

	runs, err := s.Runs()
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != first || runs[1].Label != "second.yaml" {
		t.Errorf("runs = %+v", runs)
	}
}

func TestStoreStartsImplicitRun(t *testing.T) {
	s, err := OpenStore(":memory:")
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer s.Close()

	s.Record(Event{Kind: RunStarted})
	runs, err := s.Runs()
	if err != nil || len(runs) != 1 {
		t.Fatalf("runs = %v, %v", runs, err)
	}
	events, _ := s.Events(runs[0].ID)
	if len(events) != 1 {
		t.Errorf("events = %v", events)
	}
}
