package engine

import (
	"slices"
	"testing"
)

func TestBusDeliversInSubscriptionOrder(t *testing.T) {
	var b Bus
	var order []int
	for i := range 3 {
		b.Subscribe(func(Event) { order = append(order, i) })
	}
	b.Publish(LogMessage{Text: "x"})

	if want := []int{0, 1, 2}; !slices.Equal(order, want) {
		t.Errorf("order = %v, expected %v", order, want)
	}
}

func TestOnFiltersByType(t *testing.T) {
	var b Bus
	wins := 0
	On(&b, func(w Win) { wins += w.CoinsEarned })

	b.Publish(Caught{Enemy: "Hotjar"})
	b.Publish(Win{CoinsEarned: 10, NewLevel: 2})

	if wins != 10 {
		t.Errorf("wins = %d, expected 10", wins)
	}
}

func TestNestedPublish(t *testing.T) {
	var b Bus
	rec := record(&b)
	On(&b, func(Win) { b.Publish(LogMessage{Text: "nested"}) })

	b.Publish(Win{})

	if len(rec.events) != 2 {
		t.Fatalf("got %d events, expected 2", len(rec.events))
	}
	if _, ok := rec.events[0].(Win); !ok {
		t.Errorf("events[0] = %T, expected Win", rec.events[0])
	}
	if _, ok := rec.events[1].(LogMessage); !ok {
		t.Errorf("events[1] = %T, expected LogMessage", rec.events[1])
	}
}
