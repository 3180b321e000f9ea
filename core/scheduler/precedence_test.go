package scheduler

import (
	"errors"
	"strconv"
	"testing"

	"github.com/kilianp07/hangar/core/model"
)

func TestOrderDependenciesFirst(t *testing.T) {
	autos := []model.AutoInduction{
		{ID: "a", Preceding: []string{"b"}},
		{ID: "b"},
		{ID: "c", Preceding: []string{"a", "manual-1"}},
	}
	order, err := Order(autos)
	if err != nil {
		t.Fatalf("order: %v", err)
	}
	want := []int{1, 0, 2}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order %v, want %v", order, want)
		}
	}
}

func TestOrderSelfCycle(t *testing.T) {
	_, err := Order([]model.AutoInduction{{ID: "a", Preceding: []string{"a"}}})
	var ce *CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CycleError, got %v", err)
	}
	if len(ce.Path) != 2 || ce.Path[0] != "a" || ce.Path[1] != "a" {
		t.Fatalf("unexpected path %v", ce.Path)
	}
	if ce.Error() != "precedence cycle: a -> a" {
		t.Fatalf("unexpected message %q", ce.Error())
	}
}

func TestOrderLongChainIsIterative(t *testing.T) {
	const n = 20000
	autos := make([]model.AutoInduction, n)
	for i := range autos {
		autos[i].Aircraft = "x"
		autos[i].ID = idFor(i)
		if i+1 < n {
			autos[i].Preceding = []string{idFor(i + 1)}
		}
	}
	order, err := Order(autos)
	if err != nil {
		t.Fatalf("order: %v", err)
	}
	if order[0] != n-1 || order[n-1] != 0 {
		t.Fatalf("unexpected ends %d %d", order[0], order[n-1])
	}
}

func idFor(i int) string {
	return "n" + strconv.Itoa(i)
}
