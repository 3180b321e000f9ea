package scheduler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kilianp07/hangar/core/model"
)

// ErrPrecedenceCycle is matched by errors.Is on a *CycleError.
var ErrPrecedenceCycle = errors.New("precedence cycle")

// CycleError reports auto-inductions that precede each other.
type CycleError struct {
	// Path lists the keys along the cycle; the first key is repeated last.
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: %s", ErrPrecedenceCycle, strings.Join(e.Path, " -> "))
}

func (e *CycleError) Unwrap() error { return ErrPrecedenceCycle }

// Order returns auto-induction indices so that every induction comes after
// the auto-inductions listed in its Preceding. Roots are visited in input
// order and dependencies in declaration order, so the result is stable.
// References to anything other than an auto-induction key are ignored here.
func Order(autos []model.AutoInduction) ([]int, error) {
	keys := model.AutoKeys(autos)
	byKey := make(map[string]int, len(autos))
	for i, k := range keys {
		byKey[k] = i
	}
	deps := make([][]int, len(autos))
	for i, a := range autos {
		for _, ref := range a.Preceding {
			if j, ok := byKey[ref]; ok {
				deps[i] = append(deps[i], j)
			}
		}
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, len(autos))
	order := make([]int, 0, len(autos))
	for root := range autos {
		if state[root] != unvisited {
			continue
		}
		state[root] = visiting
		stack := []frame{{node: root}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next < len(deps[top.node]) {
				d := deps[top.node][top.next]
				top.next++
				switch state[d] {
				case unvisited:
					state[d] = visiting
					stack = append(stack, frame{node: d})
				case visiting:
					return nil, cycleFrom(keys, stack, d)
				}
				continue
			}
			state[top.node] = done
			order = append(order, top.node)
			stack = stack[:len(stack)-1]
		}
	}
	return order, nil
}

type frame struct {
	node int
	next int
}

func cycleFrom(keys []string, stack []frame, back int) error {
	start := 0
	for i, f := range stack {
		if f.node == back {
			start = i
			break
		}
	}
	path := make([]string, 0, len(stack)-start+1)
	for _, f := range stack[start:] {
		path = append(path, keys[f.node])
	}
	path = append(path, keys[back])
	return &CycleError{Path: path}
}
