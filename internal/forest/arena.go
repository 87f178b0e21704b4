package forest

import (
	"fortio.org/safecast"
	"github.com/cockroachdb/errors"
)

type arena[T any] struct {
	data []T
}

func newArena[T any](capHint uint) *arena[T] {
	return &arena[T]{data: make([]T, 0, capHint)}
}

// allocate возвращает индекс нового элемента (1-based).
func (a *arena[T]) allocate(value T) NodeID {
	a.data = append(a.data, value)
	id, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(errors.AssertionFailedf("forest node overflow: %v", err))
	}
	return NodeID(id)
}

func (a *arena[T]) get(id NodeID) *T {
	if id == NoNode || int(id) > len(a.data) {
		return nil
	}
	return &a.data[id-1]
}

func (a *arena[T]) len() int { return len(a.data) }

// READONLY
func (a *arena[T]) slice() []T { return a.data }
