package board

import (
	"math/rand"
	"sync"
	"time"

	"github.com/cbodonnell/snakes/pkg/game/constants"
)

// Roller draws a die value in [1, constants.DieFaces].
type Roller interface {
	Roll() int
}

// RandomRoller is a Roller backed by math/rand. It is safe for concurrent use.
type RandomRoller struct {
	lock sync.Mutex
	rng  *rand.Rand
}

func NewRandomRoller(seed int64) *RandomRoller {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomRoller{
		rng: rand.New(rand.NewSource(seed)),
	}
}

func (r *RandomRoller) Roll() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.rng.Intn(constants.DieFaces) + 1
}

// SequenceRoller replays a fixed sequence of rolls and then keeps returning
// Fallback. Useful for scripted games.
type SequenceRoller struct {
	lock     sync.Mutex
	rolls    []int
	next     int
	Fallback int
}

func NewSequenceRoller(rolls ...int) *SequenceRoller {
	return &SequenceRoller{
		rolls:    rolls,
		Fallback: 1,
	}
}

func (r *SequenceRoller) Roll() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.next >= len(r.rolls) {
		return r.Fallback
	}
	roll := r.rolls[r.next]
	r.next++
	return roll
}
