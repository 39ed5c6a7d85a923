package games

import (
	"context"
	"math"

	"github.com/samber/lo"

	"valentinequest/internal/quest/event"
)

// DrivingStage is the stage the driving game belongs to.
const DrivingStage = 1

// DrivingConfig lays out the collectibles.
type DrivingConfig struct {
	TrackRadius  float64 // collectibles sit on a circle of this radius
	PickupRadius float64 // car-to-item distance that counts as a hit
}

// DefaultDrivingConfig returns the layout used by the quest.
func DefaultDrivingConfig() DrivingConfig {
	return DrivingConfig{TrackRadius: 40, PickupRadius: 3}
}

// Point is a position on the ground plane.
type Point struct {
	X float64 `json:"x"`
	Z float64 `json:"z"`
}

func (p Point) dist(o Point) float64 {
	return math.Hypot(p.X-o.X, p.Z-o.Z)
}

// Collectible is one item on the track. Collecting it reveals Slot.
type Collectible struct {
	Pos       Point `json:"pos"`
	Slot      int   `json:"slot"`
	Collected bool  `json:"collected"`
}

// Driving is the collection game: the car drives around picking up one
// collectible per assigned slot.
type Driving struct {
	cfg   DrivingConfig
	sink  event.Sink
	items []Collectible
	car   Point
	done  bool
}

// NewDriving places one collectible per slot. Slots for which revealed
// reports true start out collected, so a restored visitor does not have to
// collect them again.
func NewDriving(ctx context.Context, sink event.Sink, slots []int, revealed func(int) bool, cfg DrivingConfig) *Driving {
	items := lo.Map(slots, func(slot int, i int) Collectible {
		angle := 2 * math.Pi * float64(i) / float64(len(slots))
		return Collectible{
			Pos:       Point{X: cfg.TrackRadius * math.Cos(angle), Z: cfg.TrackRadius * math.Sin(angle)},
			Slot:      slot,
			Collected: revealed != nil && revealed(slot),
		}
	})
	d := &Driving{cfg: cfg, sink: sink, items: items}
	d.checkDone(ctx)
	return d
}

// Step moves the car to pos and collects every item in reach. It is called
// once per animation frame, so hits on items already collected are ignored.
// It returns the slots revealed by this step.
func (d *Driving) Step(ctx context.Context, pos Point) []int {
	d.car = pos
	if d.done {
		return nil
	}
	var hit []int
	for i := range d.items {
		it := &d.items[i]
		if it.Collected || pos.dist(it.Pos) > d.cfg.PickupRadius {
			continue
		}
		it.Collected = true
		hit = append(hit, it.Slot)
	}
	if len(hit) > 0 {
		d.sink.Emit(ctx, event.Revealed{Stage: DrivingStage, Indices: hit})
	}
	d.checkDone(ctx)
	return hit
}

func (d *Driving) checkDone(ctx context.Context) {
	if d.done || len(d.items) == 0 {
		return
	}
	if !lo.EveryBy(d.items, func(it Collectible) bool { return it.Collected }) {
		return
	}
	d.done = true
	d.sink.Emit(ctx, event.Completed{
		Stage:   DrivingStage,
		Indices: lo.Map(d.items, func(it Collectible, _ int) int { return it.Slot }),
		Advance: event.OnNext,
	})
}

// Done reports whether every item was collected.
func (d *Driving) Done() bool { return d.done }

// DrivingView is the client-facing snapshot of the game.
type DrivingView struct {
	Car       Point         `json:"car"`
	Items     []Collectible `json:"items"`
	Collected int           `json:"collected"`
	Total     int           `json:"total"`
	Done      bool          `json:"done"`
}

// View returns a snapshot.
func (d *Driving) View() DrivingView {
	return DrivingView{
		Car:       d.car,
		Items:     append([]Collectible(nil), d.items...),
		Collected: lo.CountBy(d.items, func(it Collectible) bool { return it.Collected }),
		Total:     len(d.items),
		Done:      d.done,
	}
}
