package layout

import (
	"context"
	"math"
	"math/rand/v2"
)

// Tuning holds the annealing schedule parameters. The defaults reproduce the
// established runtime/quality trade-off of the editor; changing any of them
// shifts that balance for every document.
type Tuning struct {
	// InitialTemperature is the starting temperature of the outer cooling
	// loop.
	InitialTemperature float64

	// CoolingFactor multiplies the temperature after each plateau.
	CoolingFactor float64

	// MinTemperature ends the run once the temperature falls below it.
	MinTemperature float64

	// BatchMultiplier scales the number of proposed moves per batch:
	// every batch proposes activeCells × BatchMultiplier swaps.
	BatchMultiplier int

	// StuckThreshold is the number of consecutive low-improvement batches
	// that triggers cooling.
	StuckThreshold int

	// GainThreshold is the relative cost improvement a batch must exceed
	// to reset the stuck counter. A batch improving cost by less than
	// GainThreshold × batch-start cost counts as stuck.
	GainThreshold float64
}

// DefaultTuning is the standard annealing schedule.
var DefaultTuning = Tuning{
	InitialTemperature: 200,
	CoolingFactor:      0.5,
	MinTemperature:     0.05,
	BatchMultiplier:    100,
	StuckThreshold:     5,
	GainThreshold:      0.1,
}

// change describes one pairwise cell relocation: the two row/slot locations
// exchanged and the two arena cells involved. The same value drives both the
// apply and the revert.
type change struct {
	sourceRow, sourceSlot  int
	targetRow, targetSlot  int
	sourceCell, targetCell int
}

// planChange picks two distinct cells uniformly at random: a row, then a
// slot within it, independently for source and target. Empty cells are fair
// targets, which is what lets a node migrate into open lattice space.
func (g *grid) planChange(rng *rand.Rand) change {
	var c change
	for {
		c.sourceRow = rng.IntN(len(g.rows))
		row := g.rows[c.sourceRow]
		if len(row) == 0 {
			continue
		}
		c.sourceSlot = rng.IntN(len(row))
		c.sourceCell = row[c.sourceSlot]

		c.targetRow = rng.IntN(len(g.rows))
		row = g.rows[c.targetRow]
		if len(row) == 0 {
			continue
		}
		c.targetSlot = rng.IntN(len(row))
		c.targetCell = row[c.targetSlot]

		if c.sourceCell != c.targetCell {
			return c
		}
	}
}

// doChange exchanges the two cells between their slots, moves each cell's
// rect to its new slot position on the zero-gap pitch, and stashes the prior
// rect so undoChange can revert.
func (g *grid) doChange(c change) {
	g.rows[c.sourceRow][c.sourceSlot] = c.targetCell
	g.rows[c.targetRow][c.targetSlot] = c.sourceCell

	src := &g.cells[c.sourceCell]
	src.stash = src.rect
	src.rect.x = float64(c.targetSlot) * MinNodeWidth
	src.rect.y = float64(c.targetRow) * MinNodeHeight

	dst := &g.cells[c.targetCell]
	dst.stash = dst.rect
	dst.rect.x = float64(c.sourceSlot) * MinNodeWidth
	dst.rect.y = float64(c.sourceRow) * MinNodeHeight
}

// undoChange restores the slot assignment and rects from before doChange.
func (g *grid) undoChange(c change) {
	g.rows[c.sourceRow][c.sourceSlot] = c.sourceCell
	g.rows[c.targetRow][c.targetSlot] = c.targetCell
	g.cells[c.sourceCell].rect = g.cells[c.sourceCell].stash
	g.cells[c.targetCell].rect = g.cells[c.targetCell].stash
}

// anneal runs the cooling loop to completion and returns the final cost.
// The context is checked between batches; a cancelled run leaves the grid in
// a consistent (partially optimized) state.
func (o *Optimizer) anneal(ctx context.Context) (float64, error) {
	g := o.grid
	cost := g.totalCost()
	initial := cost

	o.log.Info("starting annealing", "activeCells", g.activeCount(), "cost", initial)

	t := o.tuning.InitialTemperature
	for t > o.tuning.MinTemperature {
		stuck := 0
		for stuck < o.tuning.StuckThreshold {
			if err := ctx.Err(); err != nil {
				return cost, err
			}

			var accepts, rejects int
			batchCost := cost
			moves := g.activeCount() * o.tuning.BatchMultiplier
			for i := 0; i < moves; i++ {
				ch := g.planChange(o.rng)

				newCost := cost
				newCost -= g.compoundCost(ch.sourceCell)
				newCost -= g.compoundCost(ch.targetCell)

				g.doChange(ch)

				newCost += g.compoundCost(ch.sourceCell)
				newCost += g.compoundCost(ch.targetCell)

				delta := newCost - cost
				switch {
				case delta <= 0:
					cost = newCost
					accepts++
				case o.rng.Float64() < math.Exp(-delta/t):
					cost = newCost
					accepts++
				default:
					g.undoChange(ch)
					rejects++
				}
			}

			// A cost of zero means no edges pull on any cell; every batch
			// is then a plateau and the loop cools straight through.
			gain := 0.0
			if batchCost != 0 {
				gain = (cost - batchCost) / batchCost
			}
			o.log.Debug("batch finished",
				"cost", cost, "gain", gain, "accepts", accepts, "rejects", rejects, "t", t)

			if gain >= -o.tuning.GainThreshold {
				stuck++
			} else {
				stuck = 0
			}
		}
		t *= o.tuning.CoolingFactor
	}

	gain := 0.0
	if initial != 0 {
		gain = (cost - initial) / initial
	}
	o.log.Info("annealing finished", "cost", cost, "gain", gain)
	return cost, nil
}
