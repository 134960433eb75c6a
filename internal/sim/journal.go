package sim

import (
	"sort"

	"tileworld/internal/world"
)

// editJournal collects the overlay edits applied during one tick. Repeated
// edits of the same tile collapse to the latest one.
type editJournal struct {
	data map[world.BlockKey]world.Edit
	seq  uint64
}

func newEditJournal() *editJournal {
	return &editJournal{data: make(map[world.BlockKey]world.Edit)}
}

func (j *editJournal) add(edit world.Edit) {
	if j.data == nil {
		j.data = make(map[world.BlockKey]world.Edit)
	}
	j.data[edit.Key] = edit
}

func (j *editJournal) len() int {
	return len(j.data)
}

// flush returns the pending edits ordered by tile and resets the journal.
// Each non-empty flush advances the journal sequence.
func (j *editJournal) flush() ([]world.Edit, uint64) {
	if len(j.data) == 0 {
		return nil, j.seq
	}

	edits := make([]world.Edit, 0, len(j.data))
	for _, edit := range j.data {
		edits = append(edits, edit)
	}
	sortEdits(edits)

	j.seq++
	j.data = make(map[world.BlockKey]world.Edit)
	return edits, j.seq
}

func sortEdits(edits []world.Edit) {
	sort.Slice(edits, func(i, j int) bool {
		a, b := edits[i].Tile, edits[j].Tile
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
}
