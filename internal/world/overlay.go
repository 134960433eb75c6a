package world

// EditKind names the player action behind an overlay change.
type EditKind string

const (
	EditBreak EditKind = "break"
	EditPlace EditKind = "place"
)

// Edit records one overlay mutation.
type Edit struct {
	Key  BlockKey
	Tile TileCoord
	Kind EditKind
	// Changed is false when the call was a repeat of the current state.
	Changed bool
}

// Overlay records player edits independently of chunk residency. A key is
// never broken and added at the same time.
//
// Overlay is not safe for concurrent use; World serializes access to it.
type Overlay struct {
	chunkSize int
	broken    KeySet
	added     KeySet
}

func NewOverlay(chunkSize int) *Overlay {
	return &Overlay{
		chunkSize: chunkSize,
		broken:    NewKeySet(),
		added:     NewKeySet(),
	}
}

// Break forces the tile non-solid and drops any placed block there.
func (o *Overlay) Break(x, y int) Edit {
	key := KeyForTile(x, y, o.chunkSize)
	removed := o.added.Remove(key)
	inserted := o.broken.Add(key)
	return Edit{
		Key:     key,
		Tile:    TileCoord{X: x, Y: y},
		Kind:    EditBreak,
		Changed: removed || inserted,
	}
}

// Place forces the tile solid and clears a previous break.
func (o *Overlay) Place(x, y int) Edit {
	key := KeyForTile(x, y, o.chunkSize)
	removed := o.broken.Remove(key)
	inserted := o.added.Add(key)
	return Edit{
		Key:     key,
		Tile:    TileCoord{X: x, Y: y},
		Kind:    EditPlace,
		Changed: removed || inserted,
	}
}

func (o *Overlay) IsBroken(key BlockKey) bool {
	return o.broken.Has(key)
}

func (o *Overlay) IsAdded(key BlockKey) bool {
	return o.added.Has(key)
}

// Solid composes a generated type with the overlay.
func (o *Overlay) Solid(key BlockKey, generated TileType) bool {
	if o.broken.Has(key) {
		return false
	}
	return generated.Solid() || o.added.Has(key)
}

func (o *Overlay) BrokenCount() int {
	return o.broken.Len()
}

func (o *Overlay) AddedCount() int {
	return o.added.Len()
}

// Edits lists the current overlay state as edits, broken keys first, each
// group in key order.
func (o *Overlay) Edits() []Edit {
	out := make([]Edit, 0, o.broken.Len()+o.added.Len())
	collect := func(kind EditKind) func(BlockKey) bool {
		return func(key BlockKey) bool {
			out = append(out, Edit{Key: key, Tile: key.Tile(o.chunkSize), Kind: kind, Changed: true})
			return true
		}
	}
	o.broken.ForEach(collect(EditBreak))
	o.added.ForEach(collect(EditPlace))
	return out
}
