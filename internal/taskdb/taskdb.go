// Package taskdb implements the ordered, shared-ownership task database: a
// ordered sequence of pointer-identity-unique items, each carrying
// caller-chosen auxiliary data, with a replay-log-maintained index so that
// repeated lookups amortize to O(1) despite structural mutation shifting
// every subsequent index.
package taskdb

// rebuildThreshold is the replay-log length at which the pointer index is
// rebuilt from scratch instead of replayed incrementally.
const rebuildThreshold = 1 << 12

const insertMask uint32 = 1 << 31

// insDel packs either an insert-at or delete-at record into a single 32-bit
// word: the top bit distinguishes the two, the remaining bits are the
// index. This keeps the append-only mutation log cheap to grow.
type insDel uint32

func newInsert(idx int) insDel { return insDel(insertMask | uint32(idx)) }
func newDelete(idx int) insDel { return insDel(uint32(idx)) }

// adjust returns idx as it would read after this record is applied: idx
// shifts by one if the record's own index is at or before it, in the
// direction the record moves (insert pushes later indices up, delete pulls
// them down); otherwise idx is unaffected.
func (r insDel) adjust(idx uint32) uint32 {
	opIdx := uint32(r) &^ insertMask
	if opIdx > idx {
		return idx
	}
	if uint32(r)&insertMask != 0 {
		return idx + 1
	}
	return idx - 1
}

// replayIdx is a pointer-identity index entry that may be stale: replaying
// the mutation log from gen onward against idx produces the true current
// index.
type replayIdx struct {
	idx uint32
	gen int
}

func (r replayIdx) replay(log []insDel) int {
	idx := r.idx
	if r.gen < len(log) {
		for _, op := range log[r.gen:] {
			idx = op.adjust(idx)
		}
	}
	return int(idx)
}

type slot[T, Aux any] struct {
	ptr *T
	aux Aux
}

// Db is an ordered collection of shared, pointer-identity-unique items of
// type T, each carrying caller-chosen auxiliary data of type Aux.
type Db[T, Aux any] struct {
	data     []slot[T, Aux]
	byPtrIdx map[*T]*replayIdx
	insDel   []insDel
}

// Pair bundles an item with its initial auxiliary value for construction.
type Pair[T, Aux any] struct {
	Item T
	Aux  Aux
}

// FromItems constructs a Db from pairs, preserving iteration order, and
// returns the stable pointer identity assigned to each item alongside the
// Db.
func FromItems[T, Aux any](pairs []Pair[T, Aux]) (*Db[T, Aux], []*T) {
	data := make([]slot[T, Aux], len(pairs))
	ptrs := make([]*T, len(pairs))
	for i, p := range pairs {
		item := p.Item
		data[i] = slot[T, Aux]{ptr: &item, aux: p.Aux}
		ptrs[i] = &item
	}
	db := &Db[T, Aux]{data: data, byPtrIdx: makePtrIdx(data)}
	return db, ptrs
}

func makePtrIdx[T, Aux any](data []slot[T, Aux]) map[*T]*replayIdx {
	idx := make(map[*T]*replayIdx, len(data))
	for i, s := range data {
		idx[s.ptr] = &replayIdx{idx: uint32(i)}
	}
	return idx
}

// maybeRebuild rebuilds the pointer index from scratch and clears the
// mutation log once it has grown past rebuildThreshold, returning true if
// it did so.
func (db *Db[T, Aux]) maybeRebuild() bool {
	if len(db.insDel) < rebuildThreshold {
		return false
	}
	db.byPtrIdx = makePtrIdx(db.data)
	db.insDel = db.insDel[:0]
	return true
}

// index records that the item now at data[idx] was just inserted. Must be
// called after the element has been added to data.
func (db *Db[T, Aux]) index(idx int) {
	if db.maybeRebuild() {
		return
	}
	db.insDel = append(db.insDel, newInsert(idx))
	db.byPtrIdx[db.data[idx].ptr] = &replayIdx{idx: uint32(idx), gen: len(db.insDel)}
}

// deindex records that the item currently at data[idx] is about to be
// removed. Must be called before the element is removed from data.
func (db *Db[T, Aux]) deindex(idx int) {
	db.maybeRebuild()
	db.insDel = append(db.insDel, newDelete(idx))
	delete(db.byPtrIdx, db.data[idx].ptr)
}

// Find looks up item's Entry by pointer identity. Amortized O(1): a stale
// index is replayed against the mutation log and the result cached back.
func (db *Db[T, Aux]) Find(item *T) (Entry[T, Aux], bool) {
	rep, ok := db.byPtrIdx[item]
	if !ok {
		return Entry[T, Aux]{}, false
	}
	dataIdx := rep.replay(db.insDel)
	*rep = replayIdx{idx: uint32(dataIdx), gen: len(db.insDel)}
	return db.Get(dataIdx)
}

// InsertWithAux inserts item at index, boxing it as a new shared-identity
// item, and returns its Entry.
func (db *Db[T, Aux]) InsertWithAux(index int, item T, aux Aux) Entry[T, Aux] {
	db.insertSlot(index, slot[T, Aux]{ptr: &item, aux: aux})
	e, _ := db.Get(index)
	return e
}

// Insert is InsertWithAux with the zero value of Aux.
func (db *Db[T, Aux]) Insert(index int, item T) Entry[T, Aux] {
	var zero Aux
	return db.InsertWithAux(index, item, zero)
}

// TryInsertWithAux inserts the already shared-identity item at index,
// refusing if it is already present in this Db.
func (db *Db[T, Aux]) TryInsertWithAux(index int, item *T, aux Aux) (Entry[T, Aux], bool) {
	if _, ok := db.Find(item); ok {
		return Entry[T, Aux]{}, false
	}
	db.insertSlot(index, slot[T, Aux]{ptr: item, aux: aux})
	return db.Get(index)
}

// TryInsert is TryInsertWithAux with the zero value of Aux.
func (db *Db[T, Aux]) TryInsert(index int, item *T) (Entry[T, Aux], bool) {
	var zero Aux
	return db.TryInsertWithAux(index, item, zero)
}

func (db *Db[T, Aux]) insertSlot(index int, s slot[T, Aux]) {
	db.data = append(db.data, slot[T, Aux]{})
	copy(db.data[index+1:], db.data[index:])
	db.data[index] = s
	db.index(index)
}

// PushWithAux appends item, boxing it as a new shared-identity item, and
// returns its Entry.
func (db *Db[T, Aux]) PushWithAux(item T, aux Aux) Entry[T, Aux] {
	return db.InsertWithAux(len(db.data), item, aux)
}

// Push is PushWithAux with the zero value of Aux.
func (db *Db[T, Aux]) Push(item T) Entry[T, Aux] {
	return db.Insert(len(db.data), item)
}

// TryPushWithAux appends the already shared-identity item, refusing if it
// is already present in this Db.
func (db *Db[T, Aux]) TryPushWithAux(item *T, aux Aux) (Entry[T, Aux], bool) {
	return db.TryInsertWithAux(len(db.data), item, aux)
}

// TryPush is TryPushWithAux with the zero value of Aux.
func (db *Db[T, Aux]) TryPush(item *T) (Entry[T, Aux], bool) {
	return db.TryInsert(len(db.data), item)
}

// Remove removes and returns the item and auxiliary data at index.
func (db *Db[T, Aux]) Remove(index int) (*T, Aux) {
	db.deindex(index)
	s := db.data[index]
	db.data = append(db.data[:index], db.data[index+1:]...)
	return s.ptr, s.aux
}

// Get returns the Entry at index, if any.
func (db *Db[T, Aux]) Get(index int) (Entry[T, Aux], bool) {
	if index < 0 || index >= len(db.data) {
		return Entry[T, Aux]{}, false
	}
	return Entry[T, Aux]{db: db, index: index}, true
}

// Len returns the number of items in the Db.
func (db *Db[T, Aux]) Len() int {
	return len(db.data)
}

// Last returns the Entry for the final item, if any.
func (db *Db[T, Aux]) Last() (Entry[T, Aux], bool) {
	if len(db.data) == 0 {
		return Entry[T, Aux]{}, false
	}
	return db.Get(len(db.data) - 1)
}

// All returns an iterator over the items of the Db in order.
func (db *Db[T, Aux]) All() func(yield func(*T) bool) {
	return func(yield func(*T) bool) {
		for _, s := range db.data {
			if !yield(s.ptr) {
				return
			}
		}
	}
}

// Entry is a read-only view of one item in a Db along with get/set access
// to its auxiliary data.
type Entry[T, Aux any] struct {
	db    *Db[T, Aux]
	index int
}

// Index returns this entry's current position in the Db.
func (e Entry[T, Aux]) Index() int { return e.index }

// Item returns the entry's underlying shared item.
func (e Entry[T, Aux]) Item() *T { return e.db.data[e.index].ptr }

// Aux returns the entry's current auxiliary value.
func (e Entry[T, Aux]) Aux() Aux { return e.db.data[e.index].aux }

// SetAux updates the entry's auxiliary value.
func (e Entry[T, Aux]) SetAux(aux Aux) { e.db.data[e.index].aux = aux }

// Next returns the Entry following this one, if any.
func (e Entry[T, Aux]) Next() (Entry[T, Aux], bool) {
	return e.db.Get(e.index + 1)
}

// Prev returns the Entry preceding this one, if any.
func (e Entry[T, Aux]) Prev() (Entry[T, Aux], bool) {
	if e.index == 0 {
		return Entry[T, Aux]{}, false
	}
	return e.db.Get(e.index - 1)
}
