package game

import (
	"fmt"

	"github.com/Futarimiti/riichi-hairi/common/log"
	"github.com/Futarimiti/riichi-hairi/framework/game/engines/mahjong"
)

// entry 一条历史记录：操作本身，以及撤销它所需的差量
type entry struct {
	op    Operation
	phase Phase // 操作前的阶段

	adjs     []mahjong.Adjustment
	delta    [mahjong.NumTileTypes]int8 // 门前计数变化
	prior    mahjong.Hand34             // 操作前的门前计数
	appended bool                       // 新增了一个副露
	upgraded int                        // 加杠的副露下标，-1 表示没有
	pon      mahjong.Meld               // 加杠前的碰
	marked   mahjong.TileType           // 新记入打牌集合的牌种，-1 表示没有
}

func (e *entry) revert(t *Table, ignoreBounds bool) error {
	for i := len(e.adjs) - 1; i >= 0; i-- {
		if err := t.wall.Revert(e.adjs[i], ignoreBounds); err != nil {
			return err
		}
	}
	for i, d := range e.delta {
		if d == 0 {
			continue
		}
		v := int(t.hand.Concealed[i]) - int(d)
		// 操作前确实持有的张数总可以恢复，哪怕强制摸牌让它超过 4
		limit := max(mahjong.MaxCopies, int(e.prior[i]))
		if v < 0 || v > limit {
			if !ignoreBounds {
				return fmt.Errorf("%w: concealed %s would become %d", mahjong.ErrOutOfBounds, mahjong.TileType(i), v)
			}
			v = min(max(v, 0), limit)
		}
		t.hand.Concealed[i] = uint8(v)
	}
	if e.appended {
		t.hand.Melds = t.hand.Melds[:len(t.hand.Melds)-1]
	}
	if e.upgraded >= 0 {
		t.hand.Melds[e.upgraded] = e.pon.Clone()
	}
	if e.marked >= 0 {
		t.discarded[e.marked] = false
	}
	t.phase = e.phase
	return nil
}

// tx 在 Table 的副本上执行一次操作并记录差量，成功后才替换原 Table
type tx struct {
	t *Table
	e *entry
}

func begin(t *Table, op Operation) *tx {
	return &tx{
		t: t.clone(),
		e: &entry{op: op, phase: t.phase, prior: t.hand.Concealed, upgraded: -1, marked: -1},
	}
}

func (x *tx) players() mahjong.PlayerCount {
	return x.t.Players()
}

func (x *tx) expect(op Operation, phases ...Phase) error {
	for _, p := range phases {
		if x.t.phase == p {
			return nil
		}
	}
	return fmt.Errorf("%w: %s in phase %s", ErrIllegalPhase, op.Kind(), x.t.phase)
}

func (x *tx) adjust(tiles []mahjong.Tile, delta int, forced bool) error {
	adjs, err := x.t.wall.AdjustAll(tiles, delta, forced)
	if err != nil {
		return err
	}
	x.e.adjs = append(x.e.adjs, adjs...)
	return nil
}

func (x *tx) adjustWall(tiles []mahjong.Tile, delta int, forced bool) error {
	if len(tiles) == 0 {
		return fmt.Errorf("%w: no tiles given", mahjong.ErrInvalidNotation)
	}
	if err := x.players().Check(tiles...); err != nil {
		return err
	}
	return x.adjust(tiles, delta, forced)
}

func (x *tx) take(tile mahjong.Tile, n int) error {
	k := tile.Type()
	if held := int(x.t.hand.Concealed[k]); held < n {
		return fmt.Errorf("%w: need %d of %s, have %d", mahjong.ErrTileNotInHand, n, tile, held)
	}
	x.t.hand.Concealed[k] -= uint8(n)
	x.e.delta[k] -= int8(n)
	return nil
}

func (x *tx) give(tile mahjong.Tile) {
	k := tile.Type()
	x.t.hand.Concealed[k]++
	x.e.delta[k]++
}

func (x *tx) appendMeld(m mahjong.Meld) {
	x.t.hand.Melds = append(x.t.hand.Melds, m)
	x.e.appended = true
}

func (x *tx) upgradeMeld(i int, m mahjong.Meld) {
	x.e.upgraded = i
	x.e.pon = x.t.hand.Melds[i].Clone()
	x.t.hand.Melds[i] = m
}

func (x *tx) mark(t mahjong.TileType) {
	if !x.t.discarded[t] {
		x.t.discarded[t] = true
		x.e.marked = t
	}
}

// Record 历史中的一条操作，Phase 为操作前的阶段
type Record struct {
	Kind     OpKind    `json:"kind"`
	Notation string    `json:"notation"`
	Forced   bool      `json:"forced"`
	Phase    Phase     `json:"phase"`
	Meld     string    `json:"meld,omitempty"`
	Op       Operation `json:"-"`
}

// History 线性的操作日志，持有 Table。
// Apply 和 Undo 都在副本上执行，失败时日志和状态都不变
type History struct {
	table   *Table
	entries []*entry
}

func NewHistory(players mahjong.PlayerCount) *History {
	return &History{table: NewTable(players)}
}

func (h *History) Table() *Table {
	return h.table
}

func (h *History) Len() int {
	return len(h.entries)
}

func (h *History) Apply(op Operation) error {
	top, ok := op.(tableOp)
	if !ok {
		return fmt.Errorf("%w: %s is not a table operation", ErrUnknownCommand, op.Kind())
	}
	x := begin(h.table, op)
	if err := top.apply(x); err != nil {
		return err
	}
	h.table = x.t
	h.entries = append(h.entries, x.e)
	log.Debug("applied %s, phase %s -> %s", x.e.op.Notation(), x.e.phase, h.table.phase)
	return nil
}

// Undo 撤销最近一次操作。ignoreBounds 为 true 时跳过边界校验，按钳制恢复
func (h *History) Undo(ignoreBounds bool) (Operation, error) {
	if len(h.entries) == 0 {
		return nil, ErrEmptyHistory
	}
	e := h.entries[len(h.entries)-1]
	t := h.table.clone()
	if err := e.revert(t, ignoreBounds); err != nil {
		return nil, err
	}
	h.table = t
	h.entries[len(h.entries)-1] = nil
	h.entries = h.entries[:len(h.entries)-1]
	log.Debug("undone %s, phase -> %s", e.op.Notation(), t.phase)
	return e.op, nil
}

// Records 从旧到新
func (h *History) Records() []Record {
	out := make([]Record, 0, len(h.entries))
	for _, e := range h.entries {
		r := Record{
			Kind:     e.op.Kind(),
			Notation: e.op.Notation(),
			Forced:   e.op.Forced(),
			Phase:    e.phase,
			Op:       e.op,
		}
		if c, ok := e.op.(Call); ok {
			r.Meld = c.Meld.Kind.String()
		}
		out = append(out, r)
	}
	return out
}
