package mahjong

import "fmt"

// Adjustment 一次牌山计数调整，From 为调整前的实际计数，撤销时直接恢复到 From
type Adjustment struct {
	Type   TileType
	Delta  int
	From   int
	To     int
	Forced bool
}

// Clamped 强制调整是否被边界截断
func (a Adjustment) Clamped() bool {
	return a.To-a.From != a.Delta
}

// Wall 牌山余量：每种牌尚未出现在手牌、副露、弃牌中的张数
type Wall struct {
	counts  [NumTileTypes]int
	players PlayerCount
}

func NewWall(players PlayerCount) *Wall {
	w := &Wall{players: players}
	for i := range w.counts {
		if players.Allows(TileType(i)) {
			w.counts[i] = MaxCopies
		}
	}
	return w
}

func (w *Wall) Players() PlayerCount {
	return w.players
}

func (w *Wall) Count(t TileType) int {
	return w.counts[t]
}

// Counts 拷贝一份全部计数
func (w *Wall) Counts() [NumTileTypes]int {
	return w.counts
}

// Remaining 剩余总张数
func (w *Wall) Remaining() int {
	n := 0
	for _, c := range w.counts {
		n += c
	}
	return n
}

func (w *Wall) Clone() *Wall {
	c := *w
	return &c
}

// Adjust 先校验后提交。非强制越界返回 ErrOutOfBounds 且计数不变，强制则钳制到 [0,4]
func (w *Wall) Adjust(t TileType, delta int, forced bool) (Adjustment, error) {
	if !w.players.Allows(t) {
		return Adjustment{}, fmt.Errorf("%w: %s in %d-player game", ErrIllegalTileForConfig, t, w.players)
	}
	from := w.counts[t]
	to := from + delta
	if to < 0 || to > MaxCopies {
		if !forced {
			return Adjustment{}, fmt.Errorf("%w: %s would become %d", ErrOutOfBounds, t, to)
		}
		to = min(max(to, 0), MaxCopies)
	}
	w.counts[t] = to
	return Adjustment{Type: t, Delta: delta, From: from, To: to, Forced: forced}, nil
}

// AdjustAll 对一组牌逐张调整，任一失败则整体回滚
func (w *Wall) AdjustAll(tiles []Tile, delta int, forced bool) ([]Adjustment, error) {
	backup := w.counts
	adjs := make([]Adjustment, 0, len(tiles))
	for _, t := range tiles {
		adj, err := w.Adjust(t.Type(), delta, forced)
		if err != nil {
			w.counts = backup
			return nil, err
		}
		adjs = append(adjs, adj)
	}
	return adjs, nil
}

// Revert 撤销一次调整，恢复到调整前的计数。非强制时校验当前计数与记录一致且目标在界内
func (w *Wall) Revert(adj Adjustment, ignoreBounds bool) error {
	if ignoreBounds {
		w.counts[adj.Type] = min(max(adj.From, 0), MaxCopies)
		return nil
	}
	if w.counts[adj.Type] != adj.To {
		return fmt.Errorf("%w: %s is %d, expected %d", ErrOutOfBounds, adj.Type, w.counts[adj.Type], adj.To)
	}
	if adj.From < 0 || adj.From > MaxCopies {
		return fmt.Errorf("%w: %s would become %d", ErrOutOfBounds, adj.Type, adj.From)
	}
	w.counts[adj.Type] = adj.From
	return nil
}
