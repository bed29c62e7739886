package mahjong

import (
	"fmt"
	"slices"
	"strings"
)

// MeldKind 副露种类
type MeldKind int8

const (
	MeldChi          MeldKind = iota // 吃
	MeldPon                          // 碰
	MeldKanOpen                      // 大明杠
	MeldKanAdded                     // 加杠
	MeldKanConcealed                 // 暗杠
)

func (k MeldKind) String() string {
	switch k {
	case MeldChi:
		return "chi"
	case MeldPon:
		return "pon"
	case MeldKanOpen:
		return "kan-open"
	case MeldKanAdded:
		return "kan-added"
	case MeldKanConcealed:
		return "kan-concealed"
	default:
		return "unknown"
	}
}

func (k MeldKind) IsKan() bool {
	return k == MeldKanOpen || k == MeldKanAdded || k == MeldKanConcealed
}

func (k MeldKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Meld 副露。Claimed 为鸣入的那张牌，暗杠没有
type Meld struct {
	Kind    MeldKind `json:"kind"`
	Tiles   []Tile   `json:"tiles"`
	Claimed Tile     `json:"claimed,omitzero"`
}

// NewMeld 校验形状后构造副露，tiles 会被排序
func NewMeld(kind MeldKind, tiles []Tile, claimed Tile) (Meld, error) {
	sorted := slices.Clone(tiles)
	slices.SortFunc(sorted, compareTiles)
	m := Meld{Kind: kind, Tiles: sorted, Claimed: claimed}
	if err := m.checkShape(); err != nil {
		return Meld{}, err
	}
	return m, nil
}

func (m Meld) checkShape() error {
	for _, t := range m.Tiles {
		if !t.Valid() {
			return fmt.Errorf("%w: invalid tile %v", ErrIllegalMeldShape, t)
		}
	}
	switch m.Kind {
	case MeldChi:
		if len(m.Tiles) != 3 {
			return fmt.Errorf("%w: chi needs 3 tiles, got %d", ErrIllegalMeldShape, len(m.Tiles))
		}
		a, b, c := m.Tiles[0], m.Tiles[1], m.Tiles[2]
		if a.Suit == SuitHonor || a.Suit != b.Suit || b.Suit != c.Suit || b.Rank != a.Rank+1 || c.Rank != b.Rank+1 {
			return fmt.Errorf("%w: %s is not a run", ErrIllegalMeldShape, FormatTiles(m.Tiles))
		}
	case MeldPon:
		if len(m.Tiles) != 3 || !allSame(m.Tiles) {
			return fmt.Errorf("%w: %s is not a triplet", ErrIllegalMeldShape, FormatTiles(m.Tiles))
		}
	case MeldKanOpen, MeldKanAdded, MeldKanConcealed:
		if len(m.Tiles) != 4 || !allSame(m.Tiles) {
			return fmt.Errorf("%w: %s is not a quad", ErrIllegalMeldShape, FormatTiles(m.Tiles))
		}
	default:
		return fmt.Errorf("%w: unknown kind %d", ErrIllegalMeldShape, m.Kind)
	}

	if m.Kind == MeldKanConcealed {
		if m.HasClaim() {
			return fmt.Errorf("%w: concealed kan cannot claim a tile", ErrIllegalMeldShape)
		}
		return nil
	}
	if m.HasClaim() && !slices.Contains(m.Tiles, m.Claimed) {
		return fmt.Errorf("%w: claimed %s not in %s", ErrIllegalMeldShape, m.Claimed, FormatTiles(m.Tiles))
	}
	return nil
}

func (m Meld) HasClaim() bool {
	return m.Claimed.Valid()
}

// Type 副露的牌种，吃取最小的那张
func (m Meld) Type() TileType {
	return m.Tiles[0].Type()
}

func (m Meld) Clone() Meld {
	m.Tiles = slices.Clone(m.Tiles)
	return m
}

func (m Meld) String() string {
	s := FormatTiles(m.Tiles)
	if m.Kind == MeldKanConcealed {
		return "(" + s + ")"
	}
	return "[" + s + "]"
}

func allSame(tiles []Tile) bool {
	for _, t := range tiles[1:] {
		if t != tiles[0] {
			return false
		}
	}
	return true
}

func compareTiles(a, b Tile) int {
	switch {
	case a.Less(b):
		return -1
	case b.Less(a):
		return 1
	default:
		return 0
	}
}

// Hand34 按牌种计数
type Hand34 [NumTileTypes]uint8

func Hand34FromTiles(tiles []Tile) Hand34 {
	var h Hand34
	for _, t := range tiles {
		h[t.Type()]++
	}
	return h
}

func (h *Hand34) Count() int {
	n := 0
	for _, c := range h {
		n += int(c)
	}
	return n
}

// Tiles 展开为有序的牌列表
func (h *Hand34) Tiles() []Tile {
	out := make([]Tile, 0, 14)
	for i, c := range h {
		for j := 0; j < int(c); j++ {
			out = append(out, TileType(i).Tile())
		}
	}
	return out
}

// Hand 手牌：门前计数 + 副露
type Hand struct {
	Concealed Hand34
	Melds     []Meld
}

func NewHand(concealed []Tile, melds ...Meld) *Hand {
	return &Hand{
		Concealed: Hand34FromTiles(concealed),
		Melds:     slices.Clone(melds),
	}
}

func (h *Hand) ConcealedCount() int {
	return h.Concealed.Count()
}

// EffectiveCount 门前张数 + 每个副露按 3 张计
func (h *Hand) EffectiveCount() int {
	return h.ConcealedCount() + 3*len(h.Melds)
}

func (h *Hand) Clone() *Hand {
	c := &Hand{Concealed: h.Concealed, Melds: make([]Meld, len(h.Melds))}
	for i, m := range h.Melds {
		c.Melds[i] = m.Clone()
	}
	return c
}

// FindPon 返回该牌种已有碰的下标，没有返回 -1
func (h *Hand) FindPon(t TileType) int {
	for i, m := range h.Melds {
		if m.Kind == MeldPon && m.Type() == t {
			return i
		}
	}
	return -1
}

// Check 校验手牌里的所有牌在该配置下合法
func (h *Hand) Check(p PlayerCount) error {
	for i, c := range h.Concealed {
		if c > 0 && !p.Allows(TileType(i)) {
			return fmt.Errorf("%w: %s in %d-player game", ErrIllegalTileForConfig, TileType(i), p)
		}
	}
	for _, m := range h.Melds {
		if err := m.checkShape(); err != nil {
			return err
		}
		if err := p.Check(m.Tiles...); err != nil {
			return err
		}
	}
	return nil
}

func (h *Hand) String() string {
	var b strings.Builder
	b.WriteString(FormatTiles(h.Concealed.Tiles()))
	for _, m := range h.Melds {
		b.WriteString(m.String())
	}
	return b.String()
}
