package game

import (
	"fmt"
	"slices"

	"github.com/Futarimiti/riichi-hairi/framework/game/engines/mahjong"
)

// OpKind 操作种类
type OpKind int8

const (
	OpInit OpKind = iota
	OpDraw
	OpDiscard
	OpCall
	OpWallAdd
	OpWallRemove
	OpConfigSwitch
	OpModeSwitch
)

func (k OpKind) String() string {
	switch k {
	case OpInit:
		return "init"
	case OpDraw:
		return "draw"
	case OpDiscard:
		return "discard"
	case OpCall:
		return "call"
	case OpWallAdd:
		return "wall-add"
	case OpWallRemove:
		return "wall-remove"
	case OpConfigSwitch:
		return "config-switch"
	case OpModeSwitch:
		return "mode-switch"
	default:
		return "unknown"
	}
}

func (k OpKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Operation 会话上的一次操作。Notation 能被 ParseCommand 解析回同一个操作，用于回放
type Operation interface {
	Kind() OpKind
	Forced() bool
	Notation() string
}

// tableOp 作用在 Table 上、进入历史记录的操作
type tableOp interface {
	Operation
	apply(x *tx) error
}

func forcedPrefix(forced bool) string {
	if forced {
		return "!"
	}
	return ""
}

// Init 配牌：13 或 14 张门前牌，从牌山扣除
type Init struct {
	Force bool
	Tiles []mahjong.Tile
}

func (o Init) Kind() OpKind { return OpInit }
func (o Init) Forced() bool { return o.Force }
func (o Init) Notation() string {
	return forcedPrefix(o.Force) + "=" + mahjong.FormatTiles(sortedTiles(o.Tiles))
}

func (o Init) apply(x *tx) error {
	if err := x.players().Check(o.Tiles...); err != nil {
		return err
	}
	if err := x.expect(o, PhaseWaitToInit); err != nil {
		return err
	}
	next := PhaseLackOne
	switch len(o.Tiles) {
	case 13:
	case 14:
		next = PhaseFull
	default:
		return fmt.Errorf("%w: init with %d tiles, need 13 or 14", mahjong.ErrInvalidHandSize, len(o.Tiles))
	}
	if err := x.adjust(o.Tiles, -1, o.Force); err != nil {
		return err
	}
	for _, t := range o.Tiles {
		x.give(t)
	}
	x.t.phase = next
	return nil
}

// Draw 摸牌，包括岭上牌
type Draw struct {
	Force bool
	Tile  mahjong.Tile
}

func (o Draw) Kind() OpKind     { return OpDraw }
func (o Draw) Forced() bool     { return o.Force }
func (o Draw) Notation() string { return forcedPrefix(o.Force) + "+" + o.Tile.String() }

func (o Draw) apply(x *tx) error {
	if err := x.players().Check(o.Tile); err != nil {
		return err
	}
	if err := x.expect(o, PhaseLackOne, PhaseWaitReplacement); err != nil {
		return err
	}
	if err := x.adjust([]mahjong.Tile{o.Tile}, -1, o.Force); err != nil {
		return err
	}
	x.give(o.Tile)
	x.t.phase = PhaseFull
	return nil
}

// Discard 打牌。牌山不变，牌种记入打牌集合
type Discard struct {
	Force bool
	Tile  mahjong.Tile
}

func (o Discard) Kind() OpKind     { return OpDiscard }
func (o Discard) Forced() bool     { return o.Force }
func (o Discard) Notation() string { return forcedPrefix(o.Force) + "-" + o.Tile.String() }

func (o Discard) apply(x *tx) error {
	if err := x.players().Check(o.Tile); err != nil {
		return err
	}
	if err := x.expect(o, PhaseFull); err != nil {
		return err
	}
	if err := x.take(o.Tile, 1); err != nil {
		return err
	}
	x.mark(o.Tile.Type())
	x.t.phase = PhaseLackOne
	return nil
}

// Call 吃、碰、杠。Claimed 为鸣入的牌，零值时取 Tiles[0]。
// 杠的种类在执行时判定，Meld 记录判定后的副露
type Call struct {
	Force       bool
	Tiles       []mahjong.Tile
	Claimed     mahjong.Tile
	Replacement mahjong.Tile
	Meld        mahjong.Meld
}

func (o Call) Kind() OpKind { return OpCall }
func (o Call) Forced() bool { return o.Force }

func (o Call) Notation() string {
	s := forcedPrefix(o.Force) + ">" + mahjong.FormatTiles(o.ordered())
	if o.HasReplacement() {
		s += "+" + o.Replacement.String()
	}
	return s
}

func (o Call) HasReplacement() bool {
	return o.Replacement.Valid()
}

func (o Call) claimed() mahjong.Tile {
	if o.Claimed.Valid() || len(o.Tiles) == 0 {
		return o.Claimed
	}
	return o.Tiles[0]
}

// ordered 鸣入的牌放在最前
func (o Call) ordered() []mahjong.Tile {
	c := o.claimed()
	i := slices.Index(o.Tiles, c)
	if i <= 0 {
		return o.Tiles
	}
	out := make([]mahjong.Tile, 0, len(o.Tiles))
	out = append(out, c)
	out = append(out, o.Tiles[:i]...)
	return append(out, o.Tiles[i+1:]...)
}

func (o Call) apply(x *tx) error {
	if err := x.players().Check(o.Tiles...); err != nil {
		return err
	}
	if o.HasReplacement() {
		if err := x.players().Check(o.Replacement); err != nil {
			return err
		}
	}
	switch len(o.Tiles) {
	case 3:
		return o.applyChiPon(x)
	case 4:
		return o.applyKan(x)
	default:
		return fmt.Errorf("%w: %d tiles in call", mahjong.ErrIllegalMeldShape, len(o.Tiles))
	}
}

func (o Call) applyChiPon(x *tx) error {
	if err := x.expect(o, PhaseLackOne); err != nil {
		return err
	}
	if o.HasReplacement() {
		return fmt.Errorf("%w: replacement draw only follows a kan", mahjong.ErrIllegalMeldShape)
	}
	kind := mahjong.MeldChi
	if o.Tiles[0] == o.Tiles[1] && o.Tiles[1] == o.Tiles[2] {
		kind = mahjong.MeldPon
	}
	claimed := o.claimed()
	meld, err := mahjong.NewMeld(kind, o.Tiles, claimed)
	if err != nil {
		return err
	}
	if err := x.adjust([]mahjong.Tile{claimed}, -1, o.Force); err != nil {
		return err
	}
	for _, t := range o.ordered()[1:] {
		if err := x.take(t, 1); err != nil {
			return err
		}
	}
	x.appendMeld(meld)
	x.t.phase = PhaseFull

	o.Meld = meld
	x.e.op = o
	return nil
}

// applyKan 摸满 14 张时：已有同种碰则为加杠，否则门前 4 张为暗杠；
// 13 张时：门前 3 张加鸣入的牌为大明杠
func (o Call) applyKan(x *tx) error {
	if _, err := mahjong.NewMeld(mahjong.MeldKanOpen, o.Tiles, mahjong.Tile{}); err != nil {
		return err
	}
	tile := o.Tiles[0]
	held := int(x.t.hand.Concealed[tile.Type()])

	var meld mahjong.Meld
	var err error
	switch x.t.phase {
	case PhaseFull:
		if i := x.t.hand.FindPon(tile.Type()); i >= 0 && held >= 1 {
			pon := x.t.hand.Melds[i]
			if meld, err = mahjong.NewMeld(mahjong.MeldKanAdded, o.Tiles, pon.Claimed); err != nil {
				return err
			}
			if err = x.take(tile, 1); err != nil {
				return err
			}
			x.upgradeMeld(i, meld)
		} else if held >= 4 {
			if meld, err = mahjong.NewMeld(mahjong.MeldKanConcealed, o.Tiles, mahjong.Tile{}); err != nil {
				return err
			}
			if err = x.take(tile, 4); err != nil {
				return err
			}
			x.appendMeld(meld)
		} else {
			return fmt.Errorf("%w: kan of %s needs a pon plus one or four concealed, have %d", mahjong.ErrTileNotInHand, tile, held)
		}
	case PhaseLackOne:
		if held < 3 {
			return fmt.Errorf("%w: open kan of %s needs three concealed, have %d", mahjong.ErrTileNotInHand, tile, held)
		}
		if meld, err = mahjong.NewMeld(mahjong.MeldKanOpen, o.Tiles, tile); err != nil {
			return err
		}
		if err = x.adjust([]mahjong.Tile{tile}, -1, o.Force); err != nil {
			return err
		}
		if err = x.take(tile, 3); err != nil {
			return err
		}
		x.appendMeld(meld)
	default:
		return fmt.Errorf("%w: kan in phase %s", ErrIllegalPhase, x.t.phase)
	}

	x.t.phase = PhaseWaitReplacement
	if o.HasReplacement() {
		if err := x.adjust([]mahjong.Tile{o.Replacement}, -1, o.Force); err != nil {
			return err
		}
		x.give(o.Replacement)
		x.t.phase = PhaseFull
	}

	o.Meld = meld
	x.e.op = o
	return nil
}

// WallAdd 修正牌山：每张牌余量 +1
type WallAdd struct {
	Force bool
	Tiles []mahjong.Tile
}

func (o WallAdd) Kind() OpKind { return OpWallAdd }
func (o WallAdd) Forced() bool { return o.Force }
func (o WallAdd) Notation() string {
	return "*" + forcedPrefix(o.Force) + "+" + mahjong.FormatTiles(o.Tiles)
}

func (o WallAdd) apply(x *tx) error {
	return x.adjustWall(o.Tiles, 1, o.Force)
}

// WallRemove 修正牌山：每张牌余量 -1，比如看到了别家的弃牌
type WallRemove struct {
	Force bool
	Tiles []mahjong.Tile
}

func (o WallRemove) Kind() OpKind { return OpWallRemove }
func (o WallRemove) Forced() bool { return o.Force }
func (o WallRemove) Notation() string {
	return "*" + forcedPrefix(o.Force) + "-" + mahjong.FormatTiles(o.Tiles)
}

func (o WallRemove) apply(x *tx) error {
	return x.adjustWall(o.Tiles, -1, o.Force)
}

// ConfigSwitch 切换人数，重置会话
type ConfigSwitch struct {
	Players mahjong.PlayerCount
}

func (o ConfigSwitch) Kind() OpKind     { return OpConfigSwitch }
func (o ConfigSwitch) Forced() bool     { return false }
func (o ConfigSwitch) Notation() string { return fmt.Sprintf(":%d", o.Players) }

// ModeSwitch 切换普通/交互模式，重置会话
type ModeSwitch struct {
	Interactive bool
}

func (o ModeSwitch) Kind() OpKind { return OpModeSwitch }
func (o ModeSwitch) Forced() bool { return false }
func (o ModeSwitch) Notation() string {
	if o.Interactive {
		return ":i"
	}
	return ":n"
}

func sortedTiles(tiles []mahjong.Tile) []mahjong.Tile {
	out := slices.Clone(tiles)
	slices.SortFunc(out, func(a, b mahjong.Tile) int {
		return int(a.Type()) - int(b.Type())
	})
	return out
}
