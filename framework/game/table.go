package game

import (
	"github.com/Futarimiti/riichi-hairi/framework/game/engines/mahjong"
)

// Phase 手牌阶段
type Phase int8

const (
	PhaseWaitToInit      Phase = iota // 尚未配牌
	PhaseFull                         // 14 张（副露按 3 张计），需要打牌或开杠
	PhaseLackOne                      // 13 张，可以摸牌或吃碰杠
	PhaseWaitReplacement              // 开杠后等待岭上牌
)

func (p Phase) String() string {
	switch p {
	case PhaseWaitToInit:
		return "wait-to-init"
	case PhaseFull:
		return "full"
	case PhaseLackOne:
		return "lack-one"
	case PhaseWaitReplacement:
		return "wait-replacement"
	default:
		return "unknown"
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Table 一个玩家视角下的牌局状态：牌山余量、手牌、打过的牌种、阶段。
// 只能通过 History 修改
type Table struct {
	wall      *mahjong.Wall
	hand      *mahjong.Hand
	discarded [mahjong.NumTileTypes]bool
	phase     Phase
}

func NewTable(players mahjong.PlayerCount) *Table {
	return &Table{
		wall:  mahjong.NewWall(players),
		hand:  &mahjong.Hand{},
		phase: PhaseWaitToInit,
	}
}

func (t *Table) Players() mahjong.PlayerCount {
	return t.wall.Players()
}

func (t *Table) Phase() Phase {
	return t.phase
}

// Wall 返回副本
func (t *Table) Wall() *mahjong.Wall {
	return t.wall.Clone()
}

// Hand 返回副本
func (t *Table) Hand() *mahjong.Hand {
	return t.hand.Clone()
}

// Discarded 打出过的牌种，按牌序
func (t *Table) Discarded() []mahjong.TileType {
	var out []mahjong.TileType
	for i, d := range t.discarded {
		if d {
			out = append(out, mahjong.TileType(i))
		}
	}
	return out
}

// AtQueryPoint 是否到达需要自动计算向听的时点
func (t *Table) AtQueryPoint() bool {
	return t.phase == PhaseFull && t.hand.EffectiveCount() == 14
}

func (t *Table) clone() *Table {
	return &Table{
		wall:      t.wall.Clone(),
		hand:      t.hand.Clone(),
		discarded: t.discarded,
		phase:     t.phase,
	}
}
