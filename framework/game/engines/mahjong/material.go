package mahjong

import (
	"fmt"
	"strconv"
)

// Suit 花色
type Suit int8

const (
	SuitMan   Suit = iota // 万子
	SuitPin               // 筒子
	SuitSou               // 索子
	SuitHonor             // 字牌
)

var suitLetters = [...]byte{'m', 'p', 's', 'z'}

func (s Suit) Letter() byte {
	return suitLetters[s]
}

func (s Suit) MaxRank() int {
	if s == SuitHonor {
		return 7
	}
	return 9
}

func (s Suit) String() string {
	switch s {
	case SuitMan:
		return "man"
	case SuitPin:
		return "pin"
	case SuitSou:
		return "sou"
	case SuitHonor:
		return "honor"
	default:
		return "unknown"
	}
}

// TileType 牌种，0-33 连续编号，可直接作为计数数组下标
type TileType int

const (
	// 万子 (0-8)
	Man1 TileType = iota
	Man2
	Man3
	Man4
	Man5
	Man6
	Man7
	Man8
	Man9

	// 筒子 (9-17)
	Pin1
	Pin2
	Pin3
	Pin4
	Pin5
	Pin6
	Pin7
	Pin8
	Pin9

	// 索子 (18-26)
	So1
	So2
	So3
	So4
	So5
	So6
	So7
	So8
	So9

	// 字牌 (27-33)
	East
	South
	West
	North
	White
	Green
	Red
)

// NumTileTypes 牌种总数
const NumTileTypes = 34

// MaxCopies 每种牌的张数
const MaxCopies = 4

func (t TileType) Valid() bool {
	return t >= Man1 && t <= Red
}

func (t TileType) Suit() Suit {
	return Suit(int(t) / 9)
}

func (t TileType) Rank() int {
	return int(t)%9 + 1
}

func (t TileType) IsNumbered() bool {
	return t >= Man1 && t <= So9
}

func (t TileType) IsHonor() bool {
	return t >= East && t <= Red
}

func (t TileType) IsTerminalOrHonor() bool {
	if t.IsHonor() {
		return true
	}
	r := t.Rank()
	return r == 1 || r == 9
}

func (t TileType) Tile() Tile {
	return Tile{Suit: t.Suit(), Rank: int8(t.Rank())}
}

func (t TileType) String() string {
	if !t.Valid() {
		return "?"
	}
	return t.Tile().String()
}

func (t TileType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TileType) UnmarshalText(b []byte) error {
	var tile Tile
	if err := tile.UnmarshalText(b); err != nil {
		return err
	}
	*t = tile.Type()
	return nil
}

// Tile 一张牌，(花色, 点数) 的值类型
type Tile struct {
	Suit Suit
	Rank int8
}

// NewTile 构造并校验一张牌
func NewTile(suit Suit, rank int) (Tile, error) {
	t := Tile{Suit: suit, Rank: int8(rank)}
	if !t.Valid() {
		return Tile{}, fmt.Errorf("%w: rank %d for suit %s", ErrInvalidNotation, rank, suit)
	}
	return t, nil
}

func (t Tile) Valid() bool {
	if t.Suit < SuitMan || t.Suit > SuitHonor {
		return false
	}
	return t.Rank >= 1 && int(t.Rank) <= t.Suit.MaxRank()
}

// Type 对应的牌种编号
func (t Tile) Type() TileType {
	return TileType(int(t.Suit)*9 + int(t.Rank) - 1)
}

// Less 按 (花色, 点数) 排序
func (t Tile) Less(o Tile) bool {
	if t.Suit != o.Suit {
		return t.Suit < o.Suit
	}
	return t.Rank < o.Rank
}

func (t Tile) String() string {
	return strconv.Itoa(int(t.Rank)) + string(t.Suit.Letter())
}

func (t Tile) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Tile) UnmarshalText(b []byte) error {
	tiles, err := ParseTiles(string(b))
	if err != nil {
		return err
	}
	if len(tiles) != 1 {
		return fmt.Errorf("%w: %q is not a single tile", ErrInvalidNotation, b)
	}
	*t = tiles[0]
	return nil
}

// PlayerCount 对局人数配置
type PlayerCount int

const (
	FourPlayer  PlayerCount = 4
	ThreePlayer PlayerCount = 3
)

func (p PlayerCount) Valid() bool {
	return p == FourPlayer || p == ThreePlayer
}

// Allows 该配置下是否存在这种牌，三麻去掉 2-8 万
func (p PlayerCount) Allows(t TileType) bool {
	if p == ThreePlayer && t >= Man2 && t <= Man8 {
		return false
	}
	return t.Valid()
}

// Check 校验一组牌在该配置下是否合法
func (p PlayerCount) Check(tiles ...Tile) error {
	for _, t := range tiles {
		if !t.Valid() {
			return fmt.Errorf("%w: %v", ErrInvalidNotation, t)
		}
		if !p.Allows(t.Type()) {
			return fmt.Errorf("%w: %s in %d-player game", ErrIllegalTileForConfig, t, p)
		}
	}
	return nil
}
