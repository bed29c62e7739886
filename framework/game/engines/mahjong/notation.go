package mahjong

import (
	"fmt"
	"strings"
	"unicode"
)

// 牌谱记法：数字在前，花色字母在后，如 123599m22p45s1z
// [] 内为明副露（3 张吃/碰，4 张大明杠），() 内为暗杠，空白忽略

func suitOfLetter(c rune) (Suit, bool) {
	switch c {
	case 'm':
		return SuitMan, true
	case 'p':
		return SuitPin, true
	case 's':
		return SuitSou, true
	case 'z':
		return SuitHonor, true
	default:
		return 0, false
	}
}

// ParseTiles 解析不带副露的牌串
func ParseTiles(s string) ([]Tile, error) {
	var out []Tile
	var ranks []int
	for _, c := range s {
		switch {
		case unicode.IsSpace(c):
			continue
		case c >= '0' && c <= '9':
			ranks = append(ranks, int(c-'0'))
		default:
			suit, ok := suitOfLetter(c)
			if !ok {
				return nil, fmt.Errorf("%w: unexpected %q in %q", ErrInvalidNotation, c, s)
			}
			if len(ranks) == 0 {
				return nil, fmt.Errorf("%w: suit %q without ranks in %q", ErrInvalidNotation, c, s)
			}
			for _, r := range ranks {
				t, err := NewTile(suit, r)
				if err != nil {
					return nil, err
				}
				out = append(out, t)
			}
			ranks = ranks[:0]
		}
	}
	if len(ranks) > 0 {
		return nil, fmt.Errorf("%w: ranks without suit in %q", ErrInvalidNotation, s)
	}
	return out, nil
}

// ParseHand 解析带副露的手牌，如 123m456p11s[555z](7777p)
func ParseHand(s string) (*Hand, error) {
	var concealed []Tile
	var melds []Meld

	rest := s
	for len(rest) > 0 {
		open := strings.IndexAny(rest, "[(")
		if open < 0 {
			tiles, err := ParseTiles(rest)
			if err != nil {
				return nil, err
			}
			concealed = append(concealed, tiles...)
			break
		}
		if strings.ContainsAny(rest[:open], "])") {
			return nil, fmt.Errorf("%w: unbalanced brackets in %q", ErrInvalidNotation, s)
		}
		tiles, err := ParseTiles(rest[:open])
		if err != nil {
			return nil, err
		}
		concealed = append(concealed, tiles...)

		closer := byte(']')
		if rest[open] == '(' {
			closer = ')'
		}
		end := strings.IndexByte(rest[open+1:], closer)
		if end < 0 {
			return nil, fmt.Errorf("%w: unclosed %q in %q", ErrInvalidNotation, rest[open], s)
		}
		body := rest[open+1 : open+1+end]
		meld, err := parseMeld(body, closer == ')')
		if err != nil {
			return nil, err
		}
		melds = append(melds, meld)
		rest = rest[open+end+2:]
	}
	return NewHand(concealed, melds...), nil
}

func parseMeld(body string, concealed bool) (Meld, error) {
	tiles, err := ParseTiles(body)
	if err != nil {
		return Meld{}, err
	}
	if concealed {
		return NewMeld(MeldKanConcealed, tiles, Tile{})
	}
	switch len(tiles) {
	case 3:
		if allSame(tiles) {
			return NewMeld(MeldPon, tiles, Tile{})
		}
		return NewMeld(MeldChi, tiles, Tile{})
	case 4:
		return NewMeld(MeldKanOpen, tiles, Tile{})
	default:
		return Meld{}, fmt.Errorf("%w: %d tiles in [%s]", ErrIllegalMeldShape, len(tiles), body)
	}
}

// FormatTiles 连续同花色合并输出，如 [1m 2m 5p] -> 12m5p
func FormatTiles(tiles []Tile) string {
	var b strings.Builder
	for i, t := range tiles {
		b.WriteByte(byte('0' + t.Rank))
		if i == len(tiles)-1 || tiles[i+1].Suit != t.Suit {
			b.WriteByte(t.Suit.Letter())
		}
	}
	return b.String()
}

// FormatTypes 同 FormatTiles，输入为牌种
func FormatTypes(types []TileType) string {
	tiles := make([]Tile, len(types))
	for i, t := range types {
		tiles[i] = t.Tile()
	}
	return FormatTiles(tiles)
}
