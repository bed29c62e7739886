package mahjong

import (
	"fmt"
)

// Unreachable 该牌型不可能成立（有副露时的七对、国士，或张数不足）
const Unreachable = 99

// OrphanPolicy 国士无双计数用的牌种集合
type OrphanPolicy string

const (
	// OrphansStandard 始终使用 13 种幺九牌
	OrphansStandard OrphanPolicy = "standard"
	// OrphansReachable 只计当前人数配置下存在的幺九牌
	OrphansReachable OrphanPolicy = "reachable"
)

var kokushiTiles = [13]TileType{
	Man1, Man9,
	Pin1, Pin9,
	So1, So9,
	East, South, West, North,
	White, Green, Red,
}

// Rules 计算规则
type Rules struct {
	Players PlayerCount
	Orphans OrphanPolicy
}

// Memo 分花色拆解结果的缓存，common/cache.GeneralCache 满足该接口
type Memo interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{}) bool
}

// Breakdown 三种牌型各自的向听数
type Breakdown struct {
	Standard        int `json:"standard"`
	SevenPairs      int `json:"sevenPairs"`
	ThirteenOrphans int `json:"thirteenOrphans"`
}

func (b Breakdown) Best() int {
	return min(b.Standard, b.SevenPairs, b.ThirteenOrphans)
}

// Acceptance 一手 3k+1 的牌的向听数和进张
type Acceptance struct {
	Shanten int        `json:"shanten"`
	Accepts []TileType `json:"accepts"`
	Ukeire  int        `json:"ukeire"`
}

// DiscardOption 打出 Discard 后的向听数和进张
type DiscardOption struct {
	Discard TileType `json:"discard"`
	Acceptance
}

// Result 一手 3k+2 的牌的分析结果，Discards 按牌序排列
type Result struct {
	Shanten   int             `json:"shanten"`
	Breakdown Breakdown       `json:"breakdown"`
	Discards  []DiscardOption `json:"discards"`
}

// BestDiscards 打出后向听数最小的全部选项，不按进张数排序
func (r *Result) BestDiscards() []DiscardOption {
	best := Unreachable
	for _, d := range r.Discards {
		best = min(best, d.Shanten)
	}
	var out []DiscardOption
	for _, d := range r.Discards {
		if d.Shanten == best {
			out = append(out, d)
		}
	}
	return out
}

// WaitingResult 一手 3k+1 的牌的分析结果
type WaitingResult struct {
	Breakdown Breakdown `json:"breakdown"`
	Acceptance
}

type Searcher struct {
	rules       Rules
	memo        Memo
	orphanKinds []TileType
}

// NewSearcher memo 为 nil 时不缓存
func NewSearcher(rules Rules, memo Memo) *Searcher {
	if !rules.Players.Valid() {
		rules.Players = FourPlayer
	}
	if rules.Orphans == "" {
		rules.Orphans = OrphansStandard
	}
	s := &Searcher{rules: rules, memo: memo}
	for _, t := range kokushiTiles {
		if rules.Orphans == OrphansReachable && !rules.Players.Allows(t) {
			continue
		}
		s.orphanKinds = append(s.orphanKinds, t)
	}
	return s
}

func (s *Searcher) Rules() Rules {
	return s.rules
}

// Analyze 对 3k+2 张（含副露）的手牌计算向听数，以及每种打法的向听数和进张。
// remaining 为牌山余量，nil 表示不限制
func (s *Searcher) Analyze(hand *Hand, remaining *[NumTileTypes]int) (*Result, error) {
	if err := s.check(hand, 2); err != nil {
		return nil, err
	}
	fixed := (14 - hand.ConcealedCount()) / 3
	melds := len(hand.Melds)

	h := hand.Concealed
	res := &Result{Breakdown: s.breakdown(h, fixed, melds)}
	res.Shanten = res.Breakdown.Best()

	for i := range h {
		if h[i] == 0 {
			continue
		}
		h13 := h
		h13[i]--
		res.Discards = append(res.Discards, DiscardOption{
			Discard:    TileType(i),
			Acceptance: s.acceptance(hand, h13, fixed, remaining),
		})
	}
	return res, nil
}

// AnalyzeWaiting 对 3k+1 张的手牌计算向听数和进张
func (s *Searcher) AnalyzeWaiting(hand *Hand, remaining *[NumTileTypes]int) (*WaitingResult, error) {
	if err := s.check(hand, 1); err != nil {
		return nil, err
	}
	fixed := (13 - hand.ConcealedCount()) / 3
	acc := s.acceptance(hand, hand.Concealed, fixed, remaining)
	return &WaitingResult{
		Breakdown:  s.breakdown(hand.Concealed, fixed, len(hand.Melds)),
		Acceptance: acc,
	}, nil
}

func (s *Searcher) check(hand *Hand, rem int) error {
	total := hand.EffectiveCount()
	if total%3 != rem || total > 12+rem || hand.ConcealedCount() < rem {
		return fmt.Errorf("%w: %d tiles with %d melds", ErrInvalidHandSize, hand.ConcealedCount(), len(hand.Melds))
	}
	return hand.Check(s.rules.Players)
}

// acceptance 对 3k+1 的 h13 枚举可摸到的牌，严格降低向听数的即为进张
func (s *Searcher) acceptance(hand *Hand, h13 Hand34, fixed int, remaining *[NumTileTypes]int) Acceptance {
	melds := len(hand.Melds)
	acc := Acceptance{Shanten: s.breakdown(h13, fixed, melds).Best()}

	var inMelds [NumTileTypes]int
	for _, m := range hand.Melds {
		for _, t := range m.Tiles {
			inMelds[t.Type()]++
		}
	}

	for i := range h13 {
		t := TileType(i)
		if !s.rules.Players.Allows(t) {
			continue
		}
		if remaining != nil && remaining[i] <= 0 {
			continue
		}
		h14 := h13
		h14[i]++
		if s.breakdown(h14, fixed, melds).Best() >= acc.Shanten {
			continue
		}
		acc.Accepts = append(acc.Accepts, t)
		if remaining != nil {
			acc.Ukeire += remaining[i]
		} else {
			acc.Ukeire += max(0, MaxCopies-int(h13[i])-inMelds[i])
		}
	}
	return acc
}

func (s *Searcher) breakdown(h Hand34, fixed int, melds int) Breakdown {
	b := Breakdown{
		Standard:        s.ShantenNormal(h, fixed),
		SevenPairs:      Unreachable,
		ThirteenOrphans: Unreachable,
	}
	if melds == 0 && h.Count() >= 13 {
		b.SevenPairs = ShantenChiitoi(h)
		b.ThirteenOrphans = s.ShantenKokushi(h)
	}
	return b
}

// ShantenAll 三种牌型的最小向听数。
// fixed 为门前之外视作已完成的面子数（副露加短手缺的组），melds 只算真实副露，
// 有副露时七对和国士不可达
func (s *Searcher) ShantenAll(h Hand34, fixed, melds int) int {
	return s.breakdown(h, fixed, melds).Best()
}

// ShantenKokushi 国士无双向听数
func (s *Searcher) ShantenKokushi(h Hand34) int {
	unique := 0
	pair := false
	for _, t := range s.orphanKinds {
		if h[t] > 0 {
			unique++
			if h[t] >= 2 {
				pair = true
			}
		}
	}
	sh := len(s.orphanKinds) - unique
	if pair {
		sh--
	}
	return sh
}

// ShantenChiitoi 七对子向听数，四张相同只算一对
func ShantenChiitoi(h Hand34) int {
	pairs := 0
	unique := 0
	for i := 0; i < NumTileTypes; i++ {
		if h[i] > 0 {
			unique++
		}
		if h[i] >= 2 {
			pairs++
		}
	}
	pairs = min(pairs, 7)
	sh := 6 - pairs
	if unique < 7 {
		sh += 7 - unique
	}
	return sh
}

// ShantenNormal 一般型向听数：四个花色分别拆解，再合并取 8 - 2m - t - p 的最小值
func (s *Searcher) ShantenNormal(h Hand34, fixed int) int {
	var acc suitResult
	acc.reset()
	acc[0][0] = 0

	for suit := SuitMan; suit <= SuitHonor; suit++ {
		start := int(suit) * 9
		counts := h[start : start+suit.MaxRank()]
		acc = acc.merge(s.decompose(counts, suit == SuitHonor))
	}

	best := 8
	for p := 0; p < 2; p++ {
		for m := 0; m <= 4; m++ {
			t := int(acc[p][m])
			if t < 0 {
				continue
			}
			sets := min(m+fixed, 4)
			t = min(t, 4-sets)
			best = min(best, 8-2*sets-t-p)
		}
	}
	return max(best, -1)
}

// suitResult[p][m] 单个花色拆出 p 个雀头、m 个面子时最多的搭子数，-1 表示不可达
type suitResult [2][5]int8

func (r *suitResult) reset() {
	for p := range r {
		for m := range r[p] {
			r[p][m] = -1
		}
	}
}

func (r suitResult) merge(o suitResult) suitResult {
	var out suitResult
	out.reset()
	for p1 := 0; p1 < 2; p1++ {
		for m1 := 0; m1 <= 4; m1++ {
			if r[p1][m1] < 0 {
				continue
			}
			for p2 := 0; p1+p2 < 2; p2++ {
				for m2 := 0; m2 <= 4; m2++ {
					if o[p2][m2] < 0 {
						continue
					}
					m := min(m1+m2, 4)
					if t := r[p1][m1] + o[p2][m2]; t > out[p1+p2][m] {
						out[p1+p2][m] = t
					}
				}
			}
		}
	}
	return out
}

func (s *Searcher) decompose(counts []uint8, honor bool) suitResult {
	var key string
	if s.memo != nil {
		b := make([]byte, len(counts)+1)
		copy(b, counts)
		if honor {
			b[len(counts)] = 1
		}
		key = string(b)
		if v, ok := s.memo.Get(key); ok {
			if r, ok := v.(suitResult); ok {
				return r
			}
		}
	}

	r := decomposeSuit(counts, honor)
	if s.memo != nil {
		s.memo.Set(key, r)
	}
	return r
}

// decomposeSuit 枚举一个花色的全部拆法：刻子、顺子、雀头、对子搭子、两面/边张、嵌张、孤张
func decomposeSuit(counts []uint8, honor bool) suitResult {
	var res suitResult
	res.reset()

	var c [9]uint8
	n := copy(c[:], counts)

	var dfs func(i, m, p, t int)
	dfs = func(i, m, p, t int) {
		for i < n && c[i] == 0 {
			i++
		}
		if i == n {
			m = min(m, 4)
			if int8(t) > res[p][m] {
				res[p][m] = int8(t)
			}
			return
		}

		if c[i] >= 3 {
			c[i] -= 3
			dfs(i, m+1, p, t)
			c[i] += 3
		}
		if !honor && i+2 < n && c[i+1] > 0 && c[i+2] > 0 {
			c[i]--
			c[i+1]--
			c[i+2]--
			dfs(i, m+1, p, t)
			c[i]++
			c[i+1]++
			c[i+2]++
		}
		if c[i] >= 2 {
			c[i] -= 2
			if p == 0 {
				dfs(i, m, 1, t)
			}
			dfs(i, m, p, t+1)
			c[i] += 2
		}
		if !honor && i+1 < n && c[i+1] > 0 {
			c[i]--
			c[i+1]--
			dfs(i, m, p, t+1)
			c[i]++
			c[i+1]++
		}
		if !honor && i+2 < n && c[i+2] > 0 {
			c[i]--
			c[i+2]--
			dfs(i, m, p, t+1)
			c[i]++
			c[i+2]++
		}

		c[i]--
		dfs(i, m, p, t)
		c[i]++
	}
	dfs(0, 0, 0, 0)
	return res
}
