package game

import (
	"fmt"

	"github.com/Futarimiti/riichi-hairi/common/log"
	"github.com/Futarimiti/riichi-hairi/framework/game/engines/mahjong"
)

// Mode 会话模式
type Mode int8

const (
	ModeNormal      Mode = iota // 只做无状态分析
	ModeInteractive             // 维护牌山、手牌和历史
)

func (m Mode) String() string {
	if m == ModeInteractive {
		return "interactive"
	}
	return "normal"
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Snapshot 会话当前状态。Result 只在状态操作之后到达计算时点时给出，每次重新计算
type Snapshot struct {
	Mode      Mode                     `json:"mode"`
	Players   mahjong.PlayerCount      `json:"players"`
	Phase     Phase                    `json:"phase"`
	Wall      map[mahjong.TileType]int `json:"wall"`
	Remaining int                      `json:"remaining"`
	Hand      string                   `json:"hand"`
	Concealed []mahjong.Tile           `json:"concealed"`
	Melds     []mahjong.Meld           `json:"melds"`
	Discarded []mahjong.TileType       `json:"discarded"`
	History   int                      `json:"history"`
	Result    *mahjong.Result          `json:"result,omitempty"`
}

// Session 一个玩家的会话：模式、人数配置和一份操作日志。
// 不是并发安全的，多客户端时每个客户端各持有一个
type Session struct {
	mode     Mode
	rules    mahjong.Rules
	memo     mahjong.Memo
	searcher *mahjong.Searcher
	history  *History
}

// NewSession 初始为普通模式，memo 可以为 nil
func NewSession(rules mahjong.Rules, memo mahjong.Memo) *Session {
	s := &Session{mode: ModeNormal, memo: memo}
	s.reset(rules)
	return s
}

func (s *Session) reset(rules mahjong.Rules) {
	s.searcher = mahjong.NewSearcher(rules, s.memo)
	s.rules = s.searcher.Rules()
	s.history = NewHistory(s.rules.Players)
}

func (s *Session) Mode() Mode {
	return s.mode
}

func (s *Session) Players() mahjong.PlayerCount {
	return s.rules.Players
}

func (s *Session) Rules() mahjong.Rules {
	return s.rules
}

// Apply 执行一个操作。切换类操作会重置会话，其余操作只能在交互模式下使用
func (s *Session) Apply(op Operation) (*Snapshot, error) {
	switch o := op.(type) {
	case ConfigSwitch:
		return s.SwitchConfig(o.Players)
	case ModeSwitch:
		return s.SwitchMode(o.Interactive), nil
	}
	if s.mode != ModeInteractive {
		return nil, fmt.Errorf("%w: %s", ErrModeViolation, op.Kind())
	}
	if err := s.history.Apply(op); err != nil {
		return nil, err
	}
	return s.snapshot(true), nil
}

func (s *Session) Undo(ignoreBounds bool) (*Snapshot, error) {
	if s.mode != ModeInteractive {
		return nil, fmt.Errorf("%w: undo", ErrModeViolation)
	}
	if _, err := s.history.Undo(ignoreBounds); err != nil {
		return nil, err
	}
	return s.snapshot(false), nil
}

// History 从旧到新的操作记录
func (s *Session) History() []Record {
	return s.history.Records()
}

// SwitchConfig 切换人数并重置
func (s *Session) SwitchConfig(players mahjong.PlayerCount) (*Snapshot, error) {
	if !players.Valid() {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPlayerCount, players)
	}
	rules := s.rules
	rules.Players = players
	s.reset(rules)
	log.Debug("session switched to %d players", players)
	return s.snapshot(false), nil
}

// SwitchMode 切换模式并重置
func (s *Session) SwitchMode(interactive bool) *Snapshot {
	s.mode = ModeNormal
	if interactive {
		s.mode = ModeInteractive
	}
	s.reset(s.rules)
	log.Debug("session switched to %s mode", s.mode)
	return s.snapshot(false)
}

// Snapshot 当前状态，不含计算结果
func (s *Session) Snapshot() *Snapshot {
	return s.snapshot(false)
}

func (s *Session) snapshot(query bool) *Snapshot {
	t := s.history.Table()
	wall := t.Wall()
	hand := t.Hand()

	snap := &Snapshot{
		Mode:      s.mode,
		Players:   s.rules.Players,
		Phase:     t.Phase(),
		Wall:      make(map[mahjong.TileType]int),
		Remaining: wall.Remaining(),
		Hand:      hand.String(),
		Concealed: hand.Concealed.Tiles(),
		Melds:     hand.Melds,
		Discarded: t.Discarded(),
		History:   s.history.Len(),
	}
	for i := mahjong.TileType(0); i < mahjong.NumTileTypes; i++ {
		if s.rules.Players.Allows(i) {
			snap.Wall[i] = wall.Count(i)
		}
	}

	if query && t.AtQueryPoint() {
		counts := wall.Counts()
		res, err := s.searcher.Analyze(hand, &counts)
		if err != nil {
			log.Warn("analyze %s failed: %v", hand, err)
		} else {
			snap.Result = res
			log.Debug("analyzed %s: shanten %d", hand, res.Shanten)
		}
	}
	return snap
}

// Analyze 无状态分析，不读写会话的牌山和手牌，两种模式下都可用
func (s *Session) Analyze(hand *mahjong.Hand) (*mahjong.Result, error) {
	return s.searcher.Analyze(hand, nil)
}

// AnalyzeWaiting 无状态分析 3k+1 张的手牌
func (s *Session) AnalyzeWaiting(hand *mahjong.Hand) (*mahjong.WaitingResult, error) {
	return s.searcher.AnalyzeWaiting(hand, nil)
}

// Outcome 一条命令的执行结果，按命令种类只填其中一项
type Outcome struct {
	Snapshot *Snapshot              `json:"snapshot,omitempty"`
	Records  []Record               `json:"history,omitempty"`
	Result   *mahjong.Result        `json:"result,omitempty"`
	Waiting  *mahjong.WaitingResult `json:"waiting,omitempty"`
}

// Execute 分发一条解析好的命令
func (s *Session) Execute(cmd Command) (*Outcome, error) {
	switch cmd.Kind {
	case CmdApply:
		snap, err := s.Apply(cmd.Op)
		if err != nil {
			return nil, err
		}
		return &Outcome{Snapshot: snap}, nil
	case CmdUndo:
		snap, err := s.Undo(cmd.IgnoreBounds)
		if err != nil {
			return nil, err
		}
		return &Outcome{Snapshot: snap}, nil
	case CmdHistory:
		return &Outcome{Records: s.History()}, nil
	case CmdAnalyze:
		if cmd.Hand.EffectiveCount()%3 == 1 {
			w, err := s.AnalyzeWaiting(cmd.Hand)
			if err != nil {
				return nil, err
			}
			return &Outcome{Waiting: w}, nil
		}
		res, err := s.Analyze(cmd.Hand)
		if err != nil {
			return nil, err
		}
		return &Outcome{Result: res}, nil
	default:
		return nil, fmt.Errorf("%w: kind %d", ErrUnknownCommand, cmd.Kind)
	}
}

// Replay 在交互模式下从头重放一组操作记号，任一失败即停止
func Replay(s *Session, players mahjong.PlayerCount, notations []string) (*Snapshot, error) {
	if _, err := s.SwitchConfig(players); err != nil {
		return nil, err
	}
	snap := s.SwitchMode(true)
	for i, n := range notations {
		cmd, err := ParseCommand(n)
		if err != nil {
			return nil, fmt.Errorf("replay step %d %q: %w", i, n, err)
		}
		if cmd.Kind != CmdApply {
			return nil, fmt.Errorf("replay step %d %q: %w", i, n, ErrUnknownCommand)
		}
		if snap, err = s.Apply(cmd.Op); err != nil {
			return nil, fmt.Errorf("replay step %d %q: %w", i, n, err)
		}
	}
	return snap, nil
}
