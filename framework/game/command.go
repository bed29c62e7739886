package game

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/Futarimiti/riichi-hairi/framework/game/engines/mahjong"
)

// CommandKind 命令种类
type CommandKind int8

const (
	CmdApply   CommandKind = iota // 执行一个操作
	CmdUndo                       // 撤销
	CmdHistory                    // 查看历史
	CmdAnalyze                    // 无状态分析一手牌
)

// Command 解析后的一行输入
type Command struct {
	Kind         CommandKind
	Op           Operation
	IgnoreBounds bool
	Hand         *mahjong.Hand
}

// ParseCommand 解析一行命令：
//
//	=<hand>            配牌，!= 为强制
//	+<t> / !+<t>       摸牌
//	-<t> / !-<t>       打牌
//	*+<tiles>          牌山 +1，*!+ 为强制
//	*-<tiles>          牌山 -1，*!- 为强制
//	><tiles>[+<t>]     吃碰杠，第一张为鸣入的牌，可带岭上牌；!> 为强制
//	< / <!             撤销 / 忽略边界撤销
//	?                  历史
//	:3 / :4            切换人数
//	:i / :n            切换交互/普通模式
//	<hand>             无状态分析，如 123m456p789s11z[555z]
func ParseCommand(line string) (Command, error) {
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, line)
	if s == "" {
		return Command{}, fmt.Errorf("%w: empty input", ErrUnknownCommand)
	}

	switch s {
	case "<":
		return Command{Kind: CmdUndo}, nil
	case "<!":
		return Command{Kind: CmdUndo, IgnoreBounds: true}, nil
	case "?":
		return Command{Kind: CmdHistory}, nil
	case ":3":
		return opCommand(ConfigSwitch{Players: mahjong.ThreePlayer}), nil
	case ":4":
		return opCommand(ConfigSwitch{Players: mahjong.FourPlayer}), nil
	case ":i":
		return opCommand(ModeSwitch{Interactive: true}), nil
	case ":n":
		return opCommand(ModeSwitch{Interactive: false}), nil
	}

	if s[0] == '*' {
		return parseWall(s[1:])
	}

	forced := false
	body := s
	if body[0] == '!' {
		forced = true
		body = body[1:]
		if body == "" {
			return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, line)
		}
	}

	switch body[0] {
	case '=':
		tiles, err := mahjong.ParseTiles(body[1:])
		if err != nil {
			return Command{}, err
		}
		return opCommand(Init{Force: forced, Tiles: tiles}), nil
	case '+':
		t, err := parseSingle(body[1:])
		if err != nil {
			return Command{}, err
		}
		return opCommand(Draw{Force: forced, Tile: t}), nil
	case '-':
		t, err := parseSingle(body[1:])
		if err != nil {
			return Command{}, err
		}
		return opCommand(Discard{Force: forced, Tile: t}), nil
	case '>':
		return parseCall(body[1:], forced)
	}

	if forced || !(unicode.IsDigit(rune(body[0])) || body[0] == '[' || body[0] == '(') {
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, line)
	}
	hand, err := mahjong.ParseHand(body)
	if err != nil {
		return Command{}, err
	}
	return Command{Kind: CmdAnalyze, Hand: hand}, nil
}

func opCommand(op Operation) Command {
	return Command{Kind: CmdApply, Op: op}
}

func parseSingle(s string) (mahjong.Tile, error) {
	var t mahjong.Tile
	err := t.UnmarshalText([]byte(s))
	return t, err
}

func parseWall(s string) (Command, error) {
	forced := strings.HasPrefix(s, "!")
	s = strings.TrimPrefix(s, "!")
	if s == "" {
		return Command{}, fmt.Errorf("%w: wall command without sign", ErrUnknownCommand)
	}
	tiles, err := mahjong.ParseTiles(s[1:])
	if err != nil {
		return Command{}, err
	}
	switch s[0] {
	case '+':
		return opCommand(WallAdd{Force: forced, Tiles: tiles}), nil
	case '-':
		return opCommand(WallRemove{Force: forced, Tiles: tiles}), nil
	default:
		return Command{}, fmt.Errorf("%w: wall command needs + or -, got %q", ErrUnknownCommand, s[0])
	}
}

// parseCall 接受 >555z、>[555z]、>5555z+3m 等写法
func parseCall(s string, forced bool) (Command, error) {
	meldPart, replPart, hasRepl := strings.Cut(s, "+")
	meldPart = strings.Trim(meldPart, "[]")
	tiles, err := mahjong.ParseTiles(meldPart)
	if err != nil {
		return Command{}, err
	}
	if len(tiles) == 0 {
		return Command{}, fmt.Errorf("%w: call without tiles", mahjong.ErrInvalidNotation)
	}
	call := Call{Force: forced, Tiles: tiles, Claimed: tiles[0]}
	if hasRepl {
		if call.Replacement, err = parseSingle(replPart); err != nil {
			return Command{}, err
		}
	}
	return opCommand(call), nil
}
