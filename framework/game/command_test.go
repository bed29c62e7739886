package game

import (
	"errors"
	"testing"

	"github.com/Futarimiti/riichi-hairi/framework/game/engines/mahjong"
)

func TestParseCommand_Kinds(t *testing.T) {
	cases := []struct {
		line   string
		kind   CommandKind
		op     OpKind
		forced bool
	}{
		{"=123m456p789s12z55z", CmdApply, OpInit, false},
		{"!= 123m456p789s12z55z", CmdApply, OpInit, true},
		{"+5z", CmdApply, OpDraw, false},
		{"!+5z", CmdApply, OpDraw, true},
		{"-1m", CmdApply, OpDiscard, false},
		{"*+5z", CmdApply, OpWallAdd, false},
		{"*!+5z", CmdApply, OpWallAdd, true},
		{"*-12m", CmdApply, OpWallRemove, false},
		{"*!-9s", CmdApply, OpWallRemove, true},
		{">555z", CmdApply, OpCall, false},
		{"!>[5555z]+3m", CmdApply, OpCall, true},
		{":3", CmdApply, OpConfigSwitch, false},
		{":i", CmdApply, OpModeSwitch, false},
	}
	for _, c := range cases {
		cmd, err := ParseCommand(c.line)
		if err != nil {
			t.Fatalf("%q: %v", c.line, err)
		}
		if cmd.Kind != c.kind || cmd.Op.Kind() != c.op || cmd.Op.Forced() != c.forced {
			t.Fatalf("%q: got kind %d op %s forced %v", c.line, cmd.Kind, cmd.Op.Kind(), cmd.Op.Forced())
		}
	}
}

func TestParseCommand_Queries(t *testing.T) {
	if cmd, _ := ParseCommand(" < "); cmd.Kind != CmdUndo || cmd.IgnoreBounds {
		t.Fatalf("< should be a plain undo, got %+v", cmd)
	}
	if cmd, _ := ParseCommand("<!"); cmd.Kind != CmdUndo || !cmd.IgnoreBounds {
		t.Fatalf("<! should ignore bounds, got %+v", cmd)
	}
	if cmd, _ := ParseCommand("?"); cmd.Kind != CmdHistory {
		t.Fatalf("? should be history, got %+v", cmd)
	}
	cmd, err := ParseCommand("123m456p789s11z[555z]")
	if err != nil || cmd.Kind != CmdAnalyze || len(cmd.Hand.Melds) != 1 {
		t.Fatalf("bare hand should be an analysis, got %+v %v", cmd, err)
	}
}

func TestParseCommand_Errors(t *testing.T) {
	for _, line := range []string{"", "   ", "hello", "!", "!123m", "*", "*=5z", ":5"} {
		if _, err := ParseCommand(line); !errors.Is(err, ErrUnknownCommand) {
			t.Fatalf("%q: expected ErrUnknownCommand, got %v", line, err)
		}
	}
	for _, line := range []string{"+55z", "+", ">", "-x", "=12"} {
		if _, err := ParseCommand(line); !errors.Is(err, mahjong.ErrInvalidNotation) {
			t.Fatalf("%q: expected ErrInvalidNotation, got %v", line, err)
		}
	}
}

func TestParseCommand_CallShape(t *testing.T) {
	cmd, err := ParseCommand(">5z5z5z5z+3m")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	call := cmd.Op.(Call)
	if len(call.Tiles) != 4 || call.Claimed != call.Tiles[0] || !call.HasReplacement() {
		t.Fatalf("call parsed wrong: %+v", call)
	}
	if call.Replacement.String() != "3m" {
		t.Fatalf("replacement expected 3m, got %s", call.Replacement)
	}

	cmd, _ = ParseCommand(">324m")
	if got := cmd.Op.(Call).Claimed.String(); got != "3m" {
		t.Fatalf("claimed tile should be the first one, got %s", got)
	}
}

// Notation 能被重新解析为同一个操作
func TestOperation_NotationRoundTrip(t *testing.T) {
	lines := []string{
		"=555z123m456p789s21z",
		"!=123m456p789s12z55z3m",
		"+5z", "!+1m", "-9p", "!-9p",
		"*+123s", "*!+5z", "*-1m1m", "*!-7z",
		">324m", "!>555z", ">1111m+5z",
		":3", ":4", ":i", ":n",
	}
	for _, line := range lines {
		cmd, err := ParseCommand(line)
		if err != nil {
			t.Fatalf("%q: %v", line, err)
		}
		n := cmd.Op.Notation()
		again, err := ParseCommand(n)
		if err != nil {
			t.Fatalf("%q -> %q: %v", line, n, err)
		}
		if again.Op.Notation() != n || again.Op.Kind() != cmd.Op.Kind() || again.Op.Forced() != cmd.Op.Forced() {
			t.Fatalf("%q -> %q -> %q", line, n, again.Op.Notation())
		}
	}

	cmd, _ := ParseCommand("=555z123m456p789s21z")
	if got := cmd.Op.Notation(); got != "=123m456p789s12555z" {
		t.Fatalf("init notation should be sorted, got %q", got)
	}
	cmd, _ = ParseCommand(">324m")
	if got := cmd.Op.Notation(); got != ">324m" {
		t.Fatalf("call notation should keep the claimed tile first, got %q", got)
	}
}
