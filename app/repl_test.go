package app

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/Futarimiti/riichi-hairi/framework/game"
	"github.com/Futarimiti/riichi-hairi/framework/game/engines/mahjong"
)

func newSession() *game.Session {
	return game.NewSession(mahjong.Rules{Players: mahjong.FourPlayer}, nil)
}

func TestREPL_InteractiveScript(t *testing.T) {
	script := strings.Join([]string{
		"# comment",
		":i",
		"=123m456p789s12z55z",
		"",
		"+5z",
		"<",
		"?",
		":q",
		"+1m",
	}, "\n")
	var out bytes.Buffer
	s := newSession()
	if err := NewREPL(s, NewRenderer(false), strings.NewReader(script), &out, true).Run(context.Background()); err != nil {
		t.Fatalf("repl failed: %v", err)
	}

	text := out.String()
	for _, want := range []string{
		"hairi> ",
		"hairi[4p]> ",
		"phase lack-one",
		"phase full",
		"=123m456p789s12555z",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "error:") {
		t.Fatalf("unexpected error in output:\n%s", text)
	}
	if got := s.Snapshot().History; got != 1 {
		t.Fatalf("lines after :q should not run, history %d", got)
	}
}

func TestREPL_ErrorsDoNotStop(t *testing.T) {
	var out bytes.Buffer
	s := newSession()
	script := "+1m\n123456789m11p234s\n"
	if err := NewREPL(s, NewRenderer(false), strings.NewReader(script), &out, false).Run(context.Background()); err != nil {
		t.Fatalf("repl failed: %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "error:") || !strings.Contains(text, "interactive mode") {
		t.Fatalf("expected mode violation error:\n%s", text)
	}
	if !strings.Contains(text, "complete") {
		t.Fatalf("expected analysis after the error:\n%s", text)
	}
	if strings.Contains(text, "hairi>") {
		t.Fatalf("prompt printed with prompt disabled")
	}
}

func TestAnalyzeAll(t *testing.T) {
	var out bytes.Buffer
	err := AnalyzeAll(newSession(), NewRenderer(false), &out, []string{"123456789m11p22s", "12x", "123456789m11p234s"})
	if err == nil || !strings.HasPrefix(err.Error(), "12x:") {
		t.Fatalf("expected error for 12x, got %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "tenpai  1p2s (4)") {
		t.Fatalf("waiting result missing:\n%s", text)
	}
	if !strings.Contains(text, "complete") {
		t.Fatalf("later hands should still be analyzed:\n%s", text)
	}
}

func TestJSONRenderer(t *testing.T) {
	var out bytes.Buffer
	if err := AnalyzeAll(newSession(), NewRenderer(true), &out, []string{"123456789m11p234s", "12x"}); err == nil {
		t.Fatalf("expected error for 12x")
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected one line per hand, got %d", len(lines))
	}

	var first struct {
		Result struct {
			Shanten int `json:"shanten"`
		} `json:"result"`
	}
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("decode first line: %v", err)
	}
	if first.Result.Shanten != -1 {
		t.Fatalf("expected complete hand, got %d", first.Result.Shanten)
	}

	var second map[string]string
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("decode second line: %v", err)
	}
	if !strings.Contains(second["error"], "12x") {
		t.Fatalf("expected error line, got %v", second)
	}
}

func TestShantenText(t *testing.T) {
	cases := map[int]string{-1: "complete", 0: "tenpai", 2: "2-shanten", mahjong.Unreachable: "-"}
	for n, want := range cases {
		if got := shantenText(n); got != want {
			t.Fatalf("shantenText(%d) = %q, want %q", n, got, want)
		}
	}
}
