package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Futarimiti/riichi-hairi/common/log"
	"github.com/Futarimiti/riichi-hairi/framework/game"
	"github.com/Futarimiti/riichi-hairi/framework/game/engines/mahjong"
)

// REPL 逐行读取命令并在同一个会话中执行
type REPL struct {
	session  *game.Session
	renderer Renderer
	in       io.Reader
	out      io.Writer
	prompt   bool
}

// NewREPL prompt 为 false 时不输出提示符，用于管道输入
func NewREPL(session *game.Session, renderer Renderer, in io.Reader, out io.Writer, prompt bool) *REPL {
	return &REPL{session: session, renderer: renderer, in: in, out: out, prompt: prompt}
}

func (r *REPL) promptText() string {
	if r.session.Mode() == game.ModeInteractive {
		return fmt.Sprintf("hairi[%dp]> ", r.session.Players())
	}
	return "hairi> "
}

// Run 读到 EOF、:q 或 ctx 结束时返回。单条命令失败只输出错误，不中断循环
func (r *REPL) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(r.in)
	for {
		if r.prompt {
			fmt.Fprint(r.out, r.promptText())
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == ":q" {
			return nil
		}
		if err := r.Execute(line); err != nil {
			return err
		}
	}
}

// Execute 执行一行并渲染，只有写出失败才返回错误
func (r *REPL) Execute(line string) error {
	cmd, err := game.ParseCommand(line)
	if err != nil {
		return r.renderer.Error(r.out, err)
	}
	out, err := r.session.Execute(cmd)
	if err != nil {
		log.Debug("command %q failed: %v", line, err)
		return r.renderer.Error(r.out, err)
	}
	return r.renderer.Outcome(r.out, out)
}

// AnalyzeAll 无状态分析每个参数，任一失败时返回第一个错误，但仍输出全部结果
func AnalyzeAll(session *game.Session, renderer Renderer, out io.Writer, hands []string) error {
	var first error
	for _, h := range hands {
		hand, err := mahjong.ParseHand(h)
		if err == nil {
			var res *game.Outcome
			if res, err = session.Execute(game.Command{Kind: game.CmdAnalyze, Hand: hand}); err == nil {
				if err := renderer.Outcome(out, res); err != nil {
					return err
				}
				continue
			}
		}
		if first == nil {
			first = fmt.Errorf("%s: %w", h, err)
		}
		if err := renderer.Error(out, fmt.Errorf("%s: %w", h, err)); err != nil {
			return err
		}
	}
	return first
}
