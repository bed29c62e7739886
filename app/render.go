package app

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Futarimiti/riichi-hairi/framework/game"
	"github.com/Futarimiti/riichi-hairi/framework/game/engines/mahjong"
)

// Renderer 把命令结果写到终端
type Renderer interface {
	Outcome(w io.Writer, out *game.Outcome) error
	Error(w io.Writer, err error) error
}

// NewRenderer asJSON 为 true 时每个结果输出一行 JSON
func NewRenderer(asJSON bool) Renderer {
	if asJSON {
		return jsonRenderer{}
	}
	return textRenderer{}
}

type jsonRenderer struct{}

func (jsonRenderer) Outcome(w io.Writer, out *game.Outcome) error {
	return json.NewEncoder(w).Encode(out)
}

func (jsonRenderer) Error(w io.Writer, err error) error {
	return json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

type textRenderer struct{}

func (textRenderer) Error(w io.Writer, err error) error {
	_, e := fmt.Fprintf(w, "error: %v\n", err)
	return e
}

func (textRenderer) Outcome(w io.Writer, out *game.Outcome) error {
	var b strings.Builder
	switch {
	case out.Snapshot != nil:
		writeSnapshot(&b, out.Snapshot)
	case out.Records != nil:
		writeRecords(&b, out.Records)
	case out.Result != nil:
		writeResult(&b, out.Result)
	case out.Waiting != nil:
		writeWaiting(&b, out.Waiting)
	default:
		b.WriteString("(empty history)\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func shantenText(n int) string {
	switch {
	case n < 0:
		return "complete"
	case n == 0:
		return "tenpai"
	case n >= mahjong.Unreachable:
		return "-"
	default:
		return fmt.Sprintf("%d-shanten", n)
	}
}

func writeBreakdown(b *strings.Builder, bd mahjong.Breakdown) {
	fmt.Fprintf(b, "  standard %s, seven pairs %s, thirteen orphans %s\n",
		shantenText(bd.Standard), shantenText(bd.SevenPairs), shantenText(bd.ThirteenOrphans))
}

func writeResult(b *strings.Builder, res *mahjong.Result) {
	fmt.Fprintf(b, "%s\n", shantenText(res.Shanten))
	writeBreakdown(b, res.Breakdown)
	if res.Shanten < 0 {
		return
	}
	best := res.BestDiscards()
	for _, d := range best {
		fmt.Fprintf(b, "  -%s  %s  %s (%d)\n",
			d.Discard, shantenText(d.Shanten), mahjong.FormatTypes(d.Accepts), d.Ukeire)
	}
	if len(best) < len(res.Discards) {
		fmt.Fprintf(b, "  (%d worse discards omitted)\n", len(res.Discards)-len(best))
	}
}

func writeWaiting(b *strings.Builder, w *mahjong.WaitingResult) {
	fmt.Fprintf(b, "%s  %s (%d)\n", shantenText(w.Shanten), mahjong.FormatTypes(w.Accepts), w.Ukeire)
	writeBreakdown(b, w.Breakdown)
}

func writeRecords(b *strings.Builder, records []game.Record) {
	if len(records) == 0 {
		b.WriteString("(empty history)\n")
		return
	}
	for i, r := range records {
		fmt.Fprintf(b, "%3d  %-16s %-8s %s", i+1, r.Notation, r.Kind, r.Phase)
		if r.Meld != "" {
			fmt.Fprintf(b, "  %s", r.Meld)
		}
		b.WriteByte('\n')
	}
}

func writeSnapshot(b *strings.Builder, s *game.Snapshot) {
	fmt.Fprintf(b, "[%s %dp] phase %s, wall %d, history %d\n", s.Mode, s.Players, s.Phase, s.Remaining, s.History)
	if s.Mode != game.ModeInteractive {
		return
	}
	hand := s.Hand
	if hand == "" {
		hand = "(empty)"
	}
	fmt.Fprintf(b, "  hand: %s\n", hand)
	if len(s.Discarded) > 0 {
		fmt.Fprintf(b, "  discarded: %s\n", mahjong.FormatTypes(s.Discarded))
	}
	if s.Result != nil {
		writeResult(b, s.Result)
	}
}
