package report

import (
	"fmt"
	"strings"

	"battlesim/internal/battle"
)

// RenderOptions tweak the text report layout.
type RenderOptions struct {
	BossActor string
	// RowIndexStart, when non-nil, prefixes each actor row with an
	// incrementing index starting at this value.
	RowIndexStart *int
}

func fmtShield(s *ShieldSnapshot) string {
	if s == nil {
		return "--"
	}
	return fmt.Sprintf("%d %s", s.Value, s.Status)
}

// RenderText prints boss turn frames with PRE/POST shield snapshots and the
// skill token consumed on each row, aligned into fixed columns so the post
// column does not jump between rows.
func RenderText(events []battle.Event, opts RenderOptions) string {
	rows := DeriveTurnRows(events)
	frames := GroupRowsIntoBossFrames(rows, opts.BossActor)

	var out []string
	if len(frames) == 0 {
		return "(No complete boss frames were produced. Try increasing -ticks.)\n"
	}

	var rowIdx *int
	if opts.RowIndexStart != nil {
		n := *opts.RowIndexStart
		rowIdx = &n
	}

	for _, frame := range frames {
		out = append(out, fmt.Sprintf("Boss Turn #%d", frame.BossTurnIndex))

		maxActor := 0
		maxToken := 0
		tokens := make([]string, len(frame.Rows))
		for i, row := range frame.Rows {
			if len(row.Actor) > maxActor {
				maxActor = len(row.Actor)
			}
			if t := row.SkillToken(); t != "" {
				tokens[i] = "{" + t + "}"
				if len(tokens[i]) > maxToken {
					maxToken = len(tokens[i])
				}
			}
		}

		for i, row := range frame.Rows {
			pre := fmtShield(row.PreShield)
			post := fmtShield(row.PostShield)
			actor := pad(row.Actor, maxActor)

			cells := []string{"[" + pre + "]", actor}
			if maxToken > 0 {
				cells = append(cells, pad(tokens[i], maxToken))
			}
			cells = append(cells, "["+post+"]")

			line := "  " + strings.Join(cells, " ")
			if rowIdx != nil {
				line = fmt.Sprintf("  %d: %s", *rowIdx, strings.Join(cells, " "))
				*rowIdx++
			}
			out = append(out, strings.TrimRight(line, " "))
		}
		out = append(out, "")
	}

	return strings.TrimRight(strings.Join(out, "\n"), "\n") + "\n"
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
