package main

import (
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/osse101/SlotForge_Go/internal/domain"
	"github.com/osse101/SlotForge_Go/internal/simulation"
)

var printer = message.NewPrinter(language.English)

func printReport(w io.Writer, r *simulation.Report, target float64, seed uint64) {
	printer.Fprintf(w, "%s\n", r.GameID)
	printer.Fprintf(w, "  spins           %d (+%d free)\n", r.Spins, r.FreeSpinsPlayed)
	printer.Fprintf(w, "  seed            %d\n", seed)
	printer.Fprintf(w, "  total bet       %s\n", r.TotalBet.StringFixed(2))
	printer.Fprintf(w, "  total win       %s (base %s, bonus %s)\n",
		r.TotalWin.StringFixed(2), r.BaseWin.StringFixed(2), r.BonusWin.StringFixed(2))
	printer.Fprintf(w, "  rtp             %.4f%% (target %.2f%%, delta %+.4f)\n", r.RTP, target, r.RTP-target)
	printer.Fprintf(w, "  hit frequency   %.4f%%\n", r.HitFrequency*100)
	printer.Fprintf(w, "  bonus triggers  %d\n", r.FreeSpinTriggers)
	printer.Fprintf(w, "  max win         %s\n", r.MaxWin.String())
	printer.Fprintf(w, "  std deviation   %.4f\n", r.StdDev)
	printer.Fprintf(w, "  elapsed         %v\n", r.Duration.Round(1e6))
}

func printExactReport(w io.Writer, r *simulation.ExactReport, target float64) {
	printer.Fprintf(w, "%s\n", r.GameID)
	printer.Fprintf(w, "  combinations    %d\n", r.Combinations)
	printer.Fprintf(w, "  base rtp        %.6f%% (target %.2f%%)\n", r.RTP, target)
	printer.Fprintf(w, "  hit frequency   %.6f%%\n", r.HitFrequency*100)
	printer.Fprintf(w, "  bonus trigger   %.6f%%\n", r.TriggerProbability*100)
}

func printSpin(w io.Writer, n int, r *domain.SpinResult) {
	printer.Fprintf(w, "#%d %s bet %s win %s\n", n, r.Mode, r.Bet, r.TotalWin)
	for row := 0; row < r.Grid.Rows(); row++ {
		cells := make([]string, len(r.Grid))
		for reel := range r.Grid {
			cells[reel] = r.Grid[reel][row]
		}
		printer.Fprintf(w, "  %s\n", strings.Join(cells, " "))
	}
	if r.TriggeredFreeSpins > 0 {
		printer.Fprintf(w, "  +%d free spins\n", r.TriggeredFreeSpins)
	}
}
