package journal

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"daxsim/session"
)

// WriteTradesCSV exports trades in a spreadsheet-friendly layout.
func WriteTradesCSV(w io.Writer, trades []*session.Trade) error {
	cw := csv.NewWriter(w)

	header := []string{"id", "session_id", "date", "window", "direction",
		"entry_price", "entry_time", "stop_loss", "take_profit",
		"outcome", "exit_price", "exit_time", "pnl_points", "a_grade", "notes"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, t := range trades {
		exitTime := ""
		if t.Finalized() {
			exitTime = t.ExitTime.UTC().Format(time.RFC3339)
		}
		row := []string{
			t.ID,
			t.SessionID,
			t.Date.UTC().Format("2006-01-02"),
			t.Window,
			t.Direction.String(),
			f(t.EntryPrice),
			t.EntryTime.UTC().Format(time.RFC3339),
			f(t.StopLoss),
			f(t.TakeProfit),
			t.Outcome.String(),
			f(t.ExitPrice),
			exitTime,
			f(t.PnLPoints),
			strconv.FormatBool(t.AGrade),
			t.Notes,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}
