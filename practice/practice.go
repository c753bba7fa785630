// Package practice wires the pieces together: it owns a bar provider,
// a journal store and the strategy rules, and drives a session through
// its playlist one scenario at a time.
package practice

import (
	"context"
	"fmt"
	"time"

	"daxsim/calendar"
	"daxsim/internal/id"
	"daxsim/internal/logging"
	"daxsim/journal"
	"daxsim/market"
	"daxsim/outcome"
	"daxsim/provider"
	"daxsim/rules"
	"daxsim/session"
)

// Simulator is constructed with its collaborators injected; it holds no
// global state and can be created per caller.
type Simulator struct {
	symbol string
	rules  rules.Rules
	cal    calendar.Calendar
	bars   provider.Provider
	store  journal.Store
	log    logging.Logger
	now    func() time.Time
}

// Options configures a Simulator. Provider and Store are required.
type Options struct {
	Symbol   string
	Rules    rules.Rules
	Provider provider.Provider
	Store    journal.Store
	Logger   logging.Logger
	Now      func() time.Time // defaults to time.Now, injectable in tests
}

func New(opts Options) (*Simulator, error) {
	if opts.Provider == nil {
		return nil, fmt.Errorf("practice: provider is required")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("practice: store is required")
	}
	if opts.Symbol == "" {
		opts.Symbol = provider.DAXSymbol
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if err := opts.Rules.Validate(); err != nil {
		return nil, err
	}
	return &Simulator{
		symbol: opts.Symbol,
		rules:  opts.Rules,
		cal:    calendar.New(opts.Rules),
		bars:   opts.Provider,
		store:  opts.Store,
		log:    opts.Logger,
		now:    opts.Now,
	}, nil
}

// AvailableDates lists the valid scenario dates in [start, end] for a
// window. An empty result is not an error; callers surface "no valid
// dates".
func (sim *Simulator) AvailableDates(start, end time.Time, windowKey string) ([]time.Time, error) {
	w, ok := calendar.Lookup(windowKey)
	if !ok {
		return nil, fmt.Errorf("%w: time window %q", outcome.ErrInvalidInput, windowKey)
	}
	return sim.cal.DatesInRange(start, end, w), nil
}

// StartSession creates and persists a session over the given dates.
// Dates falling outside the weekday whitelist are dropped (order
// preserved); an empty remainder or an oversized playlist is rejected.
func (sim *Simulator) StartSession(ctx context.Context, dates []time.Time, windowKey string) (*session.Session, error) {
	w, ok := calendar.Lookup(windowKey)
	if !ok {
		return nil, fmt.Errorf("%w: time window %q", outcome.ErrInvalidInput, windowKey)
	}

	playlist := sim.cal.FilterDates(dates, w)
	if len(playlist) == 0 {
		return nil, fmt.Errorf("%w: no valid dates in playlist", outcome.ErrInvalidInput)
	}
	if len(playlist) > sim.rules.MaxPlaylist {
		return nil, fmt.Errorf("%w: playlist of %d dates exceeds maximum %d",
			outcome.ErrInvalidInput, len(playlist), sim.rules.MaxPlaylist)
	}

	s, err := session.New(id.New(), windowKey, playlist, sim.rules.WinRate, sim.now().UTC())
	if err != nil {
		return nil, err
	}
	if err := sim.store.SaveSession(ctx, s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	sim.log.Infof("session %s started: %d dates, window %s", s.ID, len(playlist), windowKey)
	return s, nil
}

// Session loads a stored session by id.
func (sim *Simulator) Session(ctx context.Context, sessionID string) (*session.Session, error) {
	return sim.store.Session(ctx, sessionID)
}

// Scenario is the in-memory material for one practice date: the window
// bars at the base timeframe plus whole-day context series.
type Scenario struct {
	Date   time.Time
	Window calendar.Window
	// Bars holds the M3 series clipped to the practice window and the
	// H1/H4 series for the whole day.
	Bars map[market.Timeframe][]market.Candle
}

// Scenario assembles the bar series for the session's current date.
func (sim *Simulator) Scenario(ctx context.Context, s *session.Session) (*Scenario, error) {
	date, ok := s.CurrentDate()
	if !ok {
		return nil, fmt.Errorf("%w: session %s", session.ErrSessionCompleted, s.ID)
	}
	w, ok := calendar.Lookup(s.Window)
	if !ok {
		return nil, fmt.Errorf("%w: time window %q", outcome.ErrInvalidInput, s.Window)
	}

	sc := &Scenario{Date: date, Window: w, Bars: make(map[market.Timeframe][]market.Candle)}
	for _, tf := range market.Timeframes {
		bars, err := sim.bars.Bars(ctx, sim.symbol, date, tf)
		if err != nil {
			return nil, fmt.Errorf("scenario %s %s: %w", date.Format("2006-01-02"), tf, err)
		}
		if tf == market.M3 {
			bars = clipToWindow(bars, w, date)
			if len(bars) == 0 {
				return nil, fmt.Errorf("scenario %s: no bars in window %s: %w",
					date.Format("2006-01-02"), w.Key, provider.ErrDataUnavailable)
			}
		}
		sc.Bars[tf] = bars
	}
	return sc, nil
}

func clipToWindow(bars []market.Candle, w calendar.Window, date time.Time) []market.Candle {
	start, end := w.Bounds(date)
	var out []market.Candle
	for _, c := range bars {
		if !c.Time.Before(start) && c.Time.Before(end) {
			out = append(out, c)
		}
	}
	return out
}

// EnterTrade opens a pending trade at the given price and instant on
// the session's current scenario. The entry must fall inside the
// practice window.
func (sim *Simulator) EnterTrade(ctx context.Context, s *session.Session, d outcome.Direction, entryPrice float64, entryTime time.Time, notes string, aGrade bool) (*session.Trade, error) {
	date, ok := s.CurrentDate()
	if !ok {
		return nil, fmt.Errorf("%w: session %s", session.ErrSessionCompleted, s.ID)
	}
	w, ok := calendar.Lookup(s.Window)
	if !ok {
		return nil, fmt.Errorf("%w: time window %q", outcome.ErrInvalidInput, s.Window)
	}

	start, end := w.Bounds(date)
	if entryTime.Before(start) || !entryTime.Before(end) {
		return nil, fmt.Errorf("%w: entry %s outside window %s on %s",
			outcome.ErrInvalidInput, entryTime.Format(time.RFC3339), w.Key, date.Format("2006-01-02"))
	}

	t, err := session.NewTrade(id.New(), s.ID, date, s.Window, d, entryPrice, entryTime.UTC(), sim.rules)
	if err != nil {
		return nil, err
	}
	t.Notes = notes
	t.AGrade = aGrade

	if err := sim.store.SaveTrade(ctx, t); err != nil {
		return nil, fmt.Errorf("save trade: %w", err)
	}
	sim.log.Infof("trade %s entered: %s @ %.2f (SL %.2f / TP %.2f)",
		t.ID, d, entryPrice, t.StopLoss, t.TakeProfit)
	return t, nil
}

// ResolveTrade walks the window bars after entry and finalizes the
// trade with the evaluator's verdict, then updates the session
// counters and persists both. If the entry sits on the last bar of the
// window there is nothing to evaluate against yet and the trade stays
// pending. Resolving against a completed session is rejected up front
// and the trade is left pending, in memory and in the store; a session
// should only be advanced once its trades are settled.
func (sim *Simulator) ResolveTrade(ctx context.Context, s *session.Session, t *session.Trade) (outcome.Result, error) {
	if t.Finalized() {
		return outcome.Result{}, fmt.Errorf("%w: trade %s", session.ErrTradeFinalized, t.ID)
	}
	if s.Completed {
		return outcome.Result{}, fmt.Errorf("%w: session %s", session.ErrSessionCompleted, s.ID)
	}
	w, ok := calendar.Lookup(t.Window)
	if !ok {
		return outcome.Result{}, fmt.Errorf("%w: time window %q", outcome.ErrInvalidInput, t.Window)
	}

	bars, err := sim.bars.Bars(ctx, sim.symbol, t.Date, market.M3)
	if err != nil {
		return outcome.Result{}, fmt.Errorf("resolve trade %s: %w", t.ID, err)
	}
	after := market.After(clipToWindow(bars, w, t.Date), t.EntryTime)
	if len(after) == 0 {
		sim.log.Debugf("trade %s has no bars after entry yet", t.ID)
		return outcome.Result{Outcome: outcome.Pending}, nil
	}

	res, err := outcome.Evaluate(t.Direction, t.EntryPrice, t.Levels(), after)
	if err != nil {
		return outcome.Result{}, err
	}

	if err := t.Finalize(res); err != nil {
		return outcome.Result{}, err
	}
	if err := s.RecordTrade(t); err != nil {
		return outcome.Result{}, err
	}
	if err := sim.store.SaveTrade(ctx, t); err != nil {
		return outcome.Result{}, fmt.Errorf("save trade: %w", err)
	}
	if err := sim.store.SaveSession(ctx, s); err != nil {
		return outcome.Result{}, fmt.Errorf("save session: %w", err)
	}

	sim.log.Infof("trade %s resolved: %s, pnl %+.2f points", t.ID, res.Outcome, res.PnLPoints)
	return res, nil
}

// Advance moves the session to the next scenario date and persists the
// position. Returns whether the session is now completed.
func (sim *Simulator) Advance(ctx context.Context, s *session.Session) (bool, error) {
	completed := s.Advance()
	if err := sim.store.SaveSession(ctx, s); err != nil {
		return completed, fmt.Errorf("save session: %w", err)
	}
	if completed {
		sim.log.Infof("session %s completed: %d trades, %.1f%% win rate, %+.2f points",
			s.ID, s.TotalTrades, s.WinRate(), s.TotalPnL)
	}
	return completed, nil
}
