package widget

import (
	"time"

	"github.com/kylycht/flux/converter"
	"github.com/kylycht/flux/storage/history"
	"github.com/rs/zerolog/log"
)

// observed is what the recorder watches, a change
// of any field restarts the quiet period
type observed struct {
	amountText string
	from       string
	to         string
	toAmount   string
	fromAmount string
}

type recorder struct {
	quiet time.Duration
	timer Timer
	last  observed
	seen  bool   // last holds a value
	gen   uint64 // generation of the pending timer
}

// observeLocked restarts the quiet period when the observed
// tuple differs from the previous observation
func (w *Widget) observeLocked() {
	if w.closed {
		return
	}

	current := w.observedLocked()
	if w.rec.seen && current == w.rec.last {
		return
	}
	w.rec.last = current
	w.rec.seen = true

	if w.rec.timer != nil {
		w.rec.timer.Stop()
	}
	w.rec.gen++
	gen := w.rec.gen
	w.rec.timer = w.scheduler.AfterFunc(w.rec.quiet, func() {
		w.record(gen)
	})
}

func (w *Widget) observedLocked() observed {
	rate, known := w.rates.Rate(w.pair.To)
	amounts := converter.Convert(w.amountText, w.anchor, rate, known)

	return observed{
		amountText: w.amountText,
		from:       w.pair.From,
		to:         w.pair.To,
		toAmount:   amounts.To,
		fromAmount: amounts.From,
	}
}

// record commits the current conversion once the quiet period elapsed
func (w *Widget) record(gen uint64) {
	w.lock.Lock()
	defer w.lock.Unlock()

	if w.closed || gen != w.rec.gen {
		return
	}
	w.rec.timer = nil

	if !w.readyLocked() {
		log.Debug().Msg("skipping history, initial load not completed")
		return
	}

	// state may have moved since the last observation
	current := w.observedLocked()
	if blank(current.amountText) || blank(current.fromAmount) || blank(current.toAmount) {
		return
	}

	amountFrom := converter.FormatGrouped(current.fromAmount)
	amountTo := converter.FormatGrouped(current.toAmount)
	if amountFrom == "" || amountTo == "" {
		return
	}

	entry := history.NewEntry(current.from, current.to, amountFrom, amountTo, w.now())
	w.ledger.Commit(w.ctx, entry)
}

// readyLocked reports whether the initial load completed successfully
func (w *Widget) readyLocked() bool {
	if w.initializing || !w.namesLoaded || w.startErr != nil {
		return false
	}

	snapshot := w.rates.Snapshot()
	return snapshot.Loaded && snapshot.Err == nil
}

func blank(amount string) bool {
	return amount == "" || amount == "0"
}
