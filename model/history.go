package model

// HistoryEntry is a single recorded conversion.
// Entries are never mutated once created.
type HistoryEntry struct {
	ID         string `json:"id"`
	From       string `json:"from"`
	To         string `json:"to"`
	AmountFrom string `json:"amountFrom"` // locale formatted
	AmountTo   string `json:"amountTo"`   // locale formatted
	RecordedAt string `json:"recordedAt"` // hour:minute
	RecordedOn string `json:"recordedOn,omitempty"`
}

// SameConversion reports whether e records the same
// source amount and pair as other
func (e HistoryEntry) SameConversion(other HistoryEntry) bool {
	return e.AmountFrom == other.AmountFrom && e.From == other.From && e.To == other.To
}
