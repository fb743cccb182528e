package brokerage

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
)

func init() {
	// The ledger file stores plain JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// defaultInitialCash is the balance of a fresh ledger.
var defaultInitialCash = decimal.NewFromInt(10000)

// ledgerPosition is the ledger-internal entry for one held symbol. Its
// quantity is strictly positive while the entry exists; the entry is deleted,
// not zeroed, when the quantity reaches zero.
type ledgerPosition struct {
	Symbol        string          `json:"symbol"`
	Qty           decimal.Decimal `json:"qty"`
	AvgEntryPrice decimal.Decimal `json:"avg_entry_price"`
	Side          string          `json:"side"`
	OpenedAt      string          `json:"opened_at"`
}

// ledgerState is the durable unit: one JSON document holding the entire
// local brokerage state.
type ledgerState struct {
	Positions   map[string]ledgerPosition `json:"positions"`
	Orders      []Fill                    `json:"orders"`
	Cash        decimal.Decimal           `json:"cash"`
	InitialCash decimal.Decimal           `json:"initial_cash"`
}

func newLedgerState() ledgerState {
	return ledgerState{
		Positions:   make(map[string]ledgerPosition),
		Cash:        defaultInitialCash,
		InitialCash: defaultInitialCash,
	}
}

// The ledger accounts in a single currency.
func (ledgerState) currency() string { return "USD" }

func (s ledgerState) cash() Money { return M(s.Cash, s.currency()) }

// loadLedgerState reads a snapshot from disk. A missing file yields a fresh
// default state. So does a corrupt one: decode failures substitute the
// default instead of propagating, a best-effort recovery policy. Fields
// absent from an otherwise valid snapshot take their per-field defaults; an
// explicit zero is kept as zero.
func loadLedgerState(path string) ledgerState {
	data, err := os.ReadFile(path)
	if err != nil {
		return newLedgerState()
	}
	// Pointers distinguish an absent cash field from an explicit zero.
	var raw struct {
		Positions   map[string]ledgerPosition `json:"positions"`
		Orders      []Fill                    `json:"orders"`
		Cash        *decimal.Decimal          `json:"cash"`
		InitialCash *decimal.Decimal          `json:"initial_cash"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Printf("ledger: discarding corrupt snapshot %q: %v", path, err)
		return newLedgerState()
	}
	state := ledgerState{
		Positions:   raw.Positions,
		Orders:      raw.Orders,
		Cash:        defaultInitialCash,
		InitialCash: defaultInitialCash,
	}
	if raw.Cash != nil {
		state.Cash = *raw.Cash
	}
	if raw.InitialCash != nil {
		state.InitialCash = *raw.InitialCash
	}
	if state.Positions == nil {
		state.Positions = make(map[string]ledgerPosition)
	}
	return state
}

// saveLedgerState writes the full snapshot to disk, creating parent
// directories on first write.
func saveLedgerState(path string, state ledgerState) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
