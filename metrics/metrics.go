package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the counters the engines report into.
type Metrics struct {
	BetsPlaced       prometheus.Counter
	BetsSettled      *prometheus.CounterVec
	SettlementErrors prometheus.Counter
	PayoutTotal      prometheus.Counter
	WalletOps        *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		BetsPlaced: factory.NewCounter(prometheus.CounterOpts{
			Name: "matka_bets_placed_total",
			Help: "Bets accepted by the wager engine.",
		}),
		BetsSettled: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "matka_bets_settled_total",
			Help: "Bets resolved by the settlement engine, by outcome.",
		}, []string{"outcome"}),
		SettlementErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "matka_settlement_errors_total",
			Help: "Bets that failed to settle and were skipped.",
		}),
		PayoutTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "matka_payout_amount_total",
			Help: "Sum of win credits paid out.",
		}),
		WalletOps: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "matka_wallet_operations_total",
			Help: "Deposits and withdrawals processed.",
		}, []string{"type"}),
	}
}
