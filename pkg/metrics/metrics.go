package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GiftsSent counts committed gift transfers
	GiftsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "giftroom_gifts_sent_total",
		Help: "Number of committed gift transfers",
	})

	// GrantPurchases counts paid grant purchases by kind
	GrantPurchases = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "giftroom_grant_purchases_total",
		Help: "Number of paid grant purchases",
	}, []string{"type"})

	// WalletConflicts counts optimistic-concurrency retries on wallets
	WalletConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "giftroom_wallet_version_conflicts_total",
		Help: "Number of compare-and-swap conflicts on wallet writes",
	})

	// SweepReconciled counts rows reconciled per sweep task
	SweepReconciled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "giftroom_sweep_reconciled_rows_total",
		Help: "Number of rows reconciled by background sweeps",
	}, []string{"task"})
)
