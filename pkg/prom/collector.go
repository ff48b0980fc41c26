package prom

import (
	"context"
	"time"

	"github.com/nimasrn/inbox-ledger/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
)

const collectTimeout = 5 * time.Second

// Snapshot is one reading of the ledger totals.
type Snapshot struct {
	Contacts        int64
	Messages        int64
	Expenses        int64
	PendingExpenses int64
	MessagesByKind  map[string]int64
}

type SnapshotFunc func(ctx context.Context) (Snapshot, error)

// LedgerCollector exports ledger totals as gauges, read on every scrape.
type LedgerCollector struct {
	snapshot SnapshotFunc

	contacts *prometheus.Desc
	messages *prometheus.Desc
	expenses *prometheus.Desc
	pending  *prometheus.Desc
	byKind   *prometheus.Desc
}

func NewLedgerCollector(snapshot SnapshotFunc) *LedgerCollector {
	desc := func(subsystem, name, help string, labels ...string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystem, name), help, labels, defaultLabels)
	}
	return &LedgerCollector{
		snapshot: snapshot,
		contacts: desc(SystemContacts, "total", "Registered contacts."),
		messages: desc(SystemMessages, "total", "Recorded messages."),
		expenses: desc(SystemExpenses, "total", "Expense records."),
		pending:  desc(SystemExpenses, "pending", "Expenses awaiting review."),
		byKind:   desc(SystemMessages, "by_kind", "Recorded messages per kind.", "kind"),
	}
}

func (c *LedgerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.contacts
	ch <- c.messages
	ch <- c.expenses
	ch <- c.pending
	ch <- c.byKind
}

func (c *LedgerCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), collectTimeout)
	defer cancel()

	s, err := c.snapshot(ctx)
	if err != nil {
		logger.Warn("[metrics-server] ledger snapshot failed", "error", err)
		return
	}
	ch <- prometheus.MustNewConstMetric(c.contacts, prometheus.GaugeValue, float64(s.Contacts))
	ch <- prometheus.MustNewConstMetric(c.messages, prometheus.GaugeValue, float64(s.Messages))
	ch <- prometheus.MustNewConstMetric(c.expenses, prometheus.GaugeValue, float64(s.Expenses))
	ch <- prometheus.MustNewConstMetric(c.pending, prometheus.GaugeValue, float64(s.PendingExpenses))
	for kind, n := range s.MessagesByKind {
		ch <- prometheus.MustNewConstMetric(c.byKind, prometheus.GaugeValue, float64(n), kind)
	}
}

// RegisterCollector adds c to the registry served by Handler.
func RegisterCollector(c prometheus.Collector) error {
	return registerer.Register(c)
}
