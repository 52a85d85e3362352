package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "parcel_ledger"

// ResultOK: значение метки result для успешной операции.
const ResultOK = "ok"

// Ledger собирает метрики операций с балансом и выплатами курьеров.
// Все методы допускают nil-получатель.
type Ledger struct {
	registry     *prometheus.Registry
	submissions  *prometheus.CounterVec
	resolutions  *prometheus.CounterVec
	resolved     *prometheus.CounterVec
	computations prometheus.Counter
}

// NewLedger создаёт отдельный реестр и регистрирует в нём метрики процесса и ledger.
func NewLedger() *Ledger {
	registry := prometheus.NewRegistry()
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cashout_submissions_total",
		Help:      "Cashout submissions grouped by outcome.",
	}, []string{"result"})
	resolutions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cashout_resolutions_total",
		Help:      "Administrator cashout resolution attempts grouped by outcome.",
	}, []string{"result"})
	resolved := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cashouts_resolved_total",
		Help:      "Cashouts moved to a terminal status, grouped by that status.",
	}, []string{"status"})
	computations := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rider_balance_computations_total",
		Help:      "Rider balance snapshots recomputed from source records.",
	})

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		submissions,
		resolutions,
		resolved,
		computations,
	)

	return &Ledger{
		registry:     registry,
		submissions:  submissions,
		resolutions:  resolutions,
		resolved:     resolved,
		computations: computations,
	}
}

// Registry возвращает реестр для promhttp.HandlerFor.
func (m *Ledger) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Ledger) ObserveSubmission(result string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(result).Inc()
}

// ObserveResolution учитывает попытку обработки заявки, только по результату.
func (m *Ledger) ObserveResolution(result string) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(result).Inc()
}

// ObserveResolved учитывает заявку, переведённую в completed или rejected.
func (m *Ledger) ObserveResolved(status string) {
	if m == nil {
		return
	}
	m.resolved.WithLabelValues(status).Inc()
}

func (m *Ledger) ObserveBalanceComputation() {
	if m == nil {
		return
	}
	m.computations.Inc()
}
