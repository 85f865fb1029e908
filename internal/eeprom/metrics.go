package eeprom

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	putsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eeprom_puts_total",
		Help: "Total number of Put calls, by result (written, unchanged, failed).",
	}, []string{"result"})
	getsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eeprom_gets_total",
		Help: "Total number of Get calls, by result (hit, miss, corrupt).",
	}, []string{"result"})
	compactionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eeprom_compactions_total",
		Help: "Total number of completed page transfers.",
	})
	pageErasesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eeprom_page_erases_total",
		Help: "Total number of page erase operations issued.",
	})
	writeRetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eeprom_write_retries_total",
		Help: "Total number of record appends repeated after a failed read-back.",
	})
	freeSlotsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "eeprom_free_slots",
		Help: "Number of unwritten slots left on the active page.",
	})
)
