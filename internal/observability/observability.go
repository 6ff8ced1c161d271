package observability

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var commandCounter = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "adguard_commands_total",
		Help: "Commands dispatched by source, command, and success.",
	},
	[]string{"source", "command", "success"},
)

func init() { prometheus.MustRegister(commandCounter) }

// CommandProcessed records one dispatched command and its outcome.
func CommandProcessed(source, cmd string, success bool) {
	commandCounter.WithLabelValues(source, cmd, strconv.FormatBool(success)).Inc()
}

// Handler serves the prometheus scrape endpoint.
func Handler() http.Handler { return promhttp.Handler() }
