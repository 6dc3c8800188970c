package metrics

import (
	"net/http"
	"sync"

	"contrib.go.opencensus.io/exporter/prometheus"
	logging "github.com/ipfs/go-log/v2"
	promclient "github.com/prometheus/client_golang/prometheus"
)

var log = logging.Logger("metrics")

var (
	exporterOnce sync.Once
	exporter     http.Handler
)

// Exporter serves the registered views in the prometheus text format. The
// exporter registers with the default prometheus registry once per process;
// later calls return the same handler whatever namespace they ask for.
func Exporter(namespace string) http.Handler {
	exporterOnce.Do(func() {
		exporter = newExporter(namespace)
	})
	return exporter
}

func newExporter(namespace string) http.Handler {
	// Prometheus globals are exposed as interfaces, but the prometheus
	// OpenCensus exporter expects a concrete *Registry. The concrete type of
	// the globals are actually *Registry, so we downcast them.
	registry, ok := promclient.DefaultRegisterer.(*promclient.Registry)
	if !ok {
		log.Warnf("failed to export default prometheus registry; some metrics will be unavailable; unexpected type: %T", promclient.DefaultRegisterer)
	}
	exp, err := prometheus.NewExporter(prometheus.Options{
		Registry:  registry,
		Namespace: namespace,
	})
	if err != nil {
		log.Errorf("could not create the prometheus stats exporter: %v", err)
		return http.NotFoundHandler()
	}

	return exp
}
