package httpapi

import (
	"fmt"
	"net/http"
	"sort"

	"secureapp/server/internal/metrics"
)

// handleMetrics renders the engine counters in Prometheus text exposition
// format. Counters only; no histograms, no labels.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	snap := s.engine.MetricsSnapshot()

	ids := metrics.IDs()
	sort.Slice(ids, func(i, j int) bool { return ids[i].Name() < ids[j].Name() })

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	for _, id := range ids {
		fmt.Fprintf(w, "# HELP %s %s\n", id.Name(), id.Help())
		fmt.Fprintf(w, "# TYPE %s counter\n", id.Name())
		fmt.Fprintf(w, "%s %d\n", id.Name(), snap.Counters[id])
	}

	fmt.Fprintf(w, "# HELP auth_audit_dropped_total Audit events discarded due to backpressure.\n")
	fmt.Fprintf(w, "# TYPE auth_audit_dropped_total counter\n")
	fmt.Fprintf(w, "auth_audit_dropped_total %d\n", s.engine.AuditDropped())
}
