/*
Package monitoring provides Prometheus metrics for scans and remediations.

Collectors live on a private registry owned by Metrics:

  - a11y_scans_total{outcome}
  - a11y_remediations_total
  - a11y_rule_duration_seconds{rule,phase}
  - a11y_issues_total{rule,severity}
  - a11y_rule_failures_total{rule,phase}
  - a11y_fixes_total{rule}
  - a11y_document_bytes

# Usage

	metrics := monitoring.NewMetrics()

	timer := monitoring.NewTimer(metrics, "missing-alt-text", monitoring.PhaseDetect)
	issues := detector.Detect(doc, env)
	timer.Stop()

	// batch jobs export for the node-exporter textfile collector
	_ = metrics.WriteTextfile("/var/lib/node_exporter/a11y.prom")
*/
package monitoring
