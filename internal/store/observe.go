package store

import (
	"time"

	"github.com/raisama21/ims/prometheus"
)

// observe times a store operation and counts its outcome. Use as
// `defer observe("order", "create")(&err)` with a named error result.
func observe(entity, op string) func(err *error) {
	start := time.Now()
	return func(err *error) {
		prometheus.TrackDBOperation(entity + "_" + op)(start)
		prometheus.RecordEntityOperation(entity, op, *err)
	}
}
