package state

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/noah-isme/campus-console/internal/models"
)

// NoData is displayed for aggregates that have nothing to aggregate.
const NoData = "N/A"

// Stat is a derived number that may be undefined, e.g. an average over zero elements.
type Stat struct {
	Value     float64
	Valid     bool
	Precision int
}

// Display formats the stat, returning NoData when it is undefined.
func (s Stat) Display() string {
	if !s.Valid {
		return NoData
	}
	return strconv.FormatFloat(s.Value, 'f', s.Precision, 64)
}

// MarshalJSON renders {"value": <number|null>, "display": "..."}.
func (s Stat) MarshalJSON() ([]byte, error) {
	var value interface{}
	if s.Valid {
		value = s.Value
	}
	return json.Marshal(struct {
		Value   interface{} `json:"value"`
		Display string      `json:"display"`
	}{Value: value, Display: s.Display()})
}

// WithPrecision returns a copy using the given number of decimals.
func (s Stat) WithPrecision(p int) Stat {
	s.Precision = p
	return s
}

func newStat(v float64, precision int) Stat {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Stat{Precision: precision}
	}
	return Stat{Value: v, Valid: true, Precision: precision}
}

// Int wraps a count as a Stat.
func Int(n int) Stat { return Stat{Value: float64(n), Valid: true} }

// FromMetric converts a backend metric.
func FromMetric(m models.Metric, precision int) Stat {
	if !m.Valid {
		return Stat{Precision: precision}
	}
	return newStat(m.Value, precision)
}

// CountWhere counts the items matching pred.
func CountWhere[T any](items []T, pred func(T) bool) int {
	n := 0
	for _, item := range items {
		if pred(item) {
			n++
		}
	}
	return n
}

// Sum adds up value over items.
func Sum[T any](items []T, value func(T) float64) float64 {
	var total float64
	for _, item := range items {
		total += value(item)
	}
	return total
}

// Average is the mean of the defined values; it is undefined when there are none.
func Average[T any](items []T, value func(T) (float64, bool), precision int) Stat {
	var (
		total float64
		n     int
	)
	for _, item := range items {
		v, ok := value(item)
		if !ok {
			continue
		}
		total += v
		n++
	}
	if n == 0 {
		return Stat{Precision: precision}
	}
	return newStat(total/float64(n), precision)
}

// Percentage returns part/whole*100; undefined when whole is zero.
func Percentage(part, whole float64, precision int) Stat {
	if whole == 0 {
		return Stat{Precision: precision}
	}
	return newStat(part/whole*100, precision)
}

// DistinctCount counts distinct non-empty keys, ignoring case and surrounding space.
func DistinctCount[T any](items []T, key func(T) string) int {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		k := strings.ToUpper(strings.TrimSpace(key(item)))
		if k == "" {
			continue
		}
		seen[k] = struct{}{}
	}
	return len(seen)
}
