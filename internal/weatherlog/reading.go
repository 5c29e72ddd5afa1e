package weatherlog

import (
	"slices"
	"strconv"
	"time"
)

// Value is an optional measurement. The zero value is absent.
type Value struct {
	v   float64
	set bool
}

// Some returns a present Value holding v.
func Some(v float64) Value {
	return Value{v: v, set: true}
}

// Get returns the measurement and whether it is present.
func (v Value) Get() (float64, bool) {
	return v.v, v.set
}

// Present reports whether the value was parsed and in range.
func (v Value) Present() bool {
	return v.set
}

// Format renders the value with the shortest exact decimal form, or
// placeholder when absent.
func (v Value) Format(placeholder string) string {
	if !v.set {
		return placeholder
	}
	return strconv.FormatFloat(v.v, 'f', -1, 64)
}

// Field identifies one of the three measurement columns.
type Field int

const (
	Temperature Field = iota
	Humidity
	Pressure
)

type fieldSpec struct {
	name string
	unit string
	min  float64
	max  float64
}

var fieldSpecs = [...]fieldSpec{
	Temperature: {name: "temperature", unit: "°C", min: -100, max: 150},
	Humidity:    {name: "humidity", unit: "%", min: 0, max: 100},
	Pressure:    {name: "pressure", unit: "hPa", min: 800, max: 1100},
}

// Fields lists the measurement columns in log order.
func Fields() []Field {
	return []Field{Temperature, Humidity, Pressure}
}

func (f Field) String() string {
	if f < 0 || int(f) >= len(fieldSpecs) {
		return "unknown"
	}
	return fieldSpecs[f].name
}

// Unit returns the display unit for the field.
func (f Field) Unit() string {
	if f < 0 || int(f) >= len(fieldSpecs) {
		return ""
	}
	return fieldSpecs[f].unit
}

// Range returns the inclusive valid range for the field.
func (f Field) Range() (float64, float64) {
	if f < 0 || int(f) >= len(fieldSpecs) {
		return 0, 0
	}
	spec := fieldSpecs[f]
	return spec.min, spec.max
}

// InRange reports whether v lies within the field's valid range.
func (f Field) InRange(v float64) bool {
	if f < 0 || int(f) >= len(fieldSpecs) {
		return false
	}
	spec := fieldSpecs[f]
	return v >= spec.min && v <= spec.max
}

// Reading is a single timestamped sample from the log.
type Reading struct {
	Timestamp   time.Time
	Temperature Value
	Humidity    Value
	Pressure    Value
}

// Value returns the measurement stored for field.
func (r Reading) Value(field Field) Value {
	switch field {
	case Temperature:
		return r.Temperature
	case Humidity:
		return r.Humidity
	case Pressure:
		return r.Pressure
	default:
		return Value{}
	}
}

// HasMeasurements reports whether at least one field is present.
func (r Reading) HasMeasurements() bool {
	return r.Temperature.Present() || r.Humidity.Present() || r.Pressure.Present()
}

// Series is an immutable, timestamp-ordered collection of readings.
type Series struct {
	readings []Reading
}

// NewSeries copies readings and stable-sorts them by timestamp, so readings
// sharing a timestamp keep their input order.
func NewSeries(readings []Reading) Series {
	sorted := slices.Clone(readings)
	slices.SortStableFunc(sorted, func(a, b Reading) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return Series{readings: sorted}
}

// Len returns the number of readings.
func (s Series) Len() int {
	return len(s.readings)
}

// At returns the i-th reading in ascending order.
func (s Series) At(i int) Reading {
	return s.readings[i]
}

// Readings returns a copy of the ordered readings.
func (s Series) Readings() []Reading {
	return slices.Clone(s.readings)
}

// Span returns the first and last timestamps. ok is false for an empty series.
func (s Series) Span() (first, last time.Time, ok bool) {
	if len(s.readings) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return s.readings[0].Timestamp, s.readings[len(s.readings)-1].Timestamp, true
}
