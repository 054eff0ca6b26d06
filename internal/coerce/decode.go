package coerce

import (
	"math"
	"strings"
)

// Decoder turns bucketed or capped labels into a representative number.
// Labels not present in the table are parsed as plain numbers.
type Decoder struct {
	labels map[string]float64
}

// NewDecoder builds a Decoder. Keys are canonicalized the same way as input,
// so "30分〜60分" and "30分?60分" are the same label.
func NewDecoder(labels map[string]float64) Decoder {
	m := make(map[string]float64, len(labels))
	for k, v := range labels {
		m[canonLabel(k)] = v
	}
	return Decoder{labels: m}
}

// With returns a copy of d extended (or overridden) by extra labels.
func (d Decoder) With(extra map[string]float64) Decoder {
	m := make(map[string]float64, len(d.labels)+len(extra))
	for k, v := range d.labels {
		m[k] = v
	}
	for k, v := range extra {
		m[canonLabel(k)] = v
	}
	return Decoder{labels: m}
}

// Decode maps s to its label value, falling back to ParseNumber.
func (d Decoder) Decode(s string) float64 {
	c := canonLabel(s)
	if c == "" {
		return math.NaN()
	}
	if v, ok := d.labels[c]; ok {
		return v
	}
	return ParseNumber(c)
}

// range separators seen in the raw data; "?" is what a lost wave dash
// decodes to in some exports.
var sepReplacer = strings.NewReplacer("〜", "~", "～", "~", "?", "~", "？", "~")

func canonLabel(s string) string {
	return sepReplacer.Replace(fold(s))
}

// WalkTime decodes the walk time to the nearest station, in minutes.
var WalkTime = NewDecoder(map[string]float64{
	"30分~60分": 45,
	"1H~1H30":  75,
	"1H30~2H":  105,
	"2H~":      120,
})

// FloorArea decodes total floor area in square metres.
var FloorArea = NewDecoder(map[string]float64{
	"10m^2未満":  9,
	"2000㎡以上": 2000,
})

// LotArea decodes lot area in square metres.
var LotArea = NewDecoder(map[string]float64{
	"2000㎡以上": 2000,
	"5000㎡以上": 5000,
})

// Frontage decodes frontage in metres.
var Frontage = NewDecoder(map[string]float64{
	"50.0m以上": 50,
})

// Decoders indexes the predefined decoders by configuration name.
var Decoders = map[string]Decoder{
	"walk_time":  WalkTime,
	"floor_area": FloorArea,
	"lot_area":   LotArea,
	"frontage":   Frontage,
	"number":     NewDecoder(nil),
}
