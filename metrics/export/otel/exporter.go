// Package otel bridges the client's internal counters into an
// OpenTelemetry meter as observable instruments. The bridge pulls a
// snapshot on every collection; nothing is pushed between collections.
package otel

import (
	"context"
	"errors"
	"fmt"

	firetrack "github.com/zenfield/firetrack"
	"go.opentelemetry.io/otel/metric"
)

var (
	ErrNilMeter  = errors.New("nil meter")
	ErrNilSource = errors.New("nil metrics source")
)

type metricsSource interface {
	MetricsSnapshot() firetrack.MetricsSnapshot
}

type observedCounter struct {
	id         firetrack.MetricID
	instrument metric.Int64ObservableCounter
}

type Exporter struct {
	source       metricsSource
	registration metric.Registration
	counters     []observedCounter
}

// NewExporter registers every client counter on the meter.
func NewExporter(meter metric.Meter, client *firetrack.Client) (*Exporter, error) {
	return NewExporterFromSource(meter, client)
}

// NewExporterFromSource is the injectable variant used by tests.
func NewExporterFromSource(meter metric.Meter, source metricsSource) (*Exporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	defs := firetrack.MetricDefs()
	exporter := &Exporter{
		source:   source,
		counters: make([]observedCounter, 0, len(defs)),
	}

	observables := make([]metric.Observable, 0, len(defs))
	for _, def := range defs {
		ins, err := meter.Int64ObservableCounter(def.Name, metric.WithDescription(def.Help))
		if err != nil {
			return nil, fmt.Errorf("create observable counter %s: %w", def.Name, err)
		}
		exporter.counters = append(exporter.counters, observedCounter{id: def.ID, instrument: ins})
		observables = append(observables, ins)
	}

	registration, err := meter.RegisterCallback(func(_ context.Context, observer metric.Observer) error {
		snapshot := exporter.source.MetricsSnapshot()
		for _, c := range exporter.counters {
			observer.ObserveInt64(c.instrument, int64(snapshot.Counters[c.id]))
		}
		return nil
	}, observables...)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}

	exporter.registration = registration
	return exporter, nil
}

// Close unregisters the collection callback.
func (e *Exporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
