/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package telemetry holds the OpenTelemetry instrument and span names used
// by verbridge, and helpers to obtain them from explicit or global providers.
//
// Telemetry is opt-in at the process level: until the embedding binary
// installs real providers via otel.SetMeterProvider/otel.SetTracerProvider,
// every instrument is a no-op.
package telemetry

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

// ScopeName is the instrumentation scope of all verbridge meters and tracers.
const ScopeName = "dirpx.dev/verbridge"

const (
	// MetricRegistrationRejected counts transformers skipped at registration.
	MetricRegistrationRejected = "verbridge.registration.rejected"
	// MetricTransformApplied counts transformers applied by the bridge.
	MetricTransformApplied = "verbridge.transform.applied"
)

const (
	SpanBridgeRequest  = "verbridge.BridgeRequest"
	SpanBridgeResponse = "verbridge.BridgeResponse"
	SpanExecute        = "verbridge.Execute"
)

// Attribute keys shared by metrics, spans and log fields.
const (
	KeyEntity       = attribute.Key("verbridge.entity")
	KeyFromVersion  = attribute.Key("verbridge.from_version")
	KeyToVersion    = attribute.Key("verbridge.to_version")
	KeyReason       = attribute.Key("verbridge.reason")
	KeyInvocationID = attribute.Key("verbridge.invocation_id")
	KeyChainLength  = attribute.Key("verbridge.chain_length")
	KeyErrorCode    = attribute.Key("verbridge.error_code")
)

// Meter returns the verbridge meter from mp, or from the global provider
// when mp is nil.
func Meter(mp metric.MeterProvider) metric.Meter {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	return mp.Meter(ScopeName)
}

// Tracer returns the verbridge tracer from tp, or from the global provider
// when tp is nil.
func Tracer(tp trace.TracerProvider) trace.Tracer {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return tp.Tracer(ScopeName)
}

// Counter creates an Int64Counter on m. Instrument creation only fails on
// invalid names, in which case a no-op counter is returned.
func Counter(m metric.Meter, name, desc string) metric.Int64Counter {
	c, err := m.Int64Counter(name, metric.WithDescription(desc))
	if err != nil {
		return noop.Int64Counter{}
	}
	return c
}
