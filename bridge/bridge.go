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

package bridge

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"dirpx.dev/verbridge/apis"
	"dirpx.dev/verbridge/binding"
	"dirpx.dev/verbridge/telemetry"
	"dirpx.dev/verbridge/utils/version"
)

// Option configures a bridge at construction.
type Option func(*bridge)

// WithTracerProvider records spans on tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(b *bridge) {
		b.tp = tp
	}
}

// WithMeterProvider records metrics on mp instead of the global provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(b *bridge) {
		b.mp = mp
	}
}

// New constructs a Bridge over reg and res. Entity tags are read through bnd;
// a nil bnd only recognizes values implementing apis.Entity. A nil log
// discards output.
func New(cfg apis.Config, reg apis.Registry, res apis.Resolver, bnd apis.Binder, log *zap.Logger, opts ...Option) apis.Bridge {
	if bnd == nil {
		bnd = binding.New()
	}
	if log == nil {
		log = zap.NewNop()
	}
	b := &bridge{cfg: cfg, reg: reg, res: res, bnd: bnd, log: log}
	for _, opt := range opts {
		opt(b)
	}
	b.tracer = telemetry.Tracer(b.tp)
	b.applied = telemetry.Counter(
		telemetry.Meter(b.mp),
		telemetry.MetricTransformApplied,
		"Transformers applied while bridging entities.",
	)
	return b
}

// bridge is the default apis.Bridge. It holds no mutable state besides the
// auto-seal latch and is safe for concurrent use.
type bridge struct {
	cfg apis.Config
	reg apis.Registry
	res apis.Resolver
	bnd apis.Binder
	log *zap.Logger

	tp      trace.TracerProvider
	mp      metric.MeterProvider
	tracer  trace.Tracer
	applied metric.Int64Counter

	// seal runs reg.Seal at most once when cfg.AutoSeal is set.
	seal sync.Once
}

// Ensure bridge implements apis.Bridge.
var _ apis.Bridge = (*bridge)(nil)

// BridgeRequest upgrades v to required.
func (b *bridge) BridgeRequest(ctx context.Context, v any, required apis.Tag) (any, error) {
	ctx, span := b.tracer.Start(ctx, telemetry.SpanBridgeRequest, trace.WithAttributes(
		telemetry.KeyEntity.String(required.Entity),
		telemetry.KeyToVersion.Int(required.Version),
	))
	defer span.End()

	out, err := b.request(ctx, span, v, required)
	if err != nil {
		fail(span, err)
	}
	return out, err
}

func (b *bridge) request(ctx context.Context, span trace.Span, v any, required apis.Tag) (any, error) {
	if err := checkTag("required", required); err != nil {
		return nil, err
	}
	have, err := b.tagOf(v)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(telemetry.KeyFromVersion.Int(have.Version))

	if have.Entity != required.Entity {
		return nil, apis.NewConfigurationError(apis.CodeEntityMismatch, apis.TagMetadata(have, required),
			"entity %q does not match required entity %q", have.Entity, required.Entity)
	}
	if have.Version > required.Version {
		return nil, apis.NewConfigurationError(apis.CodeDirection, apis.TagMetadata(have, required),
			"cannot map to an earlier version: %s requested as %s", have, required)
	}
	if have.Version == required.Version {
		return v, nil
	}
	return b.apply(ctx, span, v, have, required)
}

// BridgeResponse downgrades v to expected.
func (b *bridge) BridgeResponse(ctx context.Context, v any, expected apis.Tag) (any, error) {
	ctx, span := b.tracer.Start(ctx, telemetry.SpanBridgeResponse, trace.WithAttributes(
		telemetry.KeyEntity.String(expected.Entity),
		telemetry.KeyToVersion.Int(expected.Version),
	))
	defer span.End()

	out, err := b.response(ctx, span, v, expected)
	if err != nil {
		fail(span, err)
	}
	return out, err
}

func (b *bridge) response(ctx context.Context, span trace.Span, v any, expected apis.Tag) (any, error) {
	if err := checkTag("expected", expected); err != nil {
		return nil, err
	}
	produced, err := b.tagOf(v)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(telemetry.KeyFromVersion.Int(produced.Version))

	if produced.Entity != expected.Entity {
		return nil, apis.NewConfigurationError(apis.CodeEntityMismatch, apis.TagMetadata(produced, expected),
			"entity %q does not match expected entity %q", produced.Entity, expected.Entity)
	}
	if expected.Version > produced.Version {
		return nil, apis.NewConfigurationError(apis.CodeDirection, apis.TagMetadata(produced, expected),
			"cannot map to a newer version: %s requested as %s", produced, expected)
	}
	if expected.Version == produced.Version {
		return v, nil
	}
	return b.apply(ctx, span, v, produced, expected)
}

// Execute bridges v into op, runs it and bridges the result back to expected.
func (b *bridge) Execute(ctx context.Context, op apis.Operation, v any, expected apis.Tag) (any, error) {
	id := uuid.NewString()
	ctx, span := b.tracer.Start(ctx, telemetry.SpanExecute, trace.WithAttributes(
		telemetry.KeyInvocationID.String(id),
	))
	defer span.End()

	out, err := b.execute(ctx, id, op, v, expected)
	if err != nil {
		fail(span, err)
	}
	return out, err
}

func (b *bridge) execute(ctx context.Context, id string, op apis.Operation, v any, expected apis.Tag) (any, error) {
	if op == nil {
		return nil, apis.NewConfigurationError(apis.CodeInvalidMetadata, nil, "nil operation")
	}
	d := op.Descriptor()
	if f, ok := op.(funcOperation); ok && f.fn == nil {
		return nil, errNilFunc(d)
	}
	if err := checkTag("operation input", d.Input); err != nil {
		return nil, err
	}
	if err := checkTag("operation output", d.Output); err != nil {
		return nil, err
	}
	if err := checkTag("expected", expected); err != nil {
		return nil, err
	}

	b.log.Debug("executing operation",
		zap.String("invocation_id", id),
		zap.Stringer("input", d.Input),
		zap.Stringer("output", d.Output),
		zap.Stringer("expected", expected),
	)

	in, err := b.BridgeRequest(ctx, v, d.Input)
	if err != nil {
		return nil, err
	}

	out, err := op.Execute(ctx, in)
	if err != nil {
		return nil, apis.WrapConfigurationError(apis.CodeOperationFailed, err, apis.TagMetadata(d.Input, d.Output),
			"operation %s -> %s failed", d.Input, d.Output)
	}

	produced, err := b.bnd.TagOf(out)
	if err != nil || produced != d.Output {
		return nil, apis.WrapConfigurationError(apis.CodeEntityMismatch, err, apis.TagMetadata(produced, d.Output),
			"operation produced %s, declared %s", produced, d.Output)
	}

	return b.BridgeResponse(ctx, out, expected)
}

// apply resolves the chain from -> to and runs it in order. The output of
// each transformer is the input of the next.
func (b *bridge) apply(ctx context.Context, span trace.Span, v any, from, to apis.Tag) (any, error) {
	if b.cfg.AutoSeal {
		b.seal.Do(b.reg.Seal)
	}

	md := apis.TagMetadata(from, to)
	g, ok := b.reg.Graph(from.Entity)
	if !ok {
		return nil, apis.NewConfigurationError(apis.CodeUnknownEntity, md,
			"no transformers registered for entity %q", from.Entity)
	}
	chain, ok := b.res.Resolve(g, from.Version, to.Version)
	if !ok {
		return nil, apis.NewConfigurationError(apis.CodeNoPath, md,
			"no transformer chain for entity %q from version %d to version %d", from.Entity, from.Version, to.Version)
	}
	span.SetAttributes(telemetry.KeyChainLength.Int(len(chain)))

	cur := v
	for i, t := range chain {
		out, err := t.Transform(cur)
		if err != nil {
			return nil, apis.WrapConfigurationError(apis.CodeTransformFailed, err,
				apis.TagMetadata(t.Source(), t.Target()), "transformer %s failed", t)
		}
		if b.cfg.VerifyTags {
			got, err := b.bnd.TagOf(out)
			if err != nil || got != t.Target() {
				return nil, apis.WrapConfigurationError(apis.CodeTransformFailed, err,
					apis.TagMetadata(t.Source(), t.Target()), "transformer %s returned %s", t, got)
			}
		}

		fields := []zap.Field{
			zap.String("entity", t.Entity),
			zap.Int("from_version", t.From),
			zap.Int("to_version", t.To),
			zap.Bool("upgrade", t.IsUpgrade()),
			zap.Int("step", i+1),
			zap.Int("chain_length", len(chain)),
		}
		if id, ok := cur.(apis.Identifier); ok {
			fields = append(fields, zap.String("entity_id", id.EntityID()))
		}
		b.log.Debug("applied entity transformer", fields...)
		b.applied.Add(ctx, 1, metric.WithAttributes(
			telemetry.KeyEntity.String(t.Entity),
			telemetry.KeyFromVersion.Int(t.From),
			telemetry.KeyToVersion.Int(t.To),
		))
		cur = out
	}
	return cur, nil
}

// tagOf reads the tag of v, reporting missing or malformed tags as
// invalid metadata.
func (b *bridge) tagOf(v any) (apis.Tag, error) {
	tag, err := b.bnd.TagOf(v)
	if err != nil {
		return apis.Tag{}, apis.WrapConfigurationError(apis.CodeInvalidMetadata, err, nil,
			"cannot determine entity tag of %T", v)
	}
	if err := checkTag("entity", tag); err != nil {
		return apis.Tag{}, err
	}
	return tag, nil
}

// checkTag rejects tags with no entity name or a version outside the range.
func checkTag(role string, tag apis.Tag) error {
	if tag.Entity == "" {
		return apis.NewConfigurationError(apis.CodeInvalidMetadata, nil, "%s tag has no entity name", role)
	}
	if !version.InRange(tag.Version) {
		return apis.WrapConfigurationError(apis.CodeInvalidMetadata, version.ErrOutOfRange,
			map[string]string{"entity": tag.Entity, "version": strconv.Itoa(tag.Version)},
			"%s tag %s", role, tag)
	}
	return nil
}

// fail marks span as failed with the error code of err.
func fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	var ce *apis.ConfigurationError
	if errors.As(err, &ce) {
		span.SetAttributes(telemetry.KeyErrorCode.String(string(ce.Code)))
	}
}
