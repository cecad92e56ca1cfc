package typecast

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"go.uber.org/zap"
)

// Processor encodes values into tagged envelopes and decodes them back into
// registered types. It is the explicit form of what Initialize installs
// globally; construct one and pass it around when global state is unwanted.
//
// Processors hold no mutable state and are safe for concurrent use.
type Processor struct {
	codec    Codec
	registry *Registry
	logger   *zap.Logger
}

// Option configures a Processor.
type Option func(*Processor)

// WithCodec sets the wire format. The default is JSON.
func WithCodec(c Codec) Option {
	return func(p *Processor) {
		p.codec = c
	}
}

// WithRegistry sets the registry used to resolve tags. The default is DefaultRegistry.
func WithRegistry(r *Registry) Option {
	return func(p *Processor) {
		p.registry = r
	}
}

// WithLogger sets a logger for debug output. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(p *Processor) {
		p.logger = l
	}
}

// New creates a Processor.
func New(opts ...Option) *Processor {
	p := &Processor{
		codec:    jsonCodec{},
		registry: DefaultRegistry,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ContentType returns the codec's MIME type.
func (p *Processor) ContentType() string {
	return p.codec.ContentType()
}

// Registry returns the registry tags are resolved against.
func (p *Processor) Registry() *Registry {
	return p.registry
}

// Encode converts v into an envelope tree and marshals it with the codec.
// Values without a native shape must implement Dumpable.
func (p *Processor) Encode(ctx context.Context, v any) ([]byte, error) {
	start := time.Now()
	emitEncodeStart(ctx, p.codec.ContentType())

	enc := &encoder{}
	var retErr error
	var retData []byte
	defer func() {
		emitEncodeComplete(ctx, p.codec.ContentType(), len(retData), time.Since(start), enc.envelopes, retErr)
	}()

	tree, err := enc.encode(v)
	if err != nil {
		p.logger.Debug("encode failed", zap.String("content_type", p.codec.ContentType()), zap.Error(err))
		retErr = err
		return nil, retErr
	}

	data, err := p.codec.Marshal(tree)
	if err != nil {
		retErr = newCodecError(ErrMarshal, err)
		return nil, retErr
	}

	retData = data
	return retData, nil
}

// Decode unmarshals data into a generic tree and replaces every tagged object
// with an instance of its registered type. Tagged objects come back as *T.
func (p *Processor) Decode(ctx context.Context, data []byte) (any, error) {
	start := time.Now()
	emitDecodeStart(ctx, p.codec.ContentType(), len(data))

	dec := &decoder{registry: p.registry}
	var retErr error
	defer func() {
		emitDecodeComplete(ctx, p.codec.ContentType(), time.Since(start), dec.instances, retErr)
	}()

	var tree any
	if err := p.codec.Unmarshal(data, &tree); err != nil {
		retErr = newCodecError(ErrUnmarshal, err)
		return nil, retErr
	}

	out, err := dec.rewrite(tree)
	if err != nil {
		p.logger.Debug("decode failed", zap.String("content_type", p.codec.ContentType()), zap.Error(err))
		retErr = err
		return nil, retErr
	}

	p.logger.Debug("decoded", zap.Int("instances", dec.instances))
	return out, nil
}

// DecodeInto decodes data and stores the result in dst, which must be a
// non-nil pointer. A *T result is stored into a T, a []any into a []*T, and so on.
func (p *Processor) DecodeInto(ctx context.Context, data []byte, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("decode into %T: destination must be a non-nil pointer", dst)
	}

	out, err := p.Decode(ctx, data)
	if err != nil {
		return err
	}
	return store(out, rv.Elem())
}

func store(v any, dst reflect.Value) error {
	if err := convert(v, dst); err != nil {
		return newTypeError(ErrAssign, dst.Type().String(), err.Error())
	}
	return nil
}
