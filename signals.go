package typecast

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for typecast events.
var (
	SignalInitialized    = capitan.NewSignal("typecast.initialized", "Global entry points switched to tagged encoding")
	SignalRegistered     = capitan.NewSignal("typecast.registered", "Type registered for decoding")
	SignalEncodeStart    = capitan.NewSignal("typecast.encode.start", "Encode operation beginning")
	SignalEncodeComplete = capitan.NewSignal("typecast.encode.complete", "Encode operation finished")
	SignalDecodeStart    = capitan.NewSignal("typecast.decode.start", "Decode operation beginning")
	SignalDecodeComplete = capitan.NewSignal("typecast.decode.complete", "Decode operation finished")
)

// Keys for typed event data.
var (
	KeyContentType   = capitan.NewStringKey("content_type")
	KeyTypeTag       = capitan.NewStringKey("type_tag")
	KeySize          = capitan.NewIntKey("size")
	KeyDuration      = capitan.NewDurationKey("duration")
	KeyError         = capitan.NewErrorKey("error")
	KeyEnvelopeCount = capitan.NewIntKey("envelope_count")
)

func emitInitialized(ctx context.Context, contentType string) {
	capitan.Emit(ctx, SignalInitialized,
		KeyContentType.Field(contentType),
	)
}

func emitRegistered(ctx context.Context, tag string) {
	capitan.Emit(ctx, SignalRegistered,
		KeyTypeTag.Field(tag),
	)
}

func emitEncodeStart(ctx context.Context, contentType string) {
	capitan.Emit(ctx, SignalEncodeStart,
		KeyContentType.Field(contentType),
	)
}

// emitEncodeComplete emits an event when encode finishes.
func emitEncodeComplete(ctx context.Context, contentType string, size int, duration time.Duration, envelopes int, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeySize.Field(size),
		KeyDuration.Field(duration),
		KeyEnvelopeCount.Field(envelopes),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalEncodeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalEncodeComplete, fields...)
	}
}

func emitDecodeStart(ctx context.Context, contentType string, size int) {
	capitan.Emit(ctx, SignalDecodeStart,
		KeyContentType.Field(contentType),
		KeySize.Field(size),
	)
}

// emitDecodeComplete emits an event when decode finishes.
func emitDecodeComplete(ctx context.Context, contentType string, duration time.Duration, instances int, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyDuration.Field(duration),
		KeyEnvelopeCount.Field(instances),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalDecodeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalDecodeComplete, fields...)
	}
}
