package platform

import (
	"context"
	"fmt"

	"github.com/aretw0/aurora/pkg/codec"
	"github.com/aretw0/aurora/pkg/snapshot"
	"github.com/aretw0/aurora/pkg/store"
)

// Open wires a backend, the codec and a store, then loads it.
//
//	s, err := platform.Open(ctx, "./data", platform.WithAdapter("sqlite"))
//	defer s.Close(ctx)
func Open(ctx context.Context, uri string, opts ...Option) (*store.Store, error) {
	o := apply(opts)

	c, err := newCodec(ctx, uri, o)
	if err != nil {
		return nil, err
	}

	storeOpts := []store.Option{
		store.WithLogger(o.logger),
		store.WithDebounce(o.debounce),
		store.WithRegisterer(o.registerer),
		store.WithSampleTasks(o.flag("sample_tasks", true)),
	}
	s := store.New(c, storeOpts...)
	if err := s.Load(ctx); err != nil {
		_ = c.Backend().Close()
		return nil, err
	}
	return s, nil
}

// OpenReader opens the widget snapshot reader. The backend is forced
// read-only.
func OpenReader(ctx context.Context, uri string, opts ...Option) (*snapshot.Reader, error) {
	o := apply(append(opts, WithReadOnly(true), WithMustExist(true)))

	c, err := newCodec(ctx, uri, o)
	if err != nil {
		return nil, err
	}
	return snapshot.NewReader(c), nil
}

func newCodec(ctx context.Context, uri string, o *options) (*codec.Codec, error) {
	serializer, err := codec.SerializerFor(o.format)
	if err != nil {
		return nil, err
	}
	backend, err := initBackend(ctx, uri, o)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s backend: %w", o.adapter, err)
	}
	return codec.New(backend, serializer), nil
}
