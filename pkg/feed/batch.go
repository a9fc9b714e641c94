// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package feed

import "context"

// Publisher receives events. *Hub satisfies it.
type Publisher interface {
	Publish(ev Event)
}

type queued struct {
	to Publisher
	ev Event
}

// Batch holds events until the change that produced them is kept.
// It is not safe for concurrent use.
type Batch struct {
	pending []queued
}

// Add queues ev for to.
func (b *Batch) Add(to Publisher, ev Event) {
	b.pending = append(b.pending, queued{to: to, ev: ev})
}

// Len returns the number of queued events.
func (b *Batch) Len() int {
	return len(b.pending)
}

// Flush publishes the queued events in order and empties the batch.
func (b *Batch) Flush() int {
	n := len(b.pending)
	for _, q := range b.pending {
		q.to.Publish(q.ev)
	}
	b.pending = nil
	return n
}

type batchKey struct{}

// WithBatch returns a context whose publishes are queued on b.
func WithBatch(ctx context.Context, b *Batch) context.Context {
	return context.WithValue(ctx, batchKey{}, b)
}

// BatchFrom returns the batch carried by ctx, or nil.
func BatchFrom(ctx context.Context) *Batch {
	b, _ := ctx.Value(batchKey{}).(*Batch)
	return b
}

// PublishContext queues ev on the batch carried by ctx, or publishes it
// right away when there is none.
func PublishContext(ctx context.Context, to Publisher, ev Event) {
	if b := BatchFrom(ctx); b != nil {
		b.Add(to, ev)
		return
	}
	to.Publish(ev)
}
