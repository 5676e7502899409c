package cache

import "context"

// Tiered fronts a persistent Store with an in-process LRU. Reads try memory
// first; a backing-store hit is copied into memory with its original expiry.
// Writes go to the backing store first, and reach memory only if that
// succeeded, so the tiers never disagree about what was persisted.
type Tiered struct {
	front *LRU
	back  Store
}

// NewTiered layers front over back.
func NewTiered(front *LRU, back Store) *Tiered {
	return &Tiered{front: front, back: back}
}

func (t *Tiered) Get(ctx context.Context, key string) (Entry, bool, error) {
	if e, ok, _ := t.front.Get(ctx, key); ok && e.Fresh(t.front.clock.Now()) {
		return e, true, nil
	}

	e, ok, err := t.back.Get(ctx, key)
	if err != nil || !ok {
		return e, ok, err
	}
	t.front.set(e)
	return e, true, nil
}

func (t *Tiered) Put(ctx context.Context, key string, payload []byte, sources []string) error {
	if err := t.back.Put(ctx, key, payload, sources); err != nil {
		return err
	}
	return t.front.Put(ctx, key, payload, sources)
}
