package arraycache

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/multierr"

	gen "github.com/unkn0wn-root/logarray/arraycache/genstore"
	"github.com/unkn0wn-root/logarray/arraycache/internal/util"
	"github.com/unkn0wn-root/logarray/arraycache/internal/wire"
	pr "github.com/unkn0wn-root/logarray/arraycache/provider"
)

const (
	defaultGenRetention = 30 * 24 * time.Hour
	defaultSweep        = time.Hour
)

type cache[V any] struct {
	ns             string
	provider       pr.Provider
	codec          Codec[V]
	log            Logger
	hooks          Hooks
	enabled        bool
	disableBulk    bool
	defaultTTL     time.Duration
	bulkTTL        time.Duration
	sweepInterval  time.Duration
	genRetention   time.Duration
	computeSetCost SetCostFunc
	gen            gen.GenStore
}

func newCache[V any](opts Options[V]) (*cache[V], error) {
	if opts.Provider == nil {
		return nil, fmt.Errorf("arraycache: provider is required")
	}
	if opts.Codec == nil {
		return nil, fmt.Errorf("arraycache: codec is required")
	}
	if opts.Namespace == "" {
		return nil, fmt.Errorf("arraycache: namespace is required")
	}

	c := &cache[V]{
		ns:       opts.Namespace,
		provider: opts.Provider,
		codec:    opts.Codec,
		enabled:     !opts.Disabled,
		disableBulk: opts.DisableBulk,
	}

	// defaults
	c.log = coalesce[Logger](opts.Logger, NopLogger{})
	c.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	c.defaultTTL = coalesce[time.Duration](opts.DefaultTTL, 10*time.Minute)
	c.bulkTTL = coalesce[time.Duration](opts.BulkTTL, 10*time.Minute)
	c.sweepInterval = coalesce[time.Duration](opts.CleanupInterval, defaultSweep)
	c.genRetention = coalesce[time.Duration](opts.GenRetention, defaultGenRetention)

	if opts.ComputeSetCost != nil {
		c.computeSetCost = opts.ComputeSetCost
	} else {
		c.computeSetCost = func(_ string, _ []byte, _ bool, _ int) int64 { return 1 }
	}

	if opts.GenStore != nil {
		c.gen = opts.GenStore
	} else {
		// default to in-process generations with periodic cleanup
		c.gen = gen.NewLocalGenStore(c.sweepInterval, c.genRetention)
	}

	if _, isLocal := c.gen.(*gen.LocalGenStore); isLocal && !opts.DisableBulk {
		c.hooks.LocalGenWithBulk()
	}

	return c, nil
}

func (c *cache[V]) Enabled() bool { return c.enabled }

func (c *cache[V]) Close(ctx context.Context) error {
	var err error
	if c.gen != nil {
		err = multierr.Append(err, c.gen.Close(ctx))
	}
	if c.provider != nil {
		err = multierr.Append(err, c.provider.Close(ctx))
	}
	return err
}

func (c *cache[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var zero V
	if !c.enabled {
		return zero, false, nil
	}
	k := c.singleKey(key)
	raw, ok, err := c.provider.Get(ctx, k)
	if err != nil || !ok {
		return zero, false, err
	}
	gen, payload, err := wire.DecodeSingle(raw)
	if err != nil {
		c.selfHeal(ctx, k, "corrupt entry")
		return zero, false, nil
	}
	// validate generation
	if want := c.snapshotGen(ctx, k); gen != want {
		c.selfHeal(ctx, k, "stale generation")
		return zero, false, nil
	}
	v, err := c.codec.Decode(payload)
	if err != nil {
		c.selfHeal(ctx, k, "decode error")
		return zero, false, nil
	}
	return v, true, nil
}

func (c *cache[V]) selfHeal(ctx context.Context, storageKey, reason string) {
	_ = c.provider.Del(ctx, storageKey)
	c.hooks.SelfHealSingle(storageKey, reason)
}

func (c *cache[V]) SetWithGen(ctx context.Context, key string, value V, observedGen uint64, ttl time.Duration) error {
	if !c.enabled {
		return nil
	}
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	k := c.singleKey(key)
	if c.snapshotGen(ctx, k) != observedGen {
		// generation moved; skip stale write
		c.log.Debug("SetWithGen skipped (gen mismatch)", Fields{"key": key, "obs": observedGen})
		return nil
	}
	payload, err := c.codec.Encode(value)
	if err != nil {
		return err
	}
	wireb := wire.EncodeSingle(observedGen, payload)
	ok, err := c.provider.Set(ctx, k, wireb, c.computeSetCost(k, wireb, false, 1), ttl)
	if err != nil {
		return err
	}
	if !ok {
		c.log.Debug("SetWithGen rejected by provider (pressure)", Fields{"key": key})
		c.hooks.ProviderSetRejected(k, false)
	}
	return nil
}

// Invalidate bumps key's generation and clears its single entry. It reports
// an *InvalidateError only when both the generation bump and the provider
// delete fail: either one succeeding is enough to make the key unreadable
// (a stale generation gets self-healed on the next Get even if the delete
// didn't land; a cleared entry reads as a miss even if the gen is stale).
func (c *cache[V]) Invalidate(ctx context.Context, key string) error {
	if !c.enabled {
		return nil
	}
	k := c.singleKey(key)
	newGen, bumpErr := c.bumpGen(ctx, k)
	delErr := c.provider.Del(ctx, k)
	if bumpErr != nil && delErr != nil {
		c.hooks.InvalidateOutage(key, bumpErr, delErr)
		return &InvalidateError{Key: key, BumpErr: bumpErr, DelErr: delErr}
	}
	c.log.Debug("invalidated key (bumped gen + cleared single)", Fields{"key": key, "newGen": newGen})
	return nil
}

// InvalidateMany bumps generations for many keys in one batch call and best-
// effort clears their single entries. It is the path a storage engine takes
// after rewriting a whole file: every descriptor backed by that file needs
// its generation advanced together, not one network round-trip at a time.
func (c *cache[V]) InvalidateMany(ctx context.Context, keys []string) error {
	if !c.enabled || len(keys) == 0 {
		return nil
	}
	storageKeys := make([]string, len(keys))
	for i, k := range keys {
		storageKeys[i] = c.singleKey(k)
	}

	gens, bumpErr := c.gen.BumpMany(ctx, storageKeys)
	if bumpErr != nil {
		c.hooks.GenBumpError(fmt.Sprintf("%d keys", len(keys)), bumpErr)
	}

	var delErr error
	for _, sk := range storageKeys {
		if err := c.provider.Del(ctx, sk); err != nil {
			delErr = err
		}
	}
	if bumpErr != nil && delErr != nil {
		c.hooks.InvalidateOutage(fmt.Sprintf("%d keys", len(keys)), bumpErr, delErr)
		return &InvalidateError{Key: fmt.Sprintf("%d keys", len(keys)), BumpErr: bumpErr, DelErr: delErr}
	}
	c.log.Debug("invalidated many keys", Fields{"count": len(keys), "gens": len(gens)})
	return nil
}

func (c *cache[V]) GetBulk(ctx context.Context, keys []string) (map[string]V, []string, error) {
	out := make(map[string]V, len(keys))
	if !c.enabled {
		missing := make([]string, 0, len(keys))
		missing = append(missing, keys...)
		return out, missing, nil
	}
	if len(keys) == 0 {
		return out, nil, nil
	}

	// sort and dedupe a copy once; reuse for both bulk key and deterministic decode-order mapping
	sorted := make([]string, len(keys))
	copy(sorted, keys)
	sort.Strings(sorted)
	uniq := sorted[:0]
	for _, k := range sorted {
		if len(uniq) == 0 || uniq[len(uniq)-1] != k {
			uniq = append(uniq, k)
		}
	}
	sorted = uniq

	bulkKey := c.bulkKeySorted(sorted)
	if raw, ok, err := c.provider.Get(ctx, bulkKey); err == nil && ok {
		items, err := wire.DecodeBulk(raw)
		if err == nil && c.bulkValid(ctx, sorted, items) {
			byKey := make(map[string]V, len(items))
			genByKey := make(map[string]uint64, len(items))
			for _, it := range items {
				val, err := c.codec.Decode(it.Payload)
				if err != nil {
					continue
				}
				byKey[it.Key] = val
				genByKey[it.Key] = it.Gen
			}
			var missing []string
			for _, k := range keys {
				if v, ok := byKey[k]; ok {
					out[k] = v
					// opportunistic single warmup (CAS-protected)
					_ = c.SetWithGen(ctx, k, v, genByKey[k], c.defaultTTL)
				} else {
					missing = append(missing, k)
				}
			}
			return out, missing, nil
		}
		// stale or corrupt bulk; drop
		_ = c.provider.Del(ctx, bulkKey)
		c.hooks.BulkRejected(c.ns, len(sorted), "stale or corrupt bulk entry")
	}

	// Fallback: try singles
	var missing []string
	for _, k := range keys {
		if v, ok, _ := c.Get(ctx, k); ok {
			out[k] = v
		} else {
			missing = append(missing, k)
		}
	}
	return out, missing, nil
}

func (c *cache[V]) SetBulkWithGens(ctx context.Context, items map[string]V, observedGens map[string]uint64, ttl time.Duration) error {
	if !c.enabled || len(items) == 0 {
		return nil
	}
	if ttl == 0 {
		ttl = c.bulkTTL
	}
	if c.disableBulk {
		// bulk disabled: seed singles only, never write a bulk key
		for k, v := range items {
			if obs, ok := observedGens[k]; ok {
				_ = c.SetWithGen(ctx, k, v, obs, c.defaultTTL)
			}
		}
		return nil
	}

	// verify all observed gens still current
	for k := range items {
		kk := c.singleKey(k)
		obs, ok := observedGens[k]
		if !ok || c.snapshotGen(ctx, kk) != obs {
			// skip bulk; seed singles instead
			c.log.Debug("SetBulkWithGens skipped (gen mismatch)", Fields{"key": k})
			for kk2, v := range items {
				if obs2, ok := observedGens[kk2]; ok {
					_ = c.SetWithGen(ctx, kk2, v, obs2, c.defaultTTL)
				}
			}
			return nil
		}
	}

	// encode all into wire bulk (deterministic key order)
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	wireItems := make([]wire.BulkItem, 0, len(items))
	for _, k := range keys {
		payload, err := c.codec.Encode(items[k])
		if err != nil {
			return err
		}
		wireItems = append(wireItems, wire.BulkItem{
			Key:     k,
			Gen:     observedGens[k],
			Payload: payload,
		})
	}
	wireb, err := wire.EncodeBulk(wireItems)
	if err != nil {
		return err
	}

	// Use sorted keys for bulk key too
	bk := c.bulkKeySorted(keys)
	ok, err := c.provider.Set(ctx, bk, wireb, c.computeSetCost(bk, wireb, true, len(items)), ttl)
	if err != nil {
		return err
	}
	if !ok {
		c.log.Debug("bulk Set rejected; seeding singles", Fields{"bulkKey": bk})
		c.hooks.ProviderSetRejected(bk, true)
		for k, v := range items {
			_ = c.SetWithGen(ctx, k, v, observedGens[k], c.defaultTTL)
		}
		return nil
	}

	// also seed singles best-effort
	for k, v := range items {
		_ = c.SetWithGen(ctx, k, v, observedGens[k], c.defaultTTL)
	}
	return nil
}

func (c *cache[V]) SnapshotGen(key string) uint64 {
	k := c.singleKey(key)
	return c.snapshotGen(context.Background(), k)
}

func (c *cache[V]) SnapshotGens(keys []string) map[string]uint64 {
	ctx := context.Background()
	storage := make([]string, len(keys))
	for i, k := range keys {
		storage[i] = c.singleKey(k)
	}
	m, err := c.gen.SnapshotMany(ctx, storage)
	if err != nil {
		c.hooks.GenSnapshotError(len(keys), err)
		// conservative fallback: one by one
		out := make(map[string]uint64, len(keys))
		for _, k := range keys {
			out[k] = c.SnapshotGen(k)
		}
		return out
	}
	out := make(map[string]uint64, len(keys))
	for _, k := range keys {
		out[k] = m[c.singleKey(k)]
	}
	return out
}

func (c *cache[V]) snapshotGen(ctx context.Context, storageKey string) uint64 {
	g, err := c.gen.Snapshot(ctx, storageKey)
	if err != nil {
		// Conservative: treat as 0 so CAS writes will skip; reads will self-heal
		c.log.Warn("gen snapshot error", Fields{"key": storageKey, "err": err})
		c.hooks.GenSnapshotError(1, err)
		return 0
	}
	return g
}

func (c *cache[V]) bumpGen(ctx context.Context, storageKey string) (uint64, error) {
	g, err := c.gen.Bump(ctx, storageKey)
	if err != nil {
		c.log.Error("gen bump error", Fields{"key": storageKey, "err": err})
		c.hooks.GenBumpError(storageKey, err)
		return 0, err
	}
	return g, nil
}

func (c *cache[V]) singleKey(userKey string) string {
	// isolate by namespace
	return "single:" + c.ns + ":" + userKey
}

func (c *cache[V]) bulkKeySorted(sortedKeys []string) string {
	// sortedKeys must be sorted ascending
	return util.BulkKeySorted("bulk:"+c.ns, sortedKeys)
}

// bulkValid reports whether a decoded bulk entry still covers every key
// requested (sortedKeys) at its current generation. A bulk is rejected if
// any requested key is missing from items or stale; members present in
// items but not requested are ignored.
func (c *cache[V]) bulkValid(ctx context.Context, sortedKeys []string, items []wire.BulkItem) bool {
	gens := make(map[string]uint64, len(items))
	for _, it := range items {
		gens[it.Key] = it.Gen
	}
	for _, k := range sortedKeys {
		g, ok := gens[k]
		if !ok {
			return false
		}
		if g != c.snapshotGen(ctx, c.singleKey(k)) {
			return false
		}
	}
	return true
}
