package pulse

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/oliverbestmann/webgpu/wgpu"
)

type samplerKey struct {
	device *wgpu.Device
	desc   wgpu.SamplerDescriptor
}

var samplerCache, _ = lru.NewWithEvict[samplerKey, *wgpu.Sampler](16, samplerCacheOnEvict)

func samplerCacheOnEvict(_ samplerKey, value *wgpu.Sampler) {
	value.Release()
}

// CachedSampler returns a sampler matching your description. The sampler may be cached,
// you must not call wgpu.Sampler.Release() on it.
func CachedSampler(dev *wgpu.Device, desc wgpu.SamplerDescriptor) (*wgpu.Sampler, error) {
	key := samplerKey{device: dev, desc: desc}

	cachedSampler, ok := samplerCache.Get(key)
	if ok {
		return cachedSampler, nil
	}

	sampler, err := dev.CreateSampler(&desc)
	if err != nil {
		return nil, fmt.Errorf("create sampler: %w", err)
	}

	samplerCache.Add(key, sampler)

	return sampler, nil
}
