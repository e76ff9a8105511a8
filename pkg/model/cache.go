package model

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// InstanceCache keeps recently read instances by path, so many solutions of one instance are
// validated against a single parse. Safe for concurrent use.
type InstanceCache struct {
	instances *lru.Cache[string, Instance]
	read      func(path string) (Instance, error)
}

func NewInstanceCache(size int) (*InstanceCache, error) {
	instances, err := lru.New[string, Instance](size)
	if err != nil {
		return nil, fmt.Errorf("cannot create instance cache: %w", err)
	}
	return &InstanceCache{instances: instances, read: ReadInstanceFile}, nil
}

func (cache *InstanceCache) Load(path string) (Instance, error) {
	if instance, ok := cache.instances.Get(path); ok {
		return instance, nil
	}
	instance, err := cache.read(path)
	if err != nil {
		return Instance{}, err
	}
	cache.instances.Add(path, instance)
	return instance, nil
}

func (cache *InstanceCache) Len() int {
	return cache.instances.Len()
}
