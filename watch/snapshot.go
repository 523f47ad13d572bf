package watch

import (
	"sync/atomic"

	"github.com/Spencer17x/vue-next-zh/config"
)

// Snapshot holds the site config a build reads from. Swap replaces the
// whole value; a caller that already took Current keeps its copy, so a
// build in flight never sees a half-applied reload.
//
// Values stored here are shared between goroutines and must not be
// modified.
type Snapshot struct {
	cur     atomic.Pointer[config.SiteConfig]
	version atomic.Uint64
}

func NewSnapshot(cfg *config.SiteConfig) *Snapshot {
	s := &Snapshot{}
	s.cur.Store(cfg)
	return s
}

func (s *Snapshot) Current() *config.SiteConfig {
	return s.cur.Load()
}

// Swap installs cfg and returns the value it replaced.
func (s *Snapshot) Swap(cfg *config.SiteConfig) *config.SiteConfig {
	old := s.cur.Swap(cfg)
	s.version.Add(1)
	return old
}

// Version counts the swaps so far.
func (s *Snapshot) Version() uint64 {
	return s.version.Load()
}
