package profile

import (
	"github.com/rs/zerolog"

	"dotsight/internal/crosshair"
)

type memoryBackend struct {
	profiles map[string]crosshair.Settings
	last     string
}

// NewMemoryStore 仅存在于内存的存储，用于测试和临时运行
func NewMemoryStore(log zerolog.Logger) Store {
	b := &memoryBackend{profiles: make(map[string]crosshair.Settings)}
	return newStore(b, log.With().Str("store", "memory").Logger())
}

func cloneSettings(st crosshair.Settings) crosshair.Settings {
	if st.CustomData != nil {
		c := st.CustomData.Clone()
		st.CustomData = &c
	}
	return st
}

func (b *memoryBackend) get(name string) (crosshair.Settings, bool, error) {
	st, ok := b.profiles[name]
	return cloneSettings(st), ok, nil
}

func (b *memoryBackend) put(st crosshair.Settings) error {
	b.profiles[st.Name] = cloneSettings(st)
	return nil
}

func (b *memoryBackend) remove(name string) (bool, error) {
	if _, ok := b.profiles[name]; !ok {
		return false, nil
	}
	delete(b.profiles, name)
	return true, nil
}

func (b *memoryBackend) names() ([]string, error) {
	out := make([]string, 0, len(b.profiles))
	for n := range b.profiles {
		out = append(out, n)
	}
	return out, nil
}

func (b *memoryBackend) lastUsed() (string, error) { return b.last, nil }

func (b *memoryBackend) setLastUsed(name string) error {
	b.last = name
	return nil
}

func (b *memoryBackend) close() error { return nil }
