// Package prefs keeps the persisted user preferences.
package prefs

import (
	"context"
	"sync"

	"github.com/kylycht/flux/model"
	"github.com/kylycht/flux/storage"
	"github.com/rs/zerolog/log"
)

type Prefs struct {
	lock         sync.Mutex
	store        storage.Store
	defaultTheme model.Theme // used when nothing valid is stored
	theme        model.Theme // cached once read or written
	loaded       bool
}

func New(store storage.Store, defaultTheme model.Theme) *Prefs {
	if !defaultTheme.Valid() {
		defaultTheme = model.Dark
	}
	return &Prefs{store: store, defaultTheme: defaultTheme}
}

// Theme returns the persisted theme. The store is read
// once, later calls are served from memory.
func (p *Prefs) Theme(ctx context.Context) model.Theme {
	p.lock.Lock()
	defer p.lock.Unlock()

	return p.themeLocked(ctx)
}

// ToggleTheme flips the theme and persists it. The new theme is
// returned even when it could not be written.
func (p *Prefs) ToggleTheme(ctx context.Context) model.Theme {
	p.lock.Lock()
	defer p.lock.Unlock()

	theme := p.themeLocked(ctx).Toggle()
	p.theme, p.loaded = theme, true

	if err := p.store.Set(ctx, storage.ThemeKey, string(theme)); err != nil {
		log.Error().Err(err).Str("theme", string(theme)).Msg("unable to persist theme")
	}
	return theme
}

func (p *Prefs) themeLocked(ctx context.Context) model.Theme {
	if p.loaded {
		return p.theme
	}

	raw, ok, err := p.store.Get(ctx, storage.ThemeKey)
	if err != nil {
		log.Warn().Err(err).Msg("unable to read theme, using default")
		return p.defaultTheme
	}

	theme := model.Theme(raw)
	if !ok || !theme.Valid() {
		theme = p.defaultTheme
	}
	p.theme, p.loaded = theme, true

	return theme
}
