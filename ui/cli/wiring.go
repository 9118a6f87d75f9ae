// Copyright (c) 2026 ToeiRei
// Redtoken - honeytoken management system
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"

	"github.com/toeirei/redtoken/internal/core"
	"github.com/toeirei/redtoken/internal/db"
	"github.com/toeirei/redtoken/internal/inject"
	"github.com/toeirei/redtoken/internal/logging"
	"github.com/toeirei/redtoken/internal/model"
	"github.com/toeirei/redtoken/internal/notify"
)

// fileType returns override parsed, or the configured kind.
func (a *app) fileType(override string) model.FileType {
	if override != "" {
		return model.ParseFileType(override)
	}
	return model.ParseFileType(a.cfg.Injection.FileType)
}

func (a *app) newInjector(ft model.FileType) *inject.Service {
	return inject.New(inject.Config{
		FileType:       ft,
		BackupEnabled:  a.cfg.Storage.BackupEnabled,
		BackupDir:      a.cfg.Storage.BackupPath,
		BackupCompress: a.cfg.Storage.BackupCompress,
		Pattern:        a.cfg.Injection.Pattern,
		EnvMarker:      a.cfg.Injection.EnvMarker,
	})
}

func (a *app) newNotifier() (notify.Notifier, error) {
	channels := a.cfg.Notification.Channels
	if len(channels) == 0 {
		logging.Warnf("no notification channels configured, triggers will only be recorded")
		return nil, nil
	}
	d, err := notify.NewDispatcher(channels, notify.Options{RateLimit: a.cfg.Notification.RateLimit})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// services bundles what one command needs. Close waits for pending alerts
// and releases the store.
type services struct {
	svc      *core.Service
	injector *inject.Service
	store    db.Store
}

func (s *services) Close() {
	s.svc.Wait()
	if err := s.store.Close(); err != nil {
		logging.Warnf("closing store: %v", err)
	}
}

// open wires the lifecycle service. withNotifier is false for commands that
// never trigger tokens.
func (a *app) open(ctx context.Context, ft model.FileType, withNotifier bool, opts ...core.Option) (*services, error) {
	store, err := db.New(ctx, a.cfg.Storage.Type, a.cfg.Storage.DBPath)
	if err != nil {
		return nil, err
	}
	var n notify.Notifier
	if withNotifier {
		if n, err = a.newNotifier(); err != nil {
			_ = store.Close()
			return nil, err
		}
	}
	injector := a.newInjector(ft)
	gen := inject.Generator{
		Length:         a.cfg.Token.TokenLength,
		Prefix:         a.cfg.Token.TokenPrefix,
		IncludeSymbols: a.cfg.Token.IncludeSymbols,
	}
	opts = append([]core.Option{core.WithGenerator(gen)}, opts...)
	return &services{
		svc:      core.New(store, injector, n, opts...),
		injector: injector,
		store:    store,
	}, nil
}
