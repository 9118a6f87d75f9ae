// Copyright (c) 2026 ToeiRei
// Redtoken - honeytoken management system
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"sync"

	clog "github.com/charmbracelet/log"
	"github.com/toeirei/redtoken/internal/db"
	"github.com/toeirei/redtoken/internal/inject"
	"github.com/toeirei/redtoken/internal/logging"
	"github.com/toeirei/redtoken/internal/model"
	"github.com/toeirei/redtoken/internal/notify"
)

// Service orchestrates the token lifecycle.
type Service struct {
	store    db.Store
	injector inject.Injector
	notifier notify.Notifier
	gen      ValueGenerator
	clock    Clock
	async    bool
	log      *clog.Logger

	// Shared between copies made by WithInjector.
	checkMu *sync.Mutex
	alerts  *sync.WaitGroup
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the clock used for timestamps.
func WithClock(c Clock) Option { return func(s *Service) { s.clock = c } }

// WithGenerator sets the generator used when no value is supplied.
func WithGenerator(g ValueGenerator) Option { return func(s *Service) { s.gen = g } }

// WithAsyncChecks runs CheckToken in the background, so a hit costs the
// caller no more than a miss. Wait drains pending checks.
func WithAsyncChecks() Option { return func(s *Service) { s.async = true } }

// New returns a Service. A nil notifier disables alerts.
func New(store db.Store, injector inject.Injector, notifier notify.Notifier, opts ...Option) *Service {
	s := &Service{
		store:    store,
		injector: injector,
		notifier: notifier,
		gen:      inject.Generator{Prefix: inject.DefaultPrefix},
		clock:    systemClock{},
		log:      logging.With("component", "lifecycle"),
		checkMu:  &sync.Mutex{},
		alerts:   &sync.WaitGroup{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// WithInjector returns a copy of s that embeds through injector. The copy
// shares the store, notifier and trigger lock with s.
func (s *Service) WithInjector(injector inject.Injector) *Service {
	c := *s
	c.injector = injector
	return &c
}

// Wait blocks until background checks have finished.
func (s *Service) Wait() { s.alerts.Wait() }

// InjectToken embeds value into the file at path and records it. An empty
// value is generated. The file is written before the record is stored.
func (s *Service) InjectToken(ctx context.Context, path, value string) (model.Honeytoken, error) {
	if value == "" {
		v, err := s.gen.Generate()
		if err != nil {
			return model.Honeytoken{}, err
		}
		value = v
	}
	if err := model.ValidateValue(value); err != nil {
		return model.Honeytoken{}, err
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	existing, err := s.store.FindByValue(ctx, value)
	if err != nil {
		return model.Honeytoken{}, err
	}
	if existing != nil {
		return model.Honeytoken{}, model.ValidationError("token value is already tracked by " + existing.ID)
	}

	token, err := model.NewHoneytoken(value, path, s.clock.Now())
	if err != nil {
		return model.Honeytoken{}, err
	}
	if err := s.injector.InjectToken(ctx, path, token); err != nil {
		return model.Honeytoken{}, err
	}
	if err := s.store.Save(ctx, token); err != nil {
		s.log.Error("token injected but not recorded", "path", path, "fingerprint", token.Fingerprint(), "err", err)
		return model.Honeytoken{}, &UntrackedError{Path: path, Value: value, Err: err}
	}
	s.log.Info("token injected", "token_id", token.ID, "path", path)
	return token, nil
}

// CheckToken reports a use of value. A tracked, untriggered token is marked
// triggered and an alert is sent. The result is nil in every case so callers
// cannot tell whether value belongs to a token. With WithAsyncChecks the
// whole check runs in the background and CheckToken returns at once.
func (s *Service) CheckToken(ctx context.Context, value string) error {
	if s.async {
		s.alerts.Add(1)
		go func() {
			defer s.alerts.Done()
			s.check(context.WithoutCancel(ctx), value)
		}()
		return nil
	}
	s.check(ctx, value)
	return nil
}

func (s *Service) check(ctx context.Context, value string) {
	token, fired := s.trigger(ctx, value)
	if !fired || s.notifier == nil {
		return
	}
	s.alert(ctx, token)
}

// trigger performs the find, transition and update step under checkMu so
// concurrent checks of one value fire once.
func (s *Service) trigger(ctx context.Context, value string) (model.Honeytoken, bool) {
	if value == "" {
		return model.Honeytoken{}, false
	}
	s.checkMu.Lock()
	defer s.checkMu.Unlock()

	token, err := s.store.FindByValue(ctx, value)
	if err != nil {
		s.log.Error("token lookup failed", "err", err)
		return model.Honeytoken{}, false
	}
	if token == nil || !token.MarkTriggered(s.clock.Now()) {
		return model.Honeytoken{}, false
	}
	if err := s.store.Update(ctx, *token); err != nil {
		// Alert anyway.
		s.log.Error("failed to persist trigger", "token_id", token.ID, "err", err)
	}
	s.log.Warn("honeytoken triggered", "token_id", token.ID, "path", token.FilePath)
	return *token, true
}

func (s *Service) alert(ctx context.Context, token model.Honeytoken) {
	if err := s.notifier.SendAlert(ctx, token); err != nil {
		s.log.Error("failed to send notification", "token_id", token.ID, "err", err)
	}
}

// ListTokens returns every tracked token ordered by creation time.
func (s *Service) ListTokens(ctx context.Context) ([]model.Honeytoken, error) {
	return s.store.FindAll(ctx)
}

// GetToken returns the token with id or a TokenNotFound error.
func (s *Service) GetToken(ctx context.Context, id string) (model.Honeytoken, error) {
	token, err := s.store.FindByID(ctx, id)
	if err != nil {
		return model.Honeytoken{}, err
	}
	if token == nil {
		return model.Honeytoken{}, model.NotFound(id)
	}
	return *token, nil
}

// VerifyToken reports whether the token's value is still present in its file.
func (s *Service) VerifyToken(ctx context.Context, id string) (model.Honeytoken, bool, error) {
	token, err := s.GetToken(ctx, id)
	if err != nil {
		return model.Honeytoken{}, false, err
	}
	ok, err := s.injector.VerifyInjection(ctx, token.FilePath, token)
	return token, ok, err
}

// RemoveToken scrubs the token's value from its file and deletes the record.
// A file that no longer exists has nothing to scrub and does not block the
// delete. Failures are reported as *RemovalError naming the failed leg.
func (s *Service) RemoveToken(ctx context.Context, id string) error {
	token, err := s.GetToken(ctx, id)
	if err != nil {
		return err
	}

	if err := s.injector.RemoveToken(ctx, token.FilePath, token); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return &RemovalError{Leg: LegFile, TokenID: id, Path: token.FilePath, Err: err}
		}
		s.log.Warn("token file is gone, deleting record only", "token_id", id, "path", token.FilePath)
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return &RemovalError{Leg: LegStore, TokenID: id, Path: token.FilePath, Err: err}
	}
	s.log.Info("token removed", "token_id", id, "path", token.FilePath)
	return nil
}
