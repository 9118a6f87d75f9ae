// Copyright (c) 2026 ToeiRei
// Redtoken - honeytoken management system
// This source code is licensed under the MIT license found in the LICENSE file.

// Package inject embeds honeytoken values into files and scrubs them out
// again. Every mutation is preceded by a backup of the unmodified file when
// backups are enabled, and a failed backup aborts the mutation.
package inject

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"strings"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/toeirei/redtoken/internal/logging"
	"github.com/toeirei/redtoken/internal/model"
)

// RedactionMarker replaces every occurrence of a removed token value.
const RedactionMarker = "[REDACTED]"

// DefaultEnvMarker is the comment line written above injected env variables.
const DefaultEnvMarker = "# Added by RedToken"

// ErrMissingPattern is returned when a custom file kind is injected without
// an injection pattern.
var ErrMissingPattern = &model.Error{Kind: model.KindTokenValidation, Msg: "custom file type requires an injection pattern"}

// Injector embeds, verifies and scrubs token values in files.
type Injector interface {
	InjectToken(ctx context.Context, path string, token model.Honeytoken) error
	VerifyInjection(ctx context.Context, path string, token model.Honeytoken) (bool, error)
	RemoveToken(ctx context.Context, path string, token model.Honeytoken) error
}

// Config controls how the Service embeds tokens.
type Config struct {
	// FileType selects the embedding strategy. FileTypeAuto detects it from
	// the target path on every call.
	FileType       model.FileType
	BackupEnabled  bool
	BackupDir      string
	BackupCompress bool
	// Pattern drives custom kinds. It must contain {{token}} and may contain
	// {{name}}.
	Pattern   string
	EnvMarker string
	// Now overrides the clock used for backup names.
	Now func() time.Time
}

// Service is the file injector.
type Service struct {
	cfg Config
	log *clog.Logger
}

// New returns a Service for cfg, filling defaults.
func New(cfg Config) *Service {
	if cfg.BackupDir == "" {
		cfg.BackupDir = "backups"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Service{cfg: cfg, log: logging.With("component", "injector")}
}

// WithFileType returns a copy of s that uses ft instead of the configured kind.
func (s *Service) WithFileType(ft model.FileType) *Service {
	c := *s
	c.cfg.FileType = ft
	return &c
}

// FileType returns the configured kind.
func (s *Service) FileType() model.FileType { return s.cfg.FileType }

// resolve picks the kind used for path.
func (s *Service) resolve(path string) model.FileType {
	if s.cfg.FileType.Kind == model.FileKindAuto {
		return model.DetectFileType(path)
	}
	return s.cfg.FileType
}

// InjectToken embeds token.Value into the file at path.
func (s *Service) InjectToken(_ context.Context, path string, token model.Honeytoken) error {
	if err := model.ValidateValue(token.Value); err != nil {
		return err
	}
	ft := s.resolve(path)

	var embed func(data []byte, value string) ([]byte, error)
	allowMissing := false
	switch ft.Kind {
	case model.FileKindEnv:
		embed, allowMissing = s.embedEnv, true
	case model.FileKindJSON:
		embed = embedJSON
	case model.FileKindYAML:
		embed = embedYAML
	case model.FileKindBashHistory:
		embed, allowMissing = embedBashHistory, true
	case model.FileKindCustom:
		if strings.TrimSpace(s.cfg.Pattern) == "" {
			return ErrMissingPattern
		}
		if !strings.Contains(s.cfg.Pattern, placeholderToken) {
			return model.ValidationError("injection pattern must contain " + placeholderToken)
		}
		embed, allowMissing = s.embedCustom, true
	default:
		return model.ValidationError("unsupported file type " + ft.String())
	}

	data, mode, err := readTarget(path)
	exists := err == nil
	if err != nil {
		if !allowMissing || !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		// Append-style kinds create the file.
		data, mode = nil, 0
	}

	out, err := embed(data, token.Value)
	if err != nil {
		return err
	}
	// Verify and remove match the raw value, so an escaped rendering would
	// leave a token that can never be scrubbed.
	if raw := []byte(token.Value); bytes.Count(out, raw) <= bytes.Count(data, raw) {
		return model.ValidationError("token value cannot be stored verbatim in a " + ft.String() + " file")
	}
	if exists {
		if err := s.backup(path, data); err != nil {
			return err
		}
	}
	if err := writeTarget(path, out, mode); err != nil {
		return err
	}
	s.log.Info("injected token", "kind", ft.String(), "path", path, "token_id", token.ID, "fingerprint", token.Fingerprint())
	return nil
}

// VerifyInjection reports whether the file currently contains token.Value.
// A missing file reports false.
func (s *Service) VerifyInjection(_ context.Context, path string, token model.Honeytoken) (bool, error) {
	data, _, err := readTarget(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return token.Value != "" && strings.Contains(string(data), token.Value), nil
}

// RemoveToken replaces every occurrence of token.Value with RedactionMarker.
// Structured documents are not re-parsed; the scrub is textual.
func (s *Service) RemoveToken(_ context.Context, path string, token model.Honeytoken) error {
	if token.Value == "" {
		return model.ValidationError("token value must not be empty")
	}
	data, mode, err := readTarget(path)
	if err != nil {
		return err
	}
	content := string(data)
	n := strings.Count(content, token.Value)
	if n == 0 {
		s.log.Warn("token value not present, nothing to scrub", "path", path, "token_id", token.ID)
		return nil
	}
	if err := s.backup(path, data); err != nil {
		return err
	}
	scrubbed := strings.ReplaceAll(content, token.Value, RedactionMarker)
	if err := writeTarget(path, []byte(scrubbed), mode); err != nil {
		return err
	}
	s.log.Info("removed token", "path", path, "token_id", token.ID, "occurrences", n)
	return nil
}

var _ Injector = (*Service)(nil)
