// Copyright (c) 2026 ToeiRei
// Redtoken - honeytoken management system
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/toeirei/redtoken/internal/i18n"
	"github.com/toeirei/redtoken/internal/inject"
	"github.com/toeirei/redtoken/internal/logging"
	"github.com/toeirei/redtoken/internal/model"
)

func newInjectCmd(a *app) *cobra.Command {
	var file, value, fileType string
	var copyValue bool
	cmd := &cobra.Command{
		Use:   "inject",
		Short: "Embed a honeytoken into a file",
		Long: `Embeds a honeytoken into the given file and records it.

Without --value a random value is generated from the token settings.
The file type is detected from the file name unless --file-type is set
(env, json, yaml, bash, custom:<name>).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ft := a.fileType(fileType)
			s, err := a.open(cmd.Context(), ft, false)
			if err != nil {
				return err
			}
			defer s.Close()

			token, err := s.svc.InjectToken(cmd.Context(), file, value)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, i18n.T("inject.success", token.ID))
			fmt.Fprintln(out, i18n.T("inject.value", token.Value))
			fmt.Fprintln(out, i18n.T("inject.file", token.FilePath))
			if copyValue {
				if err := a.writeClipboard(token.Value); err != nil {
					logging.Warnf("%s", i18n.T("inject.copy_failed", err))
				} else {
					fmt.Fprintln(out, i18n.T("inject.copied"))
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "file to embed the token into")
	cmd.Flags().StringVar(&value, "value", "", "token value (generated when empty)")
	cmd.Flags().StringVarP(&fileType, "file-type", "t", "", "file type override (env, json, yaml, bash, custom:<name>)")
	cmd.Flags().BoolVar(&copyValue, "copy", false, "copy the token value to the clipboard")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var showValues bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tracked honeytokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd.Context(), a.fileType(""), false)
			if err != nil {
				return err
			}
			defer s.Close()

			tokens, err := s.svc.ListTokens(cmd.Context())
			if err != nil {
				return err
			}
			if len(tokens) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), i18n.T("list.empty"))
				return nil
			}
			renderTokens(cmd.OutOrStdout(), tokens, showValues, a.isTerminal())
			return nil
		},
	}
	cmd.Flags().BoolVar(&showValues, "show-values", false, "print token values instead of fingerprints")
	return cmd
}

func requireID(id string) error {
	if !model.IsValidID(id) {
		return model.ValidationError(i18n.T("error.invalid_id", id))
	}
	return nil
}

func newRemoveCmd(a *app) *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Scrub a honeytoken from its file and forget it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireID(id); err != nil {
				return err
			}
			s, err := a.open(cmd.Context(), a.fileType(""), false)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.svc.RemoveToken(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("remove.success", id))
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "token id")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newCheckCmd(a *app) *cobra.Command {
	var value string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report a use of a value; alerts if it is a tracked token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd.Context(), a.fileType(""), true)
			if err != nil {
				return err
			}
			defer s.Close()

			_ = s.svc.CheckToken(cmd.Context(), value)
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("check.done"))
			return nil
		},
	}
	cmd.Flags().StringVar(&value, "value", "", "value to check")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}

func newVerifyCmd(a *app) *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that a honeytoken is still present in its file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireID(id); err != nil {
				return err
			}
			s, err := a.open(cmd.Context(), a.fileType(""), false)
			if err != nil {
				return err
			}
			defer s.Close()

			token, present, err := s.svc.VerifyToken(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !present {
				return errors.New(i18n.T("verify.missing", token.ID, token.FilePath))
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("verify.present", token.ID, token.FilePath))
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "token id")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newRestoreCmd(a *app) *cobra.Command {
	var backup, file string
	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Restore a file from an injector backup",
		Long: `Writes the content of a backup taken before an injection or removal
back over the target file. Compressed (.zst) backups are decompressed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := inject.RestoreFile(backup, file); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("restore.success", file, backup))
			return nil
		},
	}
	cmd.Flags().StringVar(&backup, "backup", "", "backup file")
	cmd.Flags().StringVarP(&file, "file", "f", "", "file to restore")
	_ = cmd.MarkFlagRequired("backup")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
