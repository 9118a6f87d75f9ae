// Copyright (c) 2026 ToeiRei
// Redtoken - honeytoken management system
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/toeirei/redtoken/internal/config"
	"github.com/toeirei/redtoken/internal/core"
	"github.com/toeirei/redtoken/internal/i18n"
	"github.com/toeirei/redtoken/internal/model"
	"github.com/toeirei/redtoken/internal/web"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serves the token API until interrupted:

  GET    /health
  GET    /api/tokens
  POST   /api/tokens
  GET    /api/tokens/:id
  DELETE /api/tokens/:id
  GET    /api/check?token=<value>`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !strings.EqualFold(a.cfg.LogLevel, "debug") {
				gin.SetMode(gin.ReleaseMode)
			}

			var opts []core.Option
			if a.cfg.Web.AsyncAlerts {
				opts = append(opts, core.WithAsyncChecks())
			}
			s, err := a.open(ctx, a.fileType(""), true, opts...)
			if err != nil {
				return err
			}
			defer s.Close()

			handler := web.NewHandler(s.svc, func(ft model.FileType) web.Lifecycle {
				return s.svc.WithInjector(s.injector.WithFileType(ft))
			})
			var cert, key string
			if a.cfg.Web.EnableSSL {
				cert, key = a.cfg.Web.CertPath, a.cfg.Web.KeyPath
			}
			srv := web.NewServer(a.cfg.Web.Host, a.cfg.Web.Port, web.NewRouter(handler), cert, key)
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("serve.listening", srv.Addr()))
			return srv.Run(ctx)
		},
	}
	cmd.Flags().Int("port", 8080, "listen port")
	cmd.Flags().String("host", "127.0.0.1", "listen address")
	config.BindFlagKey(cmd.Flags(), "port", "web.port")
	config.BindFlagKey(cmd.Flags(), "host", "web.host")
	return cmd
}
