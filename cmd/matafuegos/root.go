package main

import (
	"fmt"

	"github.com/davicafu/matafuegos/internal/config"
	"github.com/davicafu/matafuegos/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// runtime reúne lo que PersistentPreRunE deja listo para los subcomandos.
type runtime struct {
	cfgFile string
	cfg     *config.Config
	log     *zap.Logger
}

func newRootCmd() *cobra.Command {
	rt := &runtime{}

	root := &cobra.Command{
		Use:   "matafuegos",
		Short: "Backend de servicio técnico de extintores",
		Long: `matafuegos expone la API REST de clientes, sucursales, extintores,
usuarios y tareas, con tablas filtrables, exportación CSV/XLSX,
avisos de vencimiento programados y reportes.

La configuración se lee de .env, de un archivo opcional (--config)
y de variables de entorno, en ese orden de prioridad creciente.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(rt.cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			log, err := logger.New(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile})
			if err != nil {
				return fmt.Errorf("failed to build logger: %w", err)
			}
			rt.cfg, rt.log = cfg, log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if rt.log != nil {
				_ = rt.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&rt.cfgFile, "config", "", "archivo de configuración (yaml, json, toml o env)")
	root.AddCommand(newServeCmd(rt), newExportCmd(rt))
	return root
}
