package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"schedule-planner/config"
	"schedule-planner/pkg/database"
	applogger "schedule-planner/pkg/logger"
)

func newMigrateCmd() *cobra.Command {
	var (
		configPath string
		down       int
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "执行数据库迁移（--down N 回滚 N 步）",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger, err := applogger.NewLogger(&cfg.Log)
			if err != nil {
				return fmt.Errorf("初始化日志失败: %w", err)
			}
			defer logger.Sync()

			db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
			if err != nil {
				return err
			}
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			if down > 0 {
				return database.RollbackMigrations(sqlDB, down, logger)
			}
			return database.RunMigrations(sqlDB, logger)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "配置文件路径")
	cmd.Flags().IntVar(&down, "down", 0, "回滚步数")
	return cmd
}
