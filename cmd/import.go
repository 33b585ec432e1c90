package main

import (
	"fmt"

	"github.com/lshigami/litdrill/config"
	"github.com/lshigami/litdrill/database"
	"github.com/lshigami/litdrill/internal/importer"
	"github.com/lshigami/litdrill/internal/repository"
	"github.com/lshigami/litdrill/internal/service"
	"github.com/spf13/cobra"
)

func newImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file> [file...]",
		Short: "Insert questions from YAML or JSON question bank files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			db, err := database.NewDatabase(cfg)
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return err
			}
			scheduler, err := NewLineScheduler(cfg)
			if err != nil {
				return err
			}
			questions := service.NewQuestionService(db, repository.NewQuestionRepository(db), scheduler)

			total := 0
			for _, path := range args {
				n, err := importer.ImportFile(cmd.Context(), questions, path)
				if err != nil {
					return err
				}
				total += n
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d questions from %d file(s)\n", total, len(args))
			return nil
		},
	}
}
