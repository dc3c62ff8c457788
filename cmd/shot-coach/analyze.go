package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"shot-coach/internal/domain/rules"
)

func newAnalyzeCmd(opts *options) *cobra.Command {
	var shot string

	cmd := &cobra.Command{
		Use:   "analyze <video>",
		Short: "Покадровые замечания по технике удара (JSON)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, c, err := bootstrap(opts)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			report, err := c.AnalysisService.Analyze(cmd.Context(), args[0], shot)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
	cmd.Flags().StringVar(&shot, "shot", rules.ShotServe, "тип удара")
	return cmd
}

func newClassifyCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <video>",
		Short: "Определить тип удара по видео",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, c, err := bootstrap(opts)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			label, err := c.ClassificationService.Classify(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]string{"shot_type": label})
		},
	}
}

func newRulesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Вывести действующий каталог правил (YAML)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, log, c, err := bootstrap(opts)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			return c.Engine.Catalog().WriteYAML(cmd.OutOrStdout())
		},
	}
}
