package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/formulador-mga/mga-cli/internal/extract"
	"github.com/formulador-mga/mga-cli/internal/model"
	"github.com/formulador-mga/mga-cli/pkg/anthropic"
)

var (
	extractDocType     string
	extractUserContext string
	extractUseAI       bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract project fields from a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return eris.Wrap(err, "extract: read input")
		}

		var client anthropic.Client
		if extractUseAI {
			if cfg.Anthropic.Key == "" {
				return eris.New("--ai requires anthropic.key to be configured")
			}
			client = anthropic.NewClient(cfg.Anthropic.Key)
		}

		coord := extract.NewCoordinator(cfg.Extract, cfg.Anthropic, client)
		fields := coord.ExtractFromUpload(cmd.Context(), model.RawDocument{
			Filename: args[0],
			Content:  content,
			DocType:  model.DocType(extractDocType),
		}, extractUserContext)

		out, err := json.MarshalIndent(fields, "", "  ")
		if err != nil {
			return eris.Wrap(err, "extract: marshal result")
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractDocType, "doc-type", string(model.DocMGASubsidios), "target document type for the keyword table")
	extractCmd.Flags().StringVar(&extractUserContext, "user-context", "", "free-text hint attached to the result")
	extractCmd.Flags().BoolVar(&extractUseAI, "ai", false, "use the AI-assisted extraction path")
	rootCmd.AddCommand(extractCmd)
}
