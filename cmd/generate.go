package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/formulador-mga/mga-cli/internal/extract"
	"github.com/formulador-mga/mga-cli/internal/generate"
	"github.com/formulador-mga/mga-cli/internal/model"
	"github.com/formulador-mga/mga-cli/pkg/anthropic"
)

var (
	generateFieldsPath  string
	generateFromFiles   []string
	generateModel       string
	generateUserContext string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the five MGA supporting documents from a field set",
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := loadFields(cmd)
		if err != nil {
			return err
		}

		modelName := generateModel
		if modelName == "" {
			modelName = cfg.Anthropic.Model
		}

		resolver := func(string) (anthropic.Client, error) {
			if cfg.Anthropic.Key == "" {
				return nil, eris.New("anthropic.key is not configured")
			}
			return anthropic.NewClient(cfg.Anthropic.Key), nil
		}

		orch := generate.NewOrchestrator(cfg.Generate, cfg.Anthropic, resolver)
		result := orch.GenerateAll(cmd.Context(), fields, modelName)

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return eris.Wrap(err, "generate: marshal result")
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))

		if !result.OverallSuccess {
			return eris.New("no document was generated")
		}
		return nil
	},
}

// loadFields reads the field map either from a JSON file or by extracting
// from a source document.
func loadFields(cmd *cobra.Command) (model.FieldMap, error) {
	switch {
	case generateFieldsPath != "":
		data, err := os.ReadFile(generateFieldsPath)
		if err != nil {
			return nil, eris.Wrap(err, "generate: read fields file")
		}
		var fields model.FieldMap
		if err := json.Unmarshal(data, &fields); err != nil {
			return nil, eris.Wrap(err, "generate: parse fields file")
		}
		return fields, nil

	case len(generateFromFiles) > 0:
		var client anthropic.Client
		if cfg.Anthropic.Key != "" {
			client = anthropic.NewClient(cfg.Anthropic.Key)
		}
		coord := extract.NewCoordinator(cfg.Extract, cfg.Anthropic, client)

		// Each upload is cached per doc type; the snapshot folds them into
		// one map, earlier doc types winning on collisions.
		sess := extract.NewSession()
		for _, src := range generateFromFiles {
			docType, path := parseSource(src)
			content, err := os.ReadFile(path)
			if err != nil {
				return nil, eris.Wrapf(err, "generate: read source document %s", path)
			}
			fields := coord.ExtractFromUpload(cmd.Context(), model.RawDocument{
				Filename: path,
				Content:  content,
				DocType:  docType,
			}, generateUserContext)
			sess.Put(docType, fields, false)
		}
		return sess.Snapshot(), nil

	default:
		return nil, eris.New("one of --fields or --from is required")
	}
}

// parseSource splits an optional "<doctype>=" prefix off a --from value.
// Unprefixed sources default to mga_subsidios.
func parseSource(src string) (model.DocType, string) {
	if name, path, ok := strings.Cut(src, "="); ok {
		for _, dt := range model.AllDocTypes() {
			if model.DocType(name) == dt {
				return dt, path
			}
		}
	}
	return model.DocMGASubsidios, src
}

func init() {
	generateCmd.Flags().StringVar(&generateFieldsPath, "fields", "", "path to a JSON field map")
	generateCmd.Flags().StringArrayVar(&generateFromFiles, "from", nil, "source document to extract fields from, optionally prefixed <doctype>= (repeatable)")
	generateCmd.Flags().StringVar(&generateModel, "model", "", "model name (defaults to anthropic.model)")
	generateCmd.Flags().StringVar(&generateUserContext, "user-context", "", "free-text hint passed to extraction")
	rootCmd.AddCommand(generateCmd)
}
