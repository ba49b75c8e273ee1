package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/imishinist/crossval-cli/internal/config"
	"github.com/imishinist/crossval-cli/internal/crossval"
	"github.com/imishinist/crossval-cli/internal/parser"
	"github.com/imishinist/crossval-cli/internal/platform"
)

var crossvalidateCmd = &cobra.Command{
	Use:   "crossvalidate",
	Short: "Run k-fold cross-validation on a dataset",
	Long: `Run k-fold cross-validation on a dataset. Creates k fold datasets,
trains one predictor per fold complement, evaluates each against its
held-out fold, and prints the id of the aggregated evaluation.`,
	RunE: crossvalidate,
}

func init() {
	rootCmd.AddCommand(crossvalidateCmd)

	crossvalidateCmd.Flags().String("dataset", "", "Source dataset id, e.g. dataset/5f3a9c0e1d2b4e7f8a0b1c2d (required)")
	crossvalidateCmd.Flags().String("folds", "5", "Number of folds k (at least 2)")
	crossvalidateCmd.Flags().String("objective", "", "Objective field id (default: the dataset's declared objective)")
	crossvalidateCmd.Flags().String("model-options", "", "Load model/ensemble options from file (JSON/YAML)")
	crossvalidateCmd.Flags().String("evaluation-options", "", "Load evaluation options from file (JSON/YAML)")
	crossvalidateCmd.Flags().Bool("cleanup-on-failure", false, "Delete created resources if the run fails")
	crossvalidateCmd.Flags().Duration("wait-timeout", 0, "Bound the whole run (0 = wait forever)")
	crossvalidateCmd.MarkFlagRequired("dataset")

	viper.BindPFlag("cleanup_on_failure", crossvalidateCmd.Flags().Lookup("cleanup-on-failure"))
	viper.BindPFlag("wait_timeout", crossvalidateCmd.Flags().Lookup("wait-timeout"))
}

func crossvalidate(cmd *cobra.Command, args []string) error {
	cfg := config.New()
	client, err := platform.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create platform client: %w", err)
	}

	params, err := buildParams(cmd)
	if err != nil {
		return err
	}

	engine := crossval.New(client, crossval.Options{
		Logger:           logger,
		WaitTimeout:      cfg.WaitTimeout,
		CleanupOnFailure: cfg.CleanupOnFailure,
	})

	ctx := context.Background()
	aggregateID, err := engine.Run(ctx, params)
	if err != nil {
		return err
	}

	// Output only the aggregate evaluation id for shell scripting
	fmt.Printf("%s\n", aggregateID)

	return nil
}

// buildParams constructs the run parameters from command flags
func buildParams(cmd *cobra.Command) (crossval.Params, error) {
	// Parse flags
	dataset, _ := cmd.Flags().GetString("dataset")
	foldsFlag, _ := cmd.Flags().GetString("folds")
	objective, _ := cmd.Flags().GetString("objective")
	modelOptionsFile, _ := cmd.Flags().GetString("model-options")
	evaluationOptionsFile, _ := cmd.Flags().GetString("evaluation-options")

	folds, err := parseFolds(foldsFlag)
	if err != nil {
		return crossval.Params{}, err
	}

	modelOptions, err := loadOptionsFile(modelOptionsFile)
	if err != nil {
		return crossval.Params{}, err
	}
	evaluationOptions, err := loadOptionsFile(evaluationOptionsFile)
	if err != nil {
		return crossval.Params{}, err
	}

	return crossval.Params{
		Dataset:           dataset,
		Folds:             folds,
		ObjectiveField:    objective,
		ModelOptions:      modelOptions,
		EvaluationOptions: evaluationOptions,
	}, nil
}

// parseFolds turns the --folds flag into a validated fold count. A
// non-numeric value keeps the validator's non-integer error code.
func parseFolds(flag string) (int, error) {
	k, err := strconv.Atoi(flag)
	if err != nil {
		_, verr := crossval.ParseFoldCount(flag)
		return 0, verr
	}
	return crossval.ParseFoldCount(k)
}

// loadOptionsFile reads an option map from a JSON or YAML file,
// dispatched by extension. An empty path yields no options.
func loadOptionsFile(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	var options map[string]any
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".json":
		options, err = parser.ParseJSONOptions(file)
	case ".yaml", ".yml":
		options, err = parser.ParseYAMLOptions(file)
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: .json, .yaml, .yml)", ext)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to parse options file %s: %w", path, err)
	}
	return options, nil
}
