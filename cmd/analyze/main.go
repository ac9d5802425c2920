package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/f-sync/followback/internal/exportparser"
	"github.com/f-sync/followback/internal/report"
)

const (
	commandUse                   = "analyze [export files...]"
	commandShortDescription      = "Compare followers and following exports"
	commandLongDescription       = "Compare a followers export with a following export and report who does not follow back, who is a fan and who is mutual. Files may be given with --followers and --following or as arguments paired by name."
	envPrefix                    = "FOLLOWBACK_ANALYZE"
	flagFollowersName            = "followers"
	flagFollowersDescription     = "Path to the followers export"
	flagFollowingName            = "following"
	flagFollowingDescription     = "Path to the following export"
	flagFormatName               = "format"
	flagFormatDescription        = "Export format: json or html"
	flagOutputName               = "output"
	flagOutputDescription        = "Report format: text, json, yaml or html"
	flagOutName                  = "out"
	flagOutDescription           = "Write the report to this file instead of stdout"
	flagMaxFileBytesName         = "max-file-bytes"
	flagMaxFileBytesDescription  = "Maximum size in bytes of each export file, 0 for no limit"
	flagVerboseName              = "verbose"
	flagVerboseDescription       = "Log normalization diagnostics"
	defaultExportFormat          = "json"
	defaultOutputFormat          = "text"
	defaultMaxFileBytes          = 64 << 20
	errMessageLoggerCreate       = "create logger"
	errMessageExportFormat       = "export format"
	errMessageOutputFormat       = "output format"
	errMessageConflictingSources = "use either --followers/--following or file arguments, not both"
	errMessageMissingExportFiles = "provide --followers and --following or two export files"
)

func main() {
	cobra.CheckErr(newAnalyzeCommand().Execute())
}

func newAnalyzeCommand() *cobra.Command {
	command := &cobra.Command{
		Use:          commandUse,
		Short:        commandShortDescription,
		Long:         commandLongDescription,
		RunE:         runAnalyzeCommand,
		SilenceUsage: true,
	}

	command.Flags().String(flagFollowersName, "", flagFollowersDescription)
	command.Flags().String(flagFollowingName, "", flagFollowingDescription)
	command.Flags().String(flagFormatName, defaultExportFormat, flagFormatDescription)
	command.Flags().String(flagOutputName, defaultOutputFormat, flagOutputDescription)
	command.Flags().String(flagOutName, "", flagOutDescription)
	command.Flags().Int64(flagMaxFileBytesName, defaultMaxFileBytes, flagMaxFileBytesDescription)
	command.Flags().Bool(flagVerboseName, false, flagVerboseDescription)

	for _, flagName := range []string{flagFollowersName, flagFollowingName, flagFormatName, flagOutputName, flagOutName, flagMaxFileBytesName, flagVerboseName} {
		bindFlagToViper(command, flagName)
	}

	cobra.OnInitialize(configureEnvironment)

	return command
}

func bindFlagToViper(command *cobra.Command, flagName string) {
	cobra.CheckErr(viper.BindPFlag(flagName, command.Flags().Lookup(flagName)))
}

func configureEnvironment() {
	_ = godotenv.Load()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func runAnalyzeCommand(command *cobra.Command, arguments []string) error {
	configuration, err := buildAnalyzeConfiguration(
		viper.GetString(flagFollowersName),
		viper.GetString(flagFollowingName),
		arguments,
		viper.GetString(flagFormatName),
		viper.GetString(flagOutputName),
		viper.GetString(flagOutName),
		viper.GetInt64(flagMaxFileBytesName),
	)
	if err != nil {
		return err
	}

	logger, err := newLogger(viper.GetBool(flagVerboseName))
	if err != nil {
		return fmt.Errorf("%s: %w", errMessageLoggerCreate, err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	application := NewAnalyzeApplicationWithDependencies(AnalyzeDependencies{
		Logger: logger,
		Stdout: command.OutOrStdout(),
	})
	return application.Run(command.Context(), configuration)
}

// newLogger writes production JSON logs at warn level unless verbose diagnostics are requested.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	productionConfig := zap.NewProductionConfig()
	productionConfig.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return productionConfig.Build()
}

func buildAnalyzeConfiguration(followersPath string, followingPath string, paths []string, exportFormat string, outputFormat string, outputPath string, maxFileBytes int64) (AnalyzeConfiguration, error) {
	trimmedFollowersPath := strings.TrimSpace(followersPath)
	trimmedFollowingPath := strings.TrimSpace(followingPath)
	explicitPair := trimmedFollowersPath != "" || trimmedFollowingPath != ""
	if explicitPair && len(paths) > 0 {
		return AnalyzeConfiguration{}, errors.New(errMessageConflictingSources)
	}
	if explicitPair && (trimmedFollowersPath == "" || trimmedFollowingPath == "") {
		return AnalyzeConfiguration{}, errors.New(errMessageMissingExportFiles)
	}
	if !explicitPair && len(paths) == 0 {
		return AnalyzeConfiguration{}, errors.New(errMessageMissingExportFiles)
	}

	format, err := exportparser.ParseFormatKind(exportFormat)
	if err != nil {
		return AnalyzeConfiguration{}, fmt.Errorf("%s: %w", errMessageExportFormat, err)
	}
	output, err := report.ParseOutputFormat(outputFormat)
	if err != nil {
		return AnalyzeConfiguration{}, fmt.Errorf("%s: %w", errMessageOutputFormat, err)
	}

	return AnalyzeConfiguration{
		FollowersPath: trimmedFollowersPath,
		FollowingPath: trimmedFollowingPath,
		Paths:         paths,
		Format:        format,
		Output:        output,
		OutputPath:    strings.TrimSpace(outputPath),
		MaxFileBytes:  maxFileBytes,
	}, nil
}
