package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/f-sync/followback/internal/exportparser"
	"github.com/f-sync/followback/internal/ingest"
	"github.com/f-sync/followback/internal/relationship"
	"github.com/f-sync/followback/internal/report"
)

const (
	pairingErrorFormat        = "pair export files: %w"
	analyzeErrorFormat        = "analyze: %w"
	encodeErrorFormat         = "render report: %w"
	createFileErrorFormat     = "create %s: %w"
	writeFileErrorFormat      = "write %s: %w"
	writeStdoutErrorFormat    = "write report: %w"
	writeSuccessMessageFormat = "Wrote %s"
	logMessageIgnoredFile     = "ignoring export file with unexpected extension"
	logMessageAnalysisDone    = "analysis complete"
	logFieldFileName          = "file"
	logFieldFollowersFile     = "followers_file"
	logFieldFollowingFile     = "following_file"
	logFieldNotFollowingBack  = "not_following_back"
	logFieldFans              = "fans"
	logFieldMutual            = "mutual"
)

// AnalyzeConfiguration selects the exports to compare and where the report goes.
type AnalyzeConfiguration struct {
	FollowersPath string
	FollowingPath string
	// Paths are paired into followers and following slots when the explicit paths are empty.
	Paths      []string
	Format     exportparser.FormatKind
	Output     report.OutputFormat
	OutputPath string
	// MaxFileBytes bounds each export file; zero or negative disables the limit.
	MaxFileBytes int64
}

type AnalyzeDependencies struct {
	Analyze         func(context.Context, ingest.PairRequest) (relationship.AnalysisResult, error)
	Encode          func(io.Writer, relationship.AnalysisResult, report.OutputFormat) error
	WriteOutputFile func(string, []byte) error
	Logger          *zap.Logger
	Stdout          io.Writer
}

type AnalyzeApplication struct {
	dependencies AnalyzeDependencies
}

func NewAnalyzeApplication() AnalyzeApplication {
	return NewAnalyzeApplicationWithDependencies(newDefaultAnalyzeDependencies())
}

func NewAnalyzeApplicationWithDependencies(dependencies AnalyzeDependencies) AnalyzeApplication {
	defaultDependencies := newDefaultAnalyzeDependencies()

	if dependencies.Analyze == nil {
		dependencies.Analyze = defaultDependencies.Analyze
	}
	if dependencies.Encode == nil {
		dependencies.Encode = defaultDependencies.Encode
	}
	if dependencies.WriteOutputFile == nil {
		dependencies.WriteOutputFile = defaultDependencies.WriteOutputFile
	}
	if dependencies.Logger == nil {
		dependencies.Logger = defaultDependencies.Logger
	}
	if dependencies.Stdout == nil {
		dependencies.Stdout = defaultDependencies.Stdout
	}

	return AnalyzeApplication{dependencies: dependencies}
}

func (application AnalyzeApplication) Run(executionContext context.Context, configuration AnalyzeConfiguration) error {
	request, err := application.pairRequest(configuration)
	if err != nil {
		return err
	}

	result, err := application.dependencies.Analyze(executionContext, request)
	if err != nil {
		return fmt.Errorf(analyzeErrorFormat, err)
	}
	application.dependencies.Logger.Info(logMessageAnalysisDone,
		zap.String(logFieldFollowersFile, request.Followers.Name()),
		zap.String(logFieldFollowingFile, request.Following.Name()),
		zap.Int(logFieldNotFollowingBack, result.Stats.TotalNotFollowingBack),
		zap.Int(logFieldFans, result.Stats.TotalFans),
		zap.Int(logFieldMutual, result.Stats.TotalMutual),
	)

	var rendered bytes.Buffer
	if err := application.dependencies.Encode(&rendered, result, configuration.Output); err != nil {
		return fmt.Errorf(encodeErrorFormat, err)
	}

	if configuration.OutputPath == "" {
		if _, err := application.dependencies.Stdout.Write(rendered.Bytes()); err != nil {
			return fmt.Errorf(writeStdoutErrorFormat, err)
		}
		return nil
	}
	if err := application.dependencies.WriteOutputFile(configuration.OutputPath, rendered.Bytes()); err != nil {
		return err
	}
	fmt.Fprintf(application.dependencies.Stdout, writeSuccessMessageFormat+"\n", configuration.OutputPath)
	return nil
}

func (application AnalyzeApplication) pairRequest(configuration AnalyzeConfiguration) (ingest.PairRequest, error) {
	request := ingest.PairRequest{
		Format:          configuration.Format,
		Diagnostics:     exportparser.NewZapDiagnosticSink(application.dependencies.Logger),
		MaxPayloadBytes: configuration.MaxFileBytes,
	}
	if configuration.FollowersPath != "" && configuration.FollowingPath != "" {
		request.Followers = ingest.FileSource(configuration.FollowersPath)
		request.Following = ingest.FileSource(configuration.FollowingPath)
		return request, nil
	}

	sources := make([]ingest.Source, 0, len(configuration.Paths))
	for _, path := range configuration.Paths {
		sources = append(sources, ingest.FileSource(path))
	}
	assignment, err := ingest.AssignSlots(sources, configuration.Format)
	if err != nil {
		return ingest.PairRequest{}, fmt.Errorf(pairingErrorFormat, err)
	}
	for _, ignoredName := range assignment.Ignored {
		application.dependencies.Logger.Warn(logMessageIgnoredFile, zap.String(logFieldFileName, ignoredName))
	}
	request.Followers = assignment.Followers
	request.Following = assignment.Following
	return request, nil
}

func newDefaultAnalyzeDependencies() AnalyzeDependencies {
	return AnalyzeDependencies{
		Analyze:         ingest.Analyze,
		Encode:          report.Encode,
		WriteOutputFile: defaultWriteOutputFile,
		Logger:          zap.NewNop(),
		Stdout:          os.Stdout,
	}
}

func defaultWriteOutputFile(outputPath string, contents []byte) error {
	file, createError := os.Create(outputPath)
	if createError != nil {
		return fmt.Errorf(createFileErrorFormat, outputPath, createError)
	}
	defer file.Close()

	if _, writeError := file.Write(contents); writeError != nil {
		return fmt.Errorf(writeFileErrorFormat, outputPath, writeError)
	}
	return nil
}
