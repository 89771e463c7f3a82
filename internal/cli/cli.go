// Package cli provides the command line interface.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/ctxpack/internal/config"
	"github.com/temirov/ctxpack/internal/pack"
	"github.com/temirov/ctxpack/internal/redact"
	"github.com/temirov/ctxpack/internal/services/clipboard"
	"github.com/temirov/ctxpack/internal/tokenizer"
	"github.com/temirov/ctxpack/internal/types"
	"github.com/temirov/ctxpack/internal/utils"
)

const (
	versionFlagName      = "version"
	configFlagName       = "config"
	outParentFlagName    = "out-parent"
	projectNameFlagName  = "project-name"
	maxBytesFlagName     = "max-bytes"
	includeExtsFlagName  = "include-exts"
	forceIncludeFlagName = "force-include"
	tokensFlagName       = "tokens"
	modelFlagName        = "model"
	copyFlagName         = "copy"
	mirrorOutFlagName    = "mirror-out"

	versionTemplate      = "ctxpack version: %s\n"
	defaultRootArgument  = "."
	defaultOutParent     = "projects_context"
	defaultTokenizerName = "gpt-4o"

	rootUse              = "ctxpack"
	rootShortDescription = "ctxpack bundles a project into an LLM-ready context pack"
	rootLongDescription  = `ctxpack walks a project tree, filters it through .gptignore patterns,
and assembles one Markdown context document together with UTF-8-safe chunks,
a manifest, and a zip archive. The redact subcommand rewrites common secret
assignments to placeholders, in place or into a sanitized mirror copy.`

	packUse              = "pack [root]"
	packShortDescription = "build a context pack for a project root"
	packLongDescription  = `Build a context pack for the given project root (default ".").
The pack directory is created under --out-parent and contains the assembled
document, chunks/ split at --max-bytes, manifest.json, and a zip archive.`
	packUsageExample = `  # Pack the current project with defaults
  ctxpack pack

  # Pack with token counting and a custom chunk ceiling
  ctxpack pack ./service --tokens --max-bytes 4000000`

	redactUse              = "redact [root]"
	redactShortDescription = "replace secret values in text files with placeholders"
	redactLongDescription  = `Rewrite common secret assignments (api keys, tokens, passwords) to
<REDACTED> placeholders in text files under the given root. Without
--mirror-out the files are rewritten in place; with it the root is copied
into a fresh destination and only the copy is sanitized.`
	redactUsageExample = `  # Sanitize a checkout in place
  ctxpack redact ./snapshot

  # Write a sanitized copy, leaving the source untouched
  ctxpack redact ./service --mirror-out ./service_clean`

	versionFlagDescription      = "display application version"
	configFlagDescription       = "path to a configuration file"
	outParentFlagDescription    = "parent directory for the pack output"
	projectNameFlagDescription  = "project name override for output paths"
	maxBytesFlagDescription     = "chunk size ceiling in bytes"
	includeExtsFlagDescription  = "file extensions to include (repeatable, comma separated)"
	forceIncludeFlagDescription = "path prefixes included regardless of extension (repeatable, comma separated)"
	tokensFlagDescription       = "record a document token count in the manifest"
	modelFlagDescription        = "tokenizer model to use for token counting"
	copyFlagDescription         = "copy the assembled document to the clipboard"
	mirrorOutFlagDescription    = "write a sanitized copy to this directory instead of rewriting in place"

	errorAbsolutePathFormat     = "abs failed for '%s': %w"
	errorRootMissingFormat      = "root '%s' does not exist"
	errorRootNotDirectoryFormat = "root '%s' is not a directory"
	errorStatFormat             = "stat failed for '%s': %w"
	errorMirrorDestinationWrap  = "mirror into '%s': %w"

	warningTokenizerInitFormat = "Warning: token counting disabled: %v\n"
	warningClipboardFormat     = "Warning: failed to copy document to clipboard: %v\n"

	packedSummaryFormat    = "Packed %d files from %s\n"
	documentSummaryFormat  = "Document: %s (%s)\n"
	chunksSummaryFormat    = "Chunks: %d under %s\n"
	manifestSummaryFormat  = "Manifest: %s\n"
	archiveSummaryFormat   = "Archive: %s\n"
	tokensSummaryFormat    = "Tokens: %d (%s)\n"
	clipboardCopiedMessage = "Copied document to clipboard"
	redactedSummaryFormat  = "Redacted %d files under %s\n"
	mirroredSummaryFormat  = "Sanitized copy written to %s\n"
)

// Execute runs the ctxpack application.
func Execute() error {
	rootCommand := createRootCommand()
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand() *cobra.Command {
	var showVersion bool
	var configFilePath string

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(ExitCodeSuccess)
			}
		},
	}
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.PersistentFlags().StringVar(&configFilePath, configFlagName, "", configFlagDescription)
	rootCommand.AddCommand(
		createPackCommand(&configFilePath),
		createRedactCommand(&configFilePath),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// packOptions stores flag values for the pack command.
type packOptions struct {
	outParent            string
	projectName          string
	maxBytes             int
	includeExtensions    []string
	forceIncludePrefixes []string
	tokensEnabled        bool
	tokenizerModel       string
	clipboardEnabled     bool
}

// createPackCommand returns the pack subcommand.
func createPackCommand(configFilePath *string) *cobra.Command {
	var options packOptions

	packCommand := &cobra.Command{
		Use:     packUse,
		Short:   packShortDescription,
		Long:    packLongDescription,
		Example: packUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			rootArgument := defaultRootArgument
			if len(arguments) == 1 {
				rootArgument = arguments[0]
			}
			return runPack(command, rootArgument, options, *configFilePath)
		},
	}

	packCommand.Flags().StringVar(&options.outParent, outParentFlagName, defaultOutParent, outParentFlagDescription)
	packCommand.Flags().StringVar(&options.projectName, projectNameFlagName, "", projectNameFlagDescription)
	packCommand.Flags().IntVar(&options.maxBytes, maxBytesFlagName, pack.DefaultMaxBytesPerChunk, maxBytesFlagDescription)
	packCommand.Flags().StringArrayVar(&options.includeExtensions, includeExtsFlagName, nil, includeExtsFlagDescription)
	packCommand.Flags().StringArrayVar(&options.forceIncludePrefixes, forceIncludeFlagName, nil, forceIncludeFlagDescription)
	registerBooleanFlag(packCommand.Flags(), &options.tokensEnabled, tokensFlagName, false, tokensFlagDescription)
	packCommand.Flags().StringVar(&options.tokenizerModel, modelFlagName, defaultTokenizerName, modelFlagDescription)
	registerBooleanFlag(packCommand.Flags(), &options.clipboardEnabled, copyFlagName, false, copyFlagDescription)
	return packCommand
}

// createRedactCommand returns the redact subcommand.
func createRedactCommand(configFilePath *string) *cobra.Command {
	var mirrorDestination string

	redactCommand := &cobra.Command{
		Use:     redactUse,
		Short:   redactShortDescription,
		Long:    redactLongDescription,
		Example: redactUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			rootArgument := defaultRootArgument
			if len(arguments) == 1 {
				rootArgument = arguments[0]
			}
			return runRedact(command, rootArgument, mirrorDestination, *configFilePath)
		},
	}

	redactCommand.Flags().StringVar(&mirrorDestination, mirrorOutFlagName, "", mirrorOutFlagDescription)
	return redactCommand
}

// runPack validates the root, overlays configuration defaults, and executes
// the pack pipeline.
func runPack(command *cobra.Command, rootArgument string, options packOptions, configFilePath string) error {
	validatedRoot, rootError := resolveRoot(rootArgument)
	if rootError != nil {
		return rootError
	}

	applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{ExplicitFilePath: configFilePath})
	if configurationError != nil {
		return configurationError
	}
	applyPackConfiguration(command, &options, applicationConfiguration.Pack)

	buildOptions := pack.Options{
		Root:                 validatedRoot.AbsolutePath,
		ProjectName:          options.projectName,
		OutParent:            options.outParent,
		MaxBytes:             options.maxBytes,
		IncludeExtensions:    config.NormalizeExtensions(splitListValues(options.includeExtensions)),
		ForceIncludePrefixes: splitListValues(options.forceIncludePrefixes),
	}

	if options.tokensEnabled {
		tokenCounter, resolvedModelName, tokenizerError := tokenizer.NewCounter(tokenizer.Config{Model: options.tokenizerModel})
		if tokenizerError != nil {
			fmt.Fprintf(os.Stderr, warningTokenizerInitFormat, tokenizerError)
		} else {
			buildOptions.TokenCounter = tokenCounter
			buildOptions.TokenModel = resolvedModelName
		}
	}

	result, buildError := pack.Build(buildOptions)
	if buildError != nil {
		return buildError
	}

	fmt.Printf(packedSummaryFormat, result.Manifest.NumFilesIncluded, validatedRoot.AbsolutePath)
	fmt.Printf(documentSummaryFormat, result.DocumentPath, utils.FormatFileSize(int64(result.Manifest.TotalBytes)))
	fmt.Printf(chunksSummaryFormat, result.Manifest.NumChunks, result.ChunksDir)
	fmt.Printf(manifestSummaryFormat, result.ManifestPath)
	fmt.Printf(archiveSummaryFormat, result.ArchivePath)
	if result.Manifest.DocumentTokens > 0 {
		fmt.Printf(tokensSummaryFormat, result.Manifest.DocumentTokens, result.Manifest.TokenizerModel)
	}

	if options.clipboardEnabled {
		copyDocumentToClipboard(result.DocumentPath)
	}
	return nil
}

// runRedact validates the root and redacts in place or into a mirror copy.
func runRedact(command *cobra.Command, rootArgument string, mirrorDestination string, configFilePath string) error {
	validatedRoot, rootError := resolveRoot(rootArgument)
	if rootError != nil {
		return rootError
	}

	applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{ExplicitFilePath: configFilePath})
	if configurationError != nil {
		return configurationError
	}
	if !command.Flags().Changed(mirrorOutFlagName) && applicationConfiguration.Redact.MirrorOut != "" {
		mirrorDestination = applicationConfiguration.Redact.MirrorOut
	}

	if mirrorDestination != "" {
		if mirrorError := redact.Mirror(validatedRoot.AbsolutePath, mirrorDestination); mirrorError != nil {
			if errors.Is(mirrorError, redact.ErrDestinationNotEmpty) {
				return &ExitCodeError{Code: ExitCodeDestinationNotEmpty, Err: fmt.Errorf(errorMirrorDestinationWrap, mirrorDestination, mirrorError)}
			}
			return mirrorError
		}
		fmt.Printf(mirroredSummaryFormat, mirrorDestination)
		return nil
	}

	report, redactError := redact.InPlace(validatedRoot.AbsolutePath)
	if redactError != nil {
		return redactError
	}
	fmt.Printf(redactedSummaryFormat, report.FilesChanged, validatedRoot.AbsolutePath)
	return nil
}

// applyPackConfiguration fills pack options the user did not set on the
// command line from the loaded configuration.
func applyPackConfiguration(command *cobra.Command, options *packOptions, configuration config.PackConfiguration) {
	flagSet := command.Flags()
	if !flagSet.Changed(outParentFlagName) && configuration.OutParent != "" {
		options.outParent = configuration.OutParent
	}
	if !flagSet.Changed(maxBytesFlagName) && configuration.MaxBytes != nil {
		options.maxBytes = *configuration.MaxBytes
	}
	if !flagSet.Changed(includeExtsFlagName) && len(configuration.IncludeExtensions) > 0 {
		options.includeExtensions = configuration.IncludeExtensions
	}
	if !flagSet.Changed(forceIncludeFlagName) && len(configuration.ForceInclude) > 0 {
		options.forceIncludePrefixes = configuration.ForceInclude
	}
	if !flagSet.Changed(tokensFlagName) && configuration.Tokens.Enabled != nil {
		options.tokensEnabled = *configuration.Tokens.Enabled
	}
	if !flagSet.Changed(modelFlagName) && configuration.Tokens.Model != "" {
		options.tokenizerModel = configuration.Tokens.Model
	}
	if !flagSet.Changed(copyFlagName) && configuration.Clipboard != nil {
		options.clipboardEnabled = *configuration.Clipboard
	}
}

// resolveRoot turns a root argument into a validated absolute directory path.
// A missing or non-directory root maps to the missing-root exit code.
func resolveRoot(rootArgument string) (types.ValidatedRoot, error) {
	absolutePath, absError := filepath.Abs(rootArgument)
	if absError != nil {
		return types.ValidatedRoot{}, fmt.Errorf(errorAbsolutePathFormat, rootArgument, absError)
	}
	rootInfo, statError := os.Stat(absolutePath)
	if statError != nil {
		if os.IsNotExist(statError) {
			return types.ValidatedRoot{}, &ExitCodeError{Code: ExitCodeMissingRoot, Err: fmt.Errorf(errorRootMissingFormat, rootArgument)}
		}
		return types.ValidatedRoot{}, fmt.Errorf(errorStatFormat, rootArgument, statError)
	}
	if !rootInfo.IsDir() {
		return types.ValidatedRoot{}, &ExitCodeError{Code: ExitCodeMissingRoot, Err: fmt.Errorf(errorRootNotDirectoryFormat, rootArgument)}
	}
	return types.ValidatedRoot{AbsolutePath: absolutePath, Name: filepath.Base(absolutePath)}, nil
}

// splitListValues splits each repeatable flag value on commas and drops blanks.
func splitListValues(rawValues []string) []string {
	var values []string
	for _, rawValue := range rawValues {
		for _, token := range strings.Split(rawValue, ",") {
			trimmedToken := strings.TrimSpace(token)
			if trimmedToken != "" {
				values = append(values, trimmedToken)
			}
		}
	}
	return values
}

// copyDocumentToClipboard reads the written document and places it on the
// system clipboard, warning instead of failing when the clipboard is absent.
func copyDocumentToClipboard(documentPath string) {
	documentBytes, readError := os.ReadFile(documentPath)
	if readError != nil {
		fmt.Fprintf(os.Stderr, warningClipboardFormat, readError)
		return
	}
	if copyError := clipboard.NewService().Copy(string(documentBytes)); copyError != nil {
		fmt.Fprintf(os.Stderr, warningClipboardFormat, copyError)
		return
	}
	fmt.Println(clipboardCopiedMessage)
}
