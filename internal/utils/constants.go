package utils

// File and directory names recognized across the project.
const (
	// IgnoreFileName is the name of the project-local ignore override file.
	IgnoreFileName = ".gptignore"
	// ConfigFileName is the name of the local application configuration file.
	ConfigFileName = ".ctxpack.yaml"
	// GlobalConfigDirectoryName is the directory under the user home holding global configuration.
	GlobalConfigDirectoryName = ".ctxpack"
	// GlobalConfigFileName is the name of the global application configuration file.
	GlobalConfigFileName = "config.yaml"
)

// LoggerInitializationFailedMessageFormat reports a failure to construct the application logger.
const LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"

// ApplicationExecutionFailedMessage prefixes fatal application errors.
const ApplicationExecutionFailedMessage = "application execution failed"
