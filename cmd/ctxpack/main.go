package main

import (
	"fmt"
	"os"

	"github.com/temirov/ctxpack/internal/cli"
	"github.com/temirov/ctxpack/internal/utils"
)

// main is the entry point for the ctxpack command.
func main() {
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger()
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}
	defer loggerInstance.Sync()
	if applicationExecutionError := cli.Execute(); applicationExecutionError != nil {
		loggerInstance.Error(utils.ApplicationExecutionFailedMessage + ": " + applicationExecutionError.Error())
		loggerInstance.Sync()
		os.Exit(cli.ExitCode(applicationExecutionError))
	}
}
