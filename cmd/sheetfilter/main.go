// Command sheetfilter finds the header row of a spreadsheet and saves the
// rows matching a filter to a new workbook.
package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cmd := newRootCmd(os.Getenv)
	if err := cmd.Execute(); err != nil {
		reportError(cmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}
