// Package main is the entry point for the synthetic-scout application
package main

import (
	"os"

	"github.com/agiulucom42-del/synthetic-scout/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
