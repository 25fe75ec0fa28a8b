package main

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/stigoleg/auraflow/internal/cmd"
	"github.com/stigoleg/auraflow/internal/ui"
)

var appVersion = "0.4.0"

func main() {
	root := cmd.NewRootCmd(appVersion, viper.New(), run)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.FormatError(err))
		os.Exit(1)
	}
}
