// Timeledger - a personal time and earnings ledger.
package main

import (
	"os"

	"github.com/okulov/timeledger/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
