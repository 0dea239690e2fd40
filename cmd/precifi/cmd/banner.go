package cmd

import (
	"fmt"
)

const banner = `
                       _  __ _
  _ __  _ __ ___  ___(_)/ _(_)
 | '_ \| '__/ _ \/ __| | |_| |
 | |_) | | |  __/ (__| |  _| |
 | .__/|_|  \___|\___|_|_| |_|
 |_|
`

func printBanner() {
	fmt.Printf("\x1b[34m%s\x1b[0m", banner)
	fmt.Printf("\x1b[32m  Personal Finance Service - Version %s\x1b[0m\n\n", Version)
}
