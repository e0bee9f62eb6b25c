package main

import (
	"github.com/shinkansenfinance/shinkansen-go/internal/cli"
)

// CLI for signing, verifying and sending Shinkansen payment messages
func main() {
	cli.Execute()
}
