// Command emailcheck checks whether email addresses look plausible.
//
//	emailcheck                      # prompt for one address
//	emailcheck a@b123.com x@y.org   # report on each
//	emailcheck -f list.txt -F csv   # report on each line of a file
package main

import (
	"os"

	"github.com/dalemusser/emailcheck/internal/cli"
)

func main() {
	os.Exit(cli.Run("emailcheck", os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
