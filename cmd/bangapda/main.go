package main

import (
	"os"

	"github.com/lazypower/bangapda/internal/cli"
)

func main() {
	if err := cli.Execute(webClient()); err != nil {
		os.Exit(1)
	}
}
