package main

import (
	"os"

	"github.com/davidhbaek/aidebate/internal/llm"
)

func main() {
	os.Exit(llm.CLI(os.Args[1:]))
}
