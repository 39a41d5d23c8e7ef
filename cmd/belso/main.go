// Command belso detects, translates, shows and validates schemas across LLM
// structured-output dialects.
//
// Usage:
//
//	belso detect schema.json
//	belso translate schema.json --to openai
//	belso standardize gemini.json
//	belso show house.yaml
//	belso validate house.yaml data.json
//	belso convert *.json --to yaml --out-dir out -j 4
//	belso dialects
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
