// Package main provides a one-shot utility for caller token key generation.
//
// It emits the keypair crowdfund uses to verify caller identity tokens.
package main

import (
	"os"

	"github.com/louisbranch/crowdfund/internal/platform/config"
	"github.com/louisbranch/crowdfund/internal/tools/callerkey"
)

func main() {
	if err := callerkey.Run(os.Stdout, nil); err != nil {
		config.Exitf("generate caller key: %v", err)
	}
}
