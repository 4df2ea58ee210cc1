// Command axonlint-vet runs the optlint analyzer as a standalone checker or as a
// go vet tool:
//
//	go vet -vettool=$(which axonlint-vet) ./...
package main

import (
	"github.com/toyz/axonlint/pkg/optlint"
	"golang.org/x/tools/go/analysis/singlechecker"
)

func main() {
	singlechecker.Main(optlint.Analyzer)
}
