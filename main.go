package main

import (
	"github.com/dogechain-lab/elasticdb/command/root"
)

func main() {
	root.NewRootCommand().Execute()
}
