package main

import (
	"github.com/assetnote/kitedsl/cmd/kitedsl/cmd"
)

func main() {
	cmd.Execute()
}
