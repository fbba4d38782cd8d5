/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"github.com/ssargent/skald/cmd/skald/cmd"
)

func main() {
	cmd.Execute()
}
