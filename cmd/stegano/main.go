/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/ssargent/stegano/cmd/stegano/cmd"

func main() {
	cmd.Execute()
}
