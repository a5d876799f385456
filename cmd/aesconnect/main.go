package main

import "github.com/aesconnect/cli/internal/cmd"

func main() {
	cmd.Execute()
}
