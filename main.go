package main

import "github.com/dotcommander/cqe/cmd"

func main() {
	cmd.Execute()
}
