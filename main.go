package main

import "github.com/giygas/openbnf/cmd"

func main() {
	cmd.Execute()
}
