package main

import "github.com/theirongolddev/tripmeter/cmd"

func main() {
	cmd.Execute()
}
