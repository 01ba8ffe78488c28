package main

import "github.com/josephlewis42/gatesh/cmd"

func main() {
	cmd.Execute()
}
