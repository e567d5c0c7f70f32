package main

import "github.com/xess-engine/xsc/cmd"

func main() {
	cmd.Execute()
}
