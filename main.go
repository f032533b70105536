package main

import "github.com/geochemlab/icpqc/cmd"

func main() {
	cmd.Execute()
}
