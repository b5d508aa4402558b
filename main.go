package main

import "github.com/pable/go-qb-metrics/cmd"

func main() {
	cmd.Execute()
}
