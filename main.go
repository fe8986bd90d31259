package main

import (
	"github.com/cluster-deployment-automation/gocli/cmd"
)

func main() {
	cmd.Execute()
}
