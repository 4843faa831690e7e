package main

import (
	"github.com/gaze-network/tokensale/cmd"
)

func main() {
	cmd.Execute()
}
