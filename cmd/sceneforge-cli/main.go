package main

import "sceneforge/cmd/sceneforge-cli/cmd"

func main() {
	cmd.Execute()
}
