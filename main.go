package main

import "github.com/lalallama/proposaldesk/cmd"

func main() {
	cmd.Execute()
}
