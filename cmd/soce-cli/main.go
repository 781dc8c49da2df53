package main

import (
	"soce-backend/cmd/soce-cli/cmd"
)

func main() {
	cmd.Execute()
}
