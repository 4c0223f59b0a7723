package main

import "github.com/stagehand-app/stagehand/internal/cli"

func main() {
	cli.Execute()
}
