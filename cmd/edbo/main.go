package main

import (
	"context"

	"edbo-scraper/cmd/edbo/commands"
)

func main() {
	commands.ExecuteContext(context.Background())
}
