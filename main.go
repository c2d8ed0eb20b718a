package main

import (
	"os"

	"github.com/scholarden/scholarden-admin/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
