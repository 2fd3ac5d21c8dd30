package main

import (
	"os"

	"github.com/GoPress-Admin/GoPress-Admin/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
