package main

import (
	"os"

	"horse.fit/roamsift/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
