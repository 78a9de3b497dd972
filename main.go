package main

import (
	"flag"
	"os"

	"hotelier/internal/app"
	"hotelier/internal/logger"
)

func main() {
	printReport := flag.Bool("report", false, "print the datastore contents after startup")
	flag.Parse()

	l := logger.New(os.Stderr)

	var exitCode int

	if err := app.Run(l, app.Options{Report: *printReport}); err != nil {
		l.LogErrorf("Failed to run app: %v", err.Error())

		exitCode = 1
	}

	os.Exit(exitCode)
}
