package main

import (
	"log"

	"travelplanner/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Fatalf("travelplanner: %v", err)
	}
}
