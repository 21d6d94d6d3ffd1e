package main

import (
	"log"

	"market-pos/cmd"
	_ "market-pos/migrations"
)

func main() {
	if err := cmd.Start(); err != nil {
		log.Fatal(err)
	}
}
