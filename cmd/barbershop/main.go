package main

import (
	"log"
	_ "time/tzdata"

	"github.com/Freeeeeet/barbershop_booking/internal/cli"
)

func main() {
	if err := cli.NewRoot().Execute(); err != nil {
		log.Fatalf("❌ %v", err)
	}
}
