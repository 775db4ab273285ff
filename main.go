package main

import (
	"context"
	"log"

	"github.com/Rakhulsr/catalog-api/app/cmd"
	"github.com/Rakhulsr/catalog-api/app/configs"
)

func main() {
	env := configs.LoadEnv()

	if err := cmd.RunCli(context.Background(), env); err != nil {
		log.Fatal(err)
	}
}
