package main

import (
	"log"
	"os"

	"github.com/dmitrijs2005/docdrop/internal/hashpw"
)

func main() {

	if err := hashpw.Run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		log.Fatalf("%v", err)
	}

}
