package main

import (
	"fmt"
	"log"
	"os"
)

func main() {
	log.SetFlags(0)
	if err := rootCmd.Execute(); err != nil {
		fatalf("%s\n", err)
	}
}

func fatalf(format string, v ...interface{}) {
	stopProfiles()
	fmt.Fprintf(os.Stderr, format, v...)
	os.Exit(1)
}
