package main

import (
	"flag"
	"log"

	"rentledger/process/receiptscan"
)

func main() {
	dir := flag.String("dir", "uploads/receipts", "directory holding receipt images")
	dry := flag.Bool("dry", false, "print proposed changes without writing")
	minConf := flag.Float64("min-conf", 0.15, "minimum OCR confidence to accept an amount")
	watch := flag.Bool("watch", false, "keep running and process new files as they arrive")
	flag.Parse()

	if *watch {
		if err := receiptscan.Watch(*dir, *minConf); err != nil {
			log.Fatal(err)
		}
		return
	}
	if err := receiptscan.Run(*dir, *dry, *minConf); err != nil {
		log.Fatal(err)
	}
}
