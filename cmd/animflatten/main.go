// Command animflatten flattens layered animation jobs into a single set of
// channel curves and renders the result for review.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/banshee-data/animflatten/internal/version"
)

func main() {
	flag.Usage = func() { printUsage(os.Stderr) }
	flag.Parse()

	if flag.NArg() < 1 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	command := flag.Arg(0)
	args := flag.Args()[1:]

	var err error
	switch command {
	case "merge":
		err = runMerge(args, os.Stdout)
	case "plot":
		err = runPlot(args)
	case "version":
		fmt.Println(version.String("animflatten"))
	case "help":
		printUsage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage(os.Stderr)
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("%s: %v", command, err)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `animflatten - flatten layered animation channels

Usage: animflatten <command> [options]

Commands:
  merge      Merge a job file (JSON or YAML) into one channel set
  plot       Render a saved merge result as PNG and/or HTML charts
  version    Show animflatten version
  help       Show this help

Run 'animflatten <command> -h' for command options.`)
}
