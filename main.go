//	@title			CF License Server API
//	@version		1.0
//	@description	Trial and license grants with usage-time accounting for desktop clients
//	@termsOfService	http://swagger.io/terms/

//	@contact.name	API Support
//	@contact.url	https://github.com/MOOQU/CF-License-Server

//	@license.name	MIT
//	@license.url	https://github.com/MOOQU/CF-License-Server/blob/main/LICENSE

//	@host		localhost:8080
//	@BasePath	/

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/MOOQU/CF-License-Server/internal/bootstrap"
	"github.com/MOOQU/CF-License-Server/internal/config"
	"github.com/MOOQU/CF-License-Server/internal/version"
)

func main() {
	// Define flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Usage = printUsage
	flag.Parse()

	// Show version and exit if requested
	if *showVersion {
		version.PrintVersion()
		os.Exit(0)
	}

	// Check if command is provided
	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	// Handle subcommands
	switch args[0] {
	case "server":
		runServer()
	case "repair":
		runRepair()
	case "version":
		version.PrintVersion()
	default:
		fmt.Printf("Unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf("Usage: %s [OPTIONS] COMMAND\n\n", os.Args[0])
	fmt.Println("License server for trial and licensed desktop clients")
	fmt.Println("\nCommands:")
	fmt.Println("  server    Start the license server")
	fmt.Println("  repair    Run the idempotent record repair pass and exit")
	fmt.Println("  version   Show version information")
	fmt.Println("\nOptions:")
	fmt.Println("  -v, --version    Show version information")
	fmt.Println("  -h, --help       Show this help message")
}

func runServer() {
	cfg := config.Load()
	if err := bootstrap.Run(context.Background(), cfg); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func runRepair() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := bootstrap.Repair(ctx, cfg)
	if err != nil {
		log.Fatalf("Repair failed: %v", err)
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode repair report: %v", err)
	}
	fmt.Println(string(out))
	if !report.Changed() {
		log.Println("Nothing to repair")
	}
}
