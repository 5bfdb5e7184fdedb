package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/hazyhaar/growthdesk/internal/api"
	"github.com/hazyhaar/growthdesk/internal/auth"
	"github.com/hazyhaar/growthdesk/internal/config"
	"github.com/hazyhaar/growthdesk/internal/db"
	"github.com/hazyhaar/growthdesk/internal/mcp"
)

var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		cmdServe(os.Args[2:])
	case "mcp":
		cmdMCP(os.Args[2:])
	case "version":
		fmt.Printf("growthdesk %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`growthdesk — marketing autopilot for small businesses

Usage:
  growthdesk serve [--config config.toml] [--addr :8080]
  growthdesk mcp [--config config.toml]
  growthdesk version
  growthdesk help

Commands:
  serve     Start the HTTP server
  mcp       Serve MCP tools over stdio
  version   Print version
  help      Show this help`)
}

func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config.toml")
	addr := fs.String("addr", "", "listen address (overrides config)")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("opening database: %v", err)
	}
	defer database.Close()

	a := auth.New(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiryMin)
	apiHandler := api.New(database, a)

	mux := http.NewServeMux()
	apiHandler.RegisterRoutes(mux)

	log.Printf("growthdesk %s listening on %s", version, cfg.Server.Addr)
	log.Printf("database: %s", cfg.Database.Path)

	if err := http.ListenAndServe(cfg.Server.Addr, api.SecurityHeaders(mux)); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func cmdMCP(args []string) {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config.toml")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("opening database: %v", err)
	}
	defer database.Close()

	srv := mcp.NewServer(database, nil)
	if err := mcpserver.ServeStdio(srv); err != nil {
		log.Fatalf("mcp server error: %v", err)
	}
}
