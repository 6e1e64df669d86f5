package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/automoto/worldclient/server/core"
	"github.com/automoto/worldclient/shared/netconfig"
	"github.com/automoto/worldclient/shared/protocol"
)

func main() {
	port := flag.Uint("port", netconfig.DefaultPort, "Server port")
	tickRate := flag.Int("tickrate", netconfig.DefaultTickRate, "Relay tick rate (syncs per second)")
	name := flag.String("name", "World Relay", "Server display name")
	version := flag.String("version", "", "Required client version (empty = accept any)")
	maxPlayers := flag.Int("maxplayers", 16, "Maximum joined players (0 = unlimited)")
	flag.Parse()

	if err := protocol.RegisterComponents(); err != nil {
		log.Fatalf("Failed to register components: %v", err)
	}

	server := core.NewServer(core.Config{
		Name:       *name,
		Version:    *version,
		TickRate:   *tickRate,
		MaxPlayers: *maxPlayers,
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Shutting down server...")
		server.Stop()
		os.Exit(0)
	}()

	log.Printf("Starting relay %q on port %d (tick rate: %d/s, max players: %d, version: %s)",
		*name, *port, *tickRate, *maxPlayers, *version)
	if err := server.Start(*port); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
