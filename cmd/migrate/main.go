package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"gstbill/internal/config"
)

const usage = "Usage: migrate [up|down|steps N|force V|version]"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	m, err := migrate.New("file://db/migrations", cfg.DB.DSN())
	if err != nil {
		log.Fatalf("opening migration source: %v", err)
	}
	defer m.Close()

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	switch cmd := os.Args[1]; cmd {
	case "up":
		if err := m.Up(); err != nil && err != migrate.ErrNoChange {
			log.Fatalf("migrate up: %v", err)
		}
		log.Println("invoice schema is up to date")

	case "down":
		if err := m.Down(); err != nil && err != migrate.ErrNoChange {
			log.Fatalf("migrate down: %v", err)
		}
		log.Println("invoice schema reverted")

	case "steps":
		n, err := stepArg()
		if err != nil {
			log.Fatal(err)
		}
		if err := m.Steps(n); err != nil && err != migrate.ErrNoChange {
			log.Fatalf("migrate steps: %v", err)
		}
		log.Printf("applied %d migration step(s)", n)

	case "force":
		v, err := stepArg()
		if err != nil {
			log.Fatal(err)
		}
		if err := m.Force(v); err != nil {
			log.Fatalf("migrate force: %v", err)
		}
		log.Printf("forced schema version to %d", v)

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatalf("reading schema version: %v", err)
		}
		fmt.Printf("version: %d, dirty: %v\n", version, dirty)

	default:
		fmt.Printf("unknown command: %s\n%s\n", cmd, usage)
		os.Exit(1)
	}
}

func stepArg() (int, error) {
	if len(os.Args) < 3 {
		return 0, fmt.Errorf("%s requires a number argument", os.Args[1])
	}
	n, err := strconv.Atoi(os.Args[2])
	if err != nil {
		return 0, fmt.Errorf("invalid %s argument: %v", os.Args[1], err)
	}
	return n, nil
}
