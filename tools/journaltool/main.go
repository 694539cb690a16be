package main

import (
	"encoding/json"
	"fmt"
	"gridtactics/internal/domain"
	"gridtactics/internal/infrastructure/storage"
	"os"
	"strconv"
	"time"
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		return
	}

	switch os.Args[1] {
	case "info":
		if len(os.Args) < 3 {
			fmt.Println("Usage: journaltool info <file.gtj>")
			return
		}
		session, ok := load(os.Args[2])
		if !ok {
			return
		}
		last := 0
		if n := len(session.Actions); n > 0 {
			last = session.Actions[n-1].Tick
		}
		fmt.Printf("level:    %s\n", session.Level)
		fmt.Printf("recorded: %s\n", time.Unix(session.Timestamp, 0).Format(time.RFC3339))
		fmt.Printf("tickRate: %d\n", session.TickRate)
		fmt.Printf("actions:  %d (last tick %d, ~%v)\n", len(session.Actions), last, ticksToDuration(last, session.TickRate))
	case "dump":
		if len(os.Args) < 3 {
			fmt.Println("Usage: journaltool dump <file.gtj>")
			return
		}
		session, ok := load(os.Args[2])
		if !ok {
			return
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(session); err != nil {
			fmt.Printf("Encode failed: %v\n", err)
		}
	case "tick":
		if len(os.Args) < 4 {
			fmt.Println("Usage: journaltool tick <tick> <tickRate>")
			return
		}
		tick, err1 := strconv.Atoi(os.Args[2])
		rate, err2 := strconv.Atoi(os.Args[3])
		if err1 != nil || err2 != nil || rate < 1 {
			fmt.Println("Invalid tick or tick rate")
			return
		}
		fmt.Println(ticksToDuration(tick, rate))
	default:
		printHelp()
	}
}

func load(path string) (*domain.JournalSession, bool) {
	f, err := os.Open(path)
	if err != nil {
		fmt.Printf("Open failed: %v\n", err)
		return nil, false
	}
	defer f.Close()

	session, err := storage.ReadJournal(f)
	if err != nil {
		fmt.Printf("Invalid journal: %v\n", err)
		return nil, false
	}
	return session, true
}

func ticksToDuration(tick, rate int) time.Duration {
	if rate < 1 {
		return 0
	}
	return time.Duration(tick) * time.Second / time.Duration(rate)
}

func printHelp() {
	fmt.Println(`Journal Tool - просмотр журналов команд (.gtj)
Commands:
  info <file>            - уровень, частота тиков и число команд
  dump <file>            - журнал целиком в JSON
  tick <tick> <rate>     - время симуляции для номера тика`)
}
