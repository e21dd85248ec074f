package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/peterh/liner"
	"github.com/sirupsen/logrus"

	"openshelf/internal/config"
	"openshelf/internal/favorites"
	"openshelf/internal/openlibrary"
	"openshelf/internal/query"
	"openshelf/internal/search"
	"openshelf/internal/session"
)

func main() {
	cfg := config.Get()
	log := logrus.StandardLogger()
	if cfg.CLI.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	slot := openSlot(cfg.Favorites, log)
	favs := favorites.Load(slot, log)
	client := openlibrary.New(cfg.OpenLibrary, log)
	ctrl := session.New(search.NewExecutor(client), favs, cfg.Search.Debounce(), log)

	sh := newShell(cfg, ctrl, client)
	ctrl.OnUpdate(sh.onUpdate)

	if len(os.Args) > 1 {
		sh.oneShot(strings.Join(os.Args[1:], " "))
		return
	}
	sh.repl()
}

func openSlot(cfg config.FavoritesConfig, log *logrus.Logger) favorites.Slot {
	switch cfg.Backend {
	case "sqlite":
		slot, err := favorites.OpenSQLiteSlot(cfg.Path, "favorites")
		if err != nil {
			log.WithError(err).Warn("favorites.sqlite.unavailable, falling back to memory")
			return favorites.NewMemorySlot()
		}
		return slot
	case "file", "":
		return favorites.NewFileSlot(cfg.Path)
	default:
		log.Warnf("unknown favorites backend %q, falling back to memory", cfg.Backend)
		return favorites.NewMemorySlot()
	}
}

func (s *shell) repl() {
	rl := liner.NewLiner()
	defer rl.Close()
	rl.SetCtrlCAborts(true)

	if f, err := os.Open(s.cfg.CLI.HistoryFile); err == nil {
		_, _ = rl.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(s.cfg.CLI.HistoryFile); err == nil {
			_, _ = rl.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Println("Openshelf Interactive Shell (type /help for commands)")
	for {
		line, err := rl.Prompt("openshelf> ")
		if err != nil {
			break
		}
		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		rl.AppendHistory(input)
		if input == "/exit" || input == "/quit" {
			return
		}
		s.dispatch(input)
	}
}

// oneShot runs a single explicit search and prints the first page.
func (s *shell) oneShot(input string) {
	s.ctrl.SetCriteria(query.ParseInput(input))
	s.quiet.Store(true)
	s.ctrl.Submit()
	s.waitSettled(15 * time.Second)
	s.quiet.Store(false)
	s.render(s.ctrl.Snapshot())
}

func (s *shell) dispatch(input string) {
	if !strings.HasPrefix(input, "/") {
		s.query(input)
		return
	}

	parts := strings.Fields(input)
	switch parts[0] {
	case "/next":
		s.ctrl.NextPage()
	case "/prev":
		s.ctrl.PrevPage()
	case "/sort":
		if len(parts) < 2 {
			fmt.Println("usage: /sort relevance|newest|oldest")
			return
		}
		s.ctrl.SetSort(search.ParseSort(parts[1]))
	case "/show":
		s.show(parts[1:])
	case "/fav":
		s.fav(parts[1:])
	case "/favs":
		s.favsView(parts[1:])
	case "/open":
		s.open(parts[1:])
	case "/cover":
		s.cover(parts[1:])
	case "/demo":
		s.ctrl.SetCriteria(query.Criteria{Title: "the hobbit", Author: "tolkien"})
		s.ctrl.Submit()
	case "/clear":
		s.ctrl.Clear()
		fmt.Println("Cleared.")
	case "/help":
		s.help()
	default:
		fmt.Printf("Unknown command %s, try /help\n", parts[0])
	}
}

// query routes input the way the search form does: pure free text triggers
// the debounced auto-search, structured fields mean an explicit submit.
func (s *shell) query(input string) {
	crit := query.ParseInput(input)
	if crit.HasStructured() {
		s.ctrl.SetCriteria(crit)
		s.ctrl.Submit()
		return
	}
	s.ctrl.SetCriteria(query.Criteria{})
	s.ctrl.SetFreeText(crit.FreeText)
	fmt.Println("(auto-search pending...)")
}

func (s *shell) help() {
	fmt.Print(`Enter a query directly:
  unix network programming          free text (auto-search after a pause)
  author:"stephen king" title:it    structured fields: title author isbn subject year

Commands:
  /next /prev          pagination
  /sort <mode>         relevance | newest | oldest
  /show <n>            document details and raw record
  /fav <n>             toggle favorite for result n
  /favs [title]        list favorites (optionally by title)
  /open <n>            print the catalog page link
  /cover <n> [S|M|L]   download the cover image
  /demo                run a sample structured search
  /clear               reset the session
  /exit                leave
`)
}
