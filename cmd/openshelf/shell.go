package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/schollz/progressbar/v3"

	"openshelf/internal/config"
	"openshelf/internal/openlibrary"
	"openshelf/internal/search"
	"openshelf/internal/session"
)

type shell struct {
	cfg    *config.Config
	ctrl   *session.Controller
	client *openlibrary.Client
	san    *bluemonday.Policy

	// quiet suppresses callback rendering while one-shot mode waits and
	// prints the final snapshot itself.
	quiet atomic.Bool
}

func newShell(cfg *config.Config, ctrl *session.Controller, client *openlibrary.Client) *shell {
	return &shell{
		cfg:    cfg,
		ctrl:   ctrl,
		client: client,
		san:    bluemonday.StrictPolicy(),
	}
}

// onUpdate is the view callback: it renders whenever the session settles.
// It may run on the debounce timer or a search goroutine, which is exactly
// how auto-search results show up without blocking the prompt.
func (s *shell) onUpdate(snap session.Snapshot) {
	if s.quiet.Load() || snap.Loading {
		return
	}
	fmt.Println()
	s.render(snap)
}

func (s *shell) render(snap session.Snapshot) {
	if snap.LastErr != "" {
		fmt.Printf("! %s\n", snap.LastErr)
		return
	}
	if snap.Result == nil {
		return
	}
	if len(snap.Result.Docs) == 0 {
		fmt.Println("No results.")
		return
	}

	fmt.Printf("%-3s | %-44s | %-26s | %-5s | %s\n", "#", "Title", "Authors", "Year", "Eds")
	fmt.Println(strings.Repeat("-", 96))
	for i, d := range snap.Result.Docs {
		star := " "
		if s.ctrl.IsFavorite(d) {
			star = "*"
		}
		fmt.Printf("%2d%s | %-44s | %-26s | %-5s | %d\n",
			i+1, star,
			truncate(s.clean(d.Title), 44),
			truncate(s.clean(strings.Join(d.AuthorNames, ", ")), 26),
			yearString(d),
			d.EditionCount)
	}

	pages := (snap.Result.NumFound + search.PageSize - 1) / search.PageSize
	fmt.Printf("\nPage %d/%d, %d found, sort: %s\n",
		snap.Page, max(pages, 1), snap.Result.NumFound, snap.Sort)
}

func (s *shell) show(args []string) {
	d, ok := s.docArg(args)
	if !ok {
		return
	}
	fmt.Printf("Title:     %s\n", s.clean(d.Title))
	fmt.Printf("Authors:   %s\n", s.clean(strings.Join(d.AuthorNames, ", ")))
	fmt.Printf("Year:      %s\n", yearString(d))
	fmt.Printf("Editions:  %d\n", d.EditionCount)
	if len(d.ISBNs) > 0 {
		fmt.Printf("ISBNs:     %s\n", strings.Join(firstN(d.ISBNs, 5), ", "))
	}
	if len(d.Subjects) > 0 {
		fmt.Printf("Subjects:  %s\n", s.clean(strings.Join(firstN(d.Subjects, 8), ", ")))
	}
	if u := openlibrary.DetailURL(s.cfg.OpenLibrary, d); u != "" {
		fmt.Printf("Link:      %s\n", u)
	}
	fmt.Printf("Favorite:  %v\n", s.ctrl.IsFavorite(d))

	if len(d.Raw) > 0 {
		var pretty bytes.Buffer
		if json.Indent(&pretty, d.Raw, "", "  ") == nil {
			fmt.Printf("\nRaw record:\n%s\n", pretty.String())
		}
	}
}

func (s *shell) fav(args []string) {
	d, ok := s.docArg(args)
	if !ok {
		return
	}
	if s.ctrl.ToggleFavorite(d) {
		fmt.Printf("Added %q to favorites.\n", s.clean(d.Title))
	} else {
		fmt.Printf("Removed %q from favorites.\n", s.clean(d.Title))
	}
}

func (s *shell) favsView(args []string) {
	entries := s.ctrl.Favorites()
	if len(args) > 0 && args[0] == "title" {
		entries = s.ctrl.FavoritesByTitle()
	}
	if len(entries) == 0 {
		fmt.Println("No favorites yet.")
		return
	}
	fmt.Printf("%-44s | %-26s | %s\n", "Title", "Authors", "Year")
	fmt.Println(strings.Repeat("-", 80))
	for _, e := range entries {
		fmt.Printf("%-44s | %-26s | %s\n",
			truncate(s.clean(e.Doc.Title), 44),
			truncate(s.clean(strings.Join(e.Doc.AuthorNames, ", ")), 26),
			yearString(e.Doc))
	}
	fmt.Printf("\n%d favorite(s)\n", len(entries))
}

func (s *shell) open(args []string) {
	d, ok := s.docArg(args)
	if !ok {
		return
	}
	u := openlibrary.DetailURL(s.cfg.OpenLibrary, d)
	if u == "" {
		fmt.Println("No catalog page for this record.")
		return
	}
	fmt.Println(u)
}

func (s *shell) cover(args []string) {
	d, ok := s.docArg(args)
	if !ok {
		return
	}
	size := openlibrary.CoverMedium
	if len(args) > 1 {
		size = strings.ToUpper(args[1])
	}
	if openlibrary.CoverURL(s.cfg.OpenLibrary, d, size) == "" {
		fmt.Println("No cover source for this record.")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	body, length, err := s.client.FetchCover(ctx, d, size)
	if err != nil {
		fmt.Printf("Cover download failed: %v\n", err)
		return
	}
	defer body.Close()

	name := strings.Trim(strings.ReplaceAll(d.IdentityKey(), "/", "_"), "_")
	path := filepath.Join(s.cfg.CLI.CoverDir, fmt.Sprintf("%s-%s.jpg", name, size))
	f, err := os.Create(path)
	if err != nil {
		fmt.Printf("Cover download failed: %v\n", err)
		return
	}
	defer f.Close()

	bar := progressbar.DefaultBytes(length, "cover")
	if _, err := io.Copy(io.MultiWriter(f, bar), body); err != nil {
		fmt.Printf("Cover download failed: %v\n", err)
		return
	}
	fmt.Printf("Saved %s\n", path)
}

// docArg resolves "/cmd <n>" against the currently displayed page.
func (s *shell) docArg(args []string) (openlibrary.Doc, bool) {
	snap := s.ctrl.Snapshot()
	if snap.Result == nil || len(snap.Result.Docs) == 0 {
		fmt.Println("No results to pick from.")
		return openlibrary.Doc{}, false
	}
	if len(args) == 0 {
		fmt.Println("usage: give a result number, e.g. /show 1")
		return openlibrary.Doc{}, false
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(snap.Result.Docs) {
		fmt.Printf("Pick a number between 1 and %d.\n", len(snap.Result.Docs))
		return openlibrary.Doc{}, false
	}
	return snap.Result.Docs[n-1], true
}

func (s *shell) waitSettled(timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		snap := s.ctrl.Snapshot()
		if !snap.Loading && (snap.Result != nil || snap.LastErr != "") {
			return
		}
		time.Sleep(25 * time.Millisecond)
	}
}

// clean strips any markup that may ride along in catalog strings before
// they hit the terminal.
func (s *shell) clean(v string) string {
	return html.UnescapeString(s.san.Sanitize(v))
}

func yearString(d openlibrary.Doc) string {
	if d.FirstPublishYear == 0 {
		return "-"
	}
	return strconv.Itoa(d.FirstPublishYear)
}

func truncate(v string, n int) string {
	r := []rune(v)
	if len(r) <= n {
		return v
	}
	return string(r[:n-1]) + "…"
}

func firstN(v []string, n int) []string {
	if len(v) <= n {
		return v
	}
	return v[:n]
}
