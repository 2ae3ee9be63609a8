// Command goz3fetch downloads v3 story files from the IF-Archive's
// zcode index, for local testing against goz3. Grounded on the teacher's
// cmd/scraper, narrowed to the .z3 extension.
package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const indexURL = "https://www.ifarchive.org/indexes/if-archive/games/zcode/"

var z3Pattern = regexp.MustCompile(`.*\.z3$`)

func main() {
	outputDir := flag.String("out", "stories", "directory to download story files into")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "goz3fetch: creating %s: %v\n", *outputDir, err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: 30 * time.Second}

	games, err := fetchIndex(client)
	if err != nil {
		fmt.Fprintf(os.Stderr, "goz3fetch: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("found %d v3 story files\n", len(games))

	downloaded, skipped, failed := 0, 0, 0
	for i, g := range games {
		dest := filepath.Join(*outputDir, g.name)
		if _, err := os.Stat(dest); err == nil {
			fmt.Printf("[%d/%d] skipping %s (already exists)\n", i+1, len(games), g.name)
			skipped++
			continue
		}

		fmt.Printf("[%d/%d] downloading %s... ", i+1, len(games), g.name)
		if err := downloadTo(client, g.url, dest); err != nil {
			fmt.Printf("failed: %v\n", err)
			failed++
			continue
		}
		fmt.Println("ok")
		downloaded++
	}

	fmt.Printf("downloaded %d, skipped %d, failed %d\n", downloaded, skipped, failed)
}

type game struct {
	name string
	url  string
}

func fetchIndex(client *http.Client) ([]game, error) {
	res, err := client.Get(indexURL)
	if err != nil {
		return nil, fmt.Errorf("fetching index: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status fetching index: %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing index: %w", err)
	}

	var games []game
	doc.Find("dl dt").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Find("a").Attr("href")
		if !ok || !z3Pattern.MatchString(href) {
			return
		}
		games = append(games, game{
			name: filepath.Base(href),
			url:  "https://www.ifarchive.org" + href,
		})
	})

	return games, nil
}

func downloadTo(client *http.Client, url, dest string) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, resp.Body)
	return err
}
