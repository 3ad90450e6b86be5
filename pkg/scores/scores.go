package scores

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Entry is a player's win count.
type Entry struct {
	Name string `json:"name"`
	Wins int    `json:"wins"`
}

// Ledger is a capped table of win counts keyed by name. Insertion order is
// preserved. A Ledger is not safe for concurrent use; the owner guards it.
type Ledger struct {
	entries  []Entry
	capacity int
}

func NewLedger(capacity int) *Ledger {
	return &Ledger{
		entries:  make([]Entry, 0, capacity),
		capacity: capacity,
	}
}

// Load appends entries read from storage. Entries past capacity are ignored
// and repeated names are merged.
func (l *Ledger) Load(entries []Entry) {
	for _, e := range entries {
		if i := l.index(e.Name); i >= 0 {
			l.entries[i].Wins += e.Wins
			continue
		}
		if len(l.entries) >= l.capacity {
			return
		}
		l.entries = append(l.entries, e)
	}
}

// RecordWin increments the count for name, adding it with one win if there
// is room. It returns false if the table was full and the win was dropped.
func (l *Ledger) RecordWin(name string) bool {
	if i := l.index(name); i >= 0 {
		l.entries[i].Wins++
		return true
	}
	if len(l.entries) >= l.capacity {
		return false
	}
	l.entries = append(l.entries, Entry{Name: name, Wins: 1})
	return true
}

// Wins returns the count for name, or 0.
func (l *Ledger) Wins(name string) int {
	if i := l.index(name); i >= 0 {
		return l.entries[i].Wins
	}
	return 0
}

func (l *Ledger) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the table in insertion order.
func (l *Ledger) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Ranked returns a copy of the table ordered by wins, most first. Ties keep
// insertion order.
func (l *Ledger) Ranked() []Entry {
	out := l.Entries()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Wins > out[j].Wins
	})
	return out
}

func (l *Ledger) index(name string) int {
	for i := range l.entries {
		if l.entries[i].Name == name {
			return i
		}
	}
	return -1
}

// Parse reads whitespace-delimited "name wins" records. Lines that do not
// hold exactly a name and an integer are skipped.
func Parse(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) != 2 {
			continue
		}
		wins, err := strconv.Atoi(fields[1])
		if err != nil {
			continue
		}
		entries = append(entries, Entry{Name: fields[0], Wins: wins})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read scores: %v", err)
	}
	return entries, nil
}

// Write writes one "name wins" line per entry.
func Write(w io.Writer, entries []Entry) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		if _, err := fmt.Fprintf(bw, "%s %d\n", e.Name, e.Wins); err != nil {
			return fmt.Errorf("failed to write score for %s: %v", e.Name, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush scores: %v", err)
	}
	return nil
}

// FormatScoreboard renders the ranked lines shown to players at game over.
func FormatScoreboard(ranked []Entry) []string {
	if len(ranked) == 0 {
		return []string{"(no scores yet)"}
	}
	lines := make([]string, 0, len(ranked))
	for i, e := range ranked {
		lines = append(lines, fmt.Sprintf("%d) %s - %d wins", i+1, e.Name, e.Wins))
	}
	return lines
}
