package quotes

import (
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	GenrePassDone = "pass_done"
	GenreFTGold   = "ft_gold"
	GenreFTSilver = "ft_silver"
	GenreFTBronze = "ft_bronze"
	GenreGeneric  = "generic"
)

//go:embed quotes.csv
var defaultQuotesCsv string

type Quote struct {
	Text   string `json:"text"`
	Author string `json:"author"`
	Genre  string `json:"genre"`
}

type Manager struct {
	Quotes       []*Quote
	GenresQuotes map[string][]*Quote

	randMu sync.Mutex
	rand   *rand.Rand
}

// NewManager reads QUOTE;AUTHOR;GENRE records
func NewManager(r io.Reader) (*Manager, error) {
	m := &Manager{
		GenresQuotes: make(map[string][]*Quote),
		rand:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	quotesCsvReader := csv.NewReader(r)
	quotesCsvReader.Comma = ';'
	quotesCsvReader.LazyQuotes = true
	for {
		record, err := quotesCsvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if len(record) != 3 {
			return nil, fmt.Errorf("record [%s] does not have 3 elements", record)
		}

		quote := &Quote{
			Text:   strings.TrimSpace(record[0]),
			Author: strings.TrimSpace(record[1]),
			Genre:  strings.TrimSpace(record[2]),
		}
		if quote.Text == "" || quote.Genre == "" {
			return nil, fmt.Errorf("record [%s] misses text or genre", record)
		}
		m.Quotes = append(m.Quotes, quote)
		m.GenresQuotes[quote.Genre] = append(m.GenresQuotes[quote.Genre], quote)
	}

	if len(m.GenresQuotes[GenreGeneric]) == 0 {
		return nil, fmt.Errorf("no %s quotes", GenreGeneric)
	}

	log.Debugf("quotes CSV read %d quotes", len(m.Quotes))
	return m, nil
}

func NewDefaultManager() (*Manager, error) {
	return NewManager(strings.NewReader(defaultQuotesCsv))
}

// NewManagerFromFile reads the CSV at path, empty path means the embedded set
func NewManagerFromFile(path string) (*Manager, error) {
	if path == "" {
		return NewDefaultManager()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open quotes csv: %w", err)
	}
	defer f.Close()
	return NewManager(f)
}

// RandomQuote picks from the genre, or from the generic ones when the genre has none
func (m *Manager) RandomQuote(genre string) *Quote {
	pool := m.GenresQuotes[genre]
	if len(pool) == 0 {
		pool = m.GenresQuotes[GenreGeneric]
	}

	m.randMu.Lock()
	i := m.rand.Intn(len(pool))
	m.randMu.Unlock()

	return pool[i]
}

// GenreForOutcome maps a failure test outcome (gold, silver, bronze) to its genre
func GenreForOutcome(outcome string) string {
	switch outcome {
	case "gold":
		return GenreFTGold
	case "silver":
		return GenreFTSilver
	case "bronze":
		return GenreFTBronze
	default:
		return GenreGeneric
	}
}
