// Package dataset loads the clustered record file into an immutable table
// and derives the filter options shown by the dashboard.
package dataset

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	"github.com/starford/clusterscope/internal/apperr"
	"github.com/starford/clusterscope/internal/checksum"
	"github.com/starford/clusterscope/internal/models"
)

// Display limits, counted in characters.
const (
	TitleMaxLen   = 80
	ExcerptMaxLen = 200
)

const defaultTitle = "No title"

// MaxClusterID is the largest accepted cluster_id.
const MaxClusterID = math.MaxInt32

// Largest epoch second that still maps to a four-digit year.
const maxEpochSeconds = 253402300799

// Load reads and parses the dataset file at path. Any failure is fatal for
// the caller: the file must open, every non-blank line must be a valid
// record and the file must contain at least one record.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	t, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("dataset: %s: %w", path, err)
	}
	t.source = path
	t.checksum = checksum.Sum(data)
	return t, nil
}

// Parse reads line-delimited JSON records from r and builds a table with
// marker sizes computed against the table-wide maximum engagement.
func Parse(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	var records []models.Record
	lineNo := 0
	for {
		line, readErr := br.ReadBytes('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, fmt.Errorf("read line %d: %w", lineNo+1, readErr)
		}
		if len(line) > 0 {
			lineNo++
			trimmed := bytes.TrimSpace(line)
			if len(trimmed) > 0 {
				rec, err := parseRecord(trimmed)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				rec.ID = len(records)
				records = append(records, rec)
			}
		}
		if errors.Is(readErr, io.EOF) {
			break
		}
	}

	if len(records) == 0 {
		return nil, apperr.ErrEmptyDataset
	}

	maxInteraction := 0.0
	for _, rec := range records {
		maxInteraction = math.Max(maxInteraction, rec.InteractionAmount)
	}
	for i := range records {
		records[i].MarkerSize = MarkerSize(records[i].InteractionAmount, maxInteraction)
	}

	return &Table{
		records:        records,
		maxInteraction: maxInteraction,
		loadedAt:       time.Now().UTC(),
	}, nil
}

func parseRecord(line []byte) (models.Record, error) {
	if !gjson.ValidBytes(line) {
		return models.Record{}, errors.New("malformed JSON")
	}
	doc := gjson.ParseBytes(line)
	if !doc.IsObject() {
		return models.Record{}, errors.New("record is not a JSON object")
	}

	var (
		rec models.Record
		err error
	)
	if rec.X, err = requiredNumber(doc, "tsne_x"); err != nil {
		return rec, err
	}
	if rec.Y, err = requiredNumber(doc, "tsne_y"); err != nil {
		return rec, err
	}
	cluster, err := requiredNumber(doc, "cluster_id")
	if err != nil {
		return rec, err
	}
	if cluster < 0 || cluster != math.Trunc(cluster) || cluster > MaxClusterID {
		return rec, fmt.Errorf("cluster_id must be an integer in [0, %d], got %v", MaxClusterID, cluster)
	}
	rec.ClusterID = int(cluster)
	if rec.InteractionAmount, err = requiredNumber(doc, "interaction_amount"); err != nil {
		return rec, err
	}
	if rec.InteractionAmount < 0 {
		return rec, fmt.Errorf("interaction_amount must be non-negative, got %v", rec.InteractionAmount)
	}

	rec.Title = Truncate(optionalString(doc.Get("title"), defaultTitle), TitleMaxLen)
	rec.BodyExcerpt = Truncate(optionalString(doc.Get("selftext"), ""), ExcerptMaxLen)
	// Counts are whole numbers; a fractional value is truncated toward zero.
	rec.Score = optionalInt(doc.Get("score"))
	rec.CommentCount = optionalInt(doc.Get("num_comments"))
	rec.Category = optionalString(doc.Get("subreddit"), models.CategoryUnknown)
	if rec.Category == models.CategoryAll {
		return rec, fmt.Errorf("subreddit %q is reserved for the all-categories choice", models.CategoryAll)
	}
	rec.CreatedAt = ParseEpoch(doc.Get("created_utc"))
	return rec, nil
}

func requiredNumber(doc gjson.Result, key string) (float64, error) {
	v := doc.Get(key)
	if !v.Exists() {
		return 0, fmt.Errorf("missing required key %q", key)
	}
	if v.Type != gjson.Number {
		return 0, fmt.Errorf("key %q must be a number, got %s", key, v.Type)
	}
	if math.IsNaN(v.Num) || math.IsInf(v.Num, 0) {
		return 0, fmt.Errorf("key %q is not finite", key)
	}
	return v.Num, nil
}

func optionalString(v gjson.Result, def string) string {
	if !v.Exists() || v.Type == gjson.Null {
		return def
	}
	return v.String()
}

func optionalInt(v gjson.Result) int {
	switch v.Type {
	case gjson.Number:
		return int(v.Int())
	case gjson.String:
		n, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0
		}
		return int(n)
	default:
		return 0
	}
}

// ParseEpoch interprets v as epoch seconds. Numbers and numeric strings are
// accepted; anything else yields a null timestamp.
func ParseEpoch(v gjson.Result) models.Timestamp {
	var secs float64
	switch v.Type {
	case gjson.Number:
		secs = v.Num
	case gjson.String:
		n, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return models.Timestamp{}
		}
		secs = n
	default:
		return models.Timestamp{}
	}
	if math.IsNaN(secs) || math.IsInf(secs, 0) || math.Abs(secs) > maxEpochSeconds {
		return models.Timestamp{}
	}
	whole, frac := math.Modf(secs)
	return models.NewTimestamp(time.Unix(int64(whole), int64(frac*1e9)))
}

// Truncate returns at most n characters of s.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
