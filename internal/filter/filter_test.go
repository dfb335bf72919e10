package filter_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/starford/clusterscope/internal/apperr"
	"github.com/starford/clusterscope/internal/dataset"
	"github.com/starford/clusterscope/internal/filter"
	"github.com/starford/clusterscope/internal/models"
	"github.com/starford/clusterscope/internal/testutil"
)

func ptr(t time.Time) *time.Time { return &t }

func unix(sec int64) time.Time { return time.Unix(sec, 0).UTC() }

func ids(recs []models.Record) []int {
	out := make([]int, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.ID)
	}
	return out
}

func sampleRecords(t *testing.T) []models.Record {
	t.Helper()
	return testutil.TestTable(t, testutil.SampleDataset).Records()
}

func TestApply_AllReturnsTableInOrder(t *testing.T) {
	recs := sampleRecords(t)

	if got := filter.Apply(recs, filter.Params{Category: models.CategoryAll}); !reflect.DeepEqual(got, recs) {
		t.Errorf("All: got ids %v, want %v", ids(got), ids(recs))
	}
	if got := filter.Apply(recs, filter.Params{}); !reflect.DeepEqual(got, recs) {
		t.Errorf("empty category: got ids %v, want %v", ids(got), ids(recs))
	}
}

func TestApply_CategoryPartition(t *testing.T) {
	tbl := testutil.TestTable(t, testutil.SampleDataset)
	recs := tbl.Records()
	opts := dataset.DeriveOptions(tbl)

	seen := make(map[int]int)
	for _, cat := range opts.Categories[1:] {
		for _, r := range filter.Apply(recs, filter.Params{Category: cat}) {
			if r.Category != cat {
				t.Errorf("category %q returned record %d of %q", cat, r.ID, r.Category)
			}
			seen[r.ID]++
		}
	}
	if len(seen) != len(recs) {
		t.Errorf("union covers %d of %d records", len(seen), len(recs))
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("record %d matched %d categories", id, n)
		}
	}
}

func TestApply_CategoryIsCaseSensitive(t *testing.T) {
	recs := sampleRecords(t)
	for _, cat := range []string{"A", "all"} {
		if got := filter.Apply(recs, filter.Params{Category: cat}); len(got) != 0 {
			t.Errorf("category %q matched %v", cat, ids(got))
		}
	}
}

func TestApply_DateRange(t *testing.T) {
	recs := sampleRecords(t)

	cases := []struct {
		name       string
		start, end *time.Time
		want       []int
	}{
		{"inactive keeps null timestamps", nil, nil, []int{0, 1, 2, 3}},
		{"start only is inactive", ptr(unix(1500)), nil, []int{0, 1, 2, 3}},
		{"end only is inactive", nil, ptr(unix(1500)), []int{0, 1, 2, 3}},
		{"full span excludes null", ptr(unix(1000)), ptr(unix(2000)), []int{0, 1, 3}},
		{"single instant inclusive", ptr(unix(1000)), ptr(unix(1000)), []int{0}},
		{"inner window", ptr(unix(1001)), ptr(unix(1999)), []int{3}},
		{"inverted range", ptr(unix(2000)), ptr(unix(1000)), []int{}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := filter.Apply(recs, filter.Params{Category: models.CategoryAll, Start: c.start, End: c.end})
			if !reflect.DeepEqual(ids(got), c.want) {
				t.Errorf("ids = %v, want %v", ids(got), c.want)
			}
		})
	}
}

func TestApply_CombinesPredicates(t *testing.T) {
	got := filter.Apply(sampleRecords(t), filter.Params{Category: "a", Start: ptr(unix(0)), End: ptr(unix(5000))})
	if !reflect.DeepEqual(ids(got), []int{0}) {
		t.Errorf("ids = %v, want [0]", ids(got))
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	recs := sampleRecords(t)
	before := append([]models.Record(nil), recs...)

	got := filter.Apply(recs, filter.Params{Category: "b"})
	if len(got) == 0 {
		t.Fatal("expected matches for category b")
	}
	got[0].Title = "changed"

	if !reflect.DeepEqual(recs, before) {
		t.Error("input slice was modified")
	}
}

func TestEndToEndExample(t *testing.T) {
	in := `{"tsne_x":1,"tsne_y":1,"cluster_id":0,"interaction_amount":0,"subreddit":"a","created_utc":1000}` + "\n" +
		`{"tsne_x":2,"tsne_y":2,"cluster_id":1,"interaction_amount":99,"subreddit":"b","created_utc":2000}` + "\n"
	tbl, err := dataset.Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	onlyA := filter.Apply(tbl.Records(), filter.Params{Category: "a"})
	if len(onlyA) != 1 || onlyA[0].X != 1 || onlyA[0].MarkerSize != 3 {
		t.Fatalf("category a = %+v", onlyA)
	}

	both := filter.Apply(tbl.Records(), filter.Params{
		Category: models.CategoryAll,
		Start:    ptr(unix(1000)),
		End:      ptr(unix(2000)),
	})
	if len(both) != 2 {
		t.Fatalf("date range returned %d records, want 2", len(both))
	}
	if d := both[1].MarkerSize - 28; d > 1e-9 || d < -1e-9 {
		t.Errorf("second marker size = %v, want 28", both[1].MarkerSize)
	}
}

func TestParseParams(t *testing.T) {
	p, err := filter.ParseParams("", "", "")
	if err != nil {
		t.Fatalf("ParseParams: %v", err)
	}
	if p.Category != models.CategoryAll || p.DateActive() {
		t.Errorf("empty params = %+v", p)
	}

	p, err = filter.ParseParams(" b ", "1970-01-01", "1970-01-01")
	if err != nil {
		t.Fatalf("ParseParams: %v", err)
	}
	if p.Category != "b" || !p.DateActive() {
		t.Fatalf("params = %+v", p)
	}
	if !p.Start.Equal(unix(0)) {
		t.Errorf("start = %v", *p.Start)
	}
	if want := unix(0).Add(24*time.Hour - time.Nanosecond); !p.End.Equal(want) {
		t.Errorf("end = %v, want %v", *p.End, want)
	}

	p, err = filter.ParseParams("All", "1970-01-01T00:16:40Z", "1970-01-01T00:16:40Z")
	if err != nil {
		t.Fatalf("ParseParams: %v", err)
	}
	if !p.Start.Equal(unix(1000)) || !p.End.Equal(unix(1000)) {
		t.Errorf("datetime bounds = %v..%v, want both at 1000s", *p.Start, *p.End)
	}
}

func TestParseParams_SingleDayIncludesWholeDay(t *testing.T) {
	p, err := filter.ParseParams("All", "1970-01-01", "1970-01-01")
	if err != nil {
		t.Fatalf("ParseParams: %v", err)
	}
	if got := ids(filter.Apply(sampleRecords(t), p)); !reflect.DeepEqual(got, []int{0, 1, 3}) {
		t.Errorf("ids = %v, want [0 1 3]", got)
	}
}

func TestParseParams_InvalidDate(t *testing.T) {
	cases := []struct {
		start, end, field string
	}{
		{"not a date", "", "start_date"},
		{"2024-01-01", "garbage!", "end_date"},
	}
	for _, c := range cases {
		_, err := filter.ParseParams("All", c.start, c.end)
		if !errors.Is(err, apperr.ErrInvalidArgument) {
			t.Errorf("(%q, %q): err = %v, want ErrInvalidArgument", c.start, c.end, err)
			continue
		}
		if !strings.Contains(err.Error(), c.field) {
			t.Errorf("error %q does not name %s", err, c.field)
		}
	}
}
