// Package chart turns filtered records into a plotly scatter figure.
package chart

import (
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"

	"github.com/starford/clusterscope/internal/models"
)

// Palette holds the cluster colors: dark teal, rosy copper, saffron, blue
// slate, tropical teal, plum, dusty mauve. Colors repeat past seven
// clusters.
var Palette = [...]string{"#084c61", "#db504a", "#e3b505", "#4f6d7a", "#56a3a6", "#9b5de5", "#a26769"}

const fontFamily = "Inter, sans-serif"

// ColorFor returns the palette color of a cluster. Any int maps to a color.
func ColorFor(clusterID int) string {
	i := clusterID % len(Palette)
	if i < 0 {
		i += len(Palette)
	}
	return Palette[i]
}

// Group splits records into per-cluster series, in ascending cluster order.
// Clusters without records do not appear.
func Group(records []models.Record) []models.ClusterSeries {
	byID := make(map[int][]models.Record)
	for _, r := range records {
		byID[r.ClusterID] = append(byID[r.ClusterID], r)
	}
	ids := make([]int, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]models.ClusterSeries, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.ClusterSeries{
			ClusterID: id,
			Color:     ColorFor(id),
			Records:   byID[id],
		})
	}
	return out
}

// Render builds the figure for records. It never fails; no records yields
// a figure with no traces.
func Render(records []models.Record) Figure {
	series := Group(records)
	traces := make([]Trace, 0, len(series))
	for _, s := range series {
		traces = append(traces, buildTrace(s))
	}
	return Figure{Data: traces, Layout: NewLayout()}
}

func buildTrace(s models.ClusterSeries) Trace {
	n := len(s.Records)
	t := Trace{
		Type:          "scatter",
		Mode:          "markers",
		Name:          fmt.Sprintf("Cluster %d", s.ClusterID),
		X:             make([]float64, 0, n),
		Y:             make([]float64, 0, n),
		IDs:           make([]string, 0, n),
		Text:          make([]string, 0, n),
		HoverTemplate: "%{text}<extra></extra>",
		Marker: Marker{
			Size:    make([]float64, 0, n),
			Color:   s.Color,
			Opacity: 1,
			Line:    MarkerLine{Width: 1, Color: "white"},
		},
	}
	for _, r := range s.Records {
		t.X = append(t.X, r.X)
		t.Y = append(t.Y, r.Y)
		t.IDs = append(t.IDs, strconv.Itoa(r.ID))
		t.Text = append(t.Text, HoverText(r))
		t.Marker.Size = append(t.Marker.Size, r.MarkerSize)
	}
	return t
}

// HoverText builds the tooltip of one marker. Only the cluster, category,
// title, score and comment count are shown.
func HoverText(r models.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<b style="font-size:14px;">Cluster %d</b><br><br>`, r.ClusterID)
	fmt.Fprintf(&b, "<b>Subreddit:</b> r/%s<br>", html.EscapeString(r.Category))
	fmt.Fprintf(&b, "<b>Title:</b> %s<br>", html.EscapeString(r.Title))
	fmt.Fprintf(&b, "<b>Score:</b> %d<br>", r.Score)
	fmt.Fprintf(&b, "<b>Comments:</b> %d", r.CommentCount)
	return b.String()
}

// NewLayout returns the fixed chart styling. It does not depend on data.
func NewLayout() Layout {
	hidden := Axis{}
	return Layout{
		PaperBGColor: "rgba(0,0,0,0)",
		PlotBGColor:  "rgba(0,0,0,0)",
		Font:         Font{Family: fontFamily},
		XAxis:        hidden,
		YAxis:        hidden,
		Legend: Legend{
			Title:       LegendTitle{Text: "<b>Clusters</b>", Font: Font{Size: 13}},
			BGColor:     "rgba(255,255,255,0.9)",
			BorderColor: "#e2e8f0",
			BorderWidth: 1,
			Font:        Font{Size: 12},
			ItemSizing:  "constant",
		},
		HoverLabel: HoverLabel{
			BGColor:     "white",
			BorderColor: "#e2e8f0",
			Font:        Font{Family: fontFamily, Size: 12, Color: "#1a202c"},
		},
		Margin: Margin{L: 20, R: 20, T: 20, B: 20},
		// Keeps zoom state across filter changes.
		UIRevision: "clusters",
	}
}
