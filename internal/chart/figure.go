package chart

// Figure is a plotly.js figure document: one trace per cluster plus a
// fixed layout.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is a scatter series of markers.
type Trace struct {
	Type          string    `json:"type"`
	Mode          string    `json:"mode"`
	Name          string    `json:"name"`
	X             []float64 `json:"x"`
	Y             []float64 `json:"y"`
	IDs           []string  `json:"ids"`
	Text          []string  `json:"text"`
	HoverTemplate string    `json:"hovertemplate"`
	Marker        Marker    `json:"marker"`
}

// Marker styles the points of a trace.
type Marker struct {
	Size    []float64  `json:"size"`
	Color   string     `json:"color"`
	Opacity float64    `json:"opacity"`
	Line    MarkerLine `json:"line"`
}

// MarkerLine is the outline drawn around every marker.
type MarkerLine struct {
	Width float64 `json:"width"`
	Color string  `json:"color"`
}

// Layout is the chart-level styling.
type Layout struct {
	PaperBGColor string     `json:"paper_bgcolor"`
	PlotBGColor  string     `json:"plot_bgcolor"`
	Font         Font       `json:"font"`
	XAxis        Axis       `json:"xaxis"`
	YAxis        Axis       `json:"yaxis"`
	Legend       Legend     `json:"legend"`
	HoverLabel   HoverLabel `json:"hoverlabel"`
	Margin       Margin     `json:"margin"`
	UIRevision   string     `json:"uirevision,omitempty"`
}

// Font describes text styling.
type Font struct {
	Family string `json:"family,omitempty"`
	Size   int    `json:"size,omitempty"`
	Color  string `json:"color,omitempty"`
}

// Axis hides every decoration of a projection axis.
type Axis struct {
	ShowTickLabels bool `json:"showticklabels"`
	ShowGrid       bool `json:"showgrid"`
	ZeroLine       bool `json:"zeroline"`
	ShowLine       bool `json:"showline"`
}

// Legend is the cluster legend box.
type Legend struct {
	Title       LegendTitle `json:"title"`
	BGColor     string      `json:"bgcolor"`
	BorderColor string      `json:"bordercolor"`
	BorderWidth int         `json:"borderwidth"`
	Font        Font        `json:"font"`
	ItemSizing  string      `json:"itemsizing"`
}

// LegendTitle is the heading above the legend entries.
type LegendTitle struct {
	Text string `json:"text"`
	Font Font   `json:"font"`
}

// HoverLabel styles the tooltip box.
type HoverLabel struct {
	BGColor     string `json:"bgcolor"`
	BorderColor string `json:"bordercolor"`
	Font        Font   `json:"font"`
}

// Margin is the plot margin in pixels.
type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}
