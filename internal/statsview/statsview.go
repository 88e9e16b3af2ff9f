//go:build statsview
// +build statsview

package statsview

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"text/template"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/statsview/statics"
	"github.com/go-echarts/statsview/viewer"
	"github.com/rs/cors"
)

const (
	Address = "localhost:12600"

	pagePath = "/debug/statsview"
	viewMMC3 = "mmc3"
)

// mapperViewer charts the IRQ counter clocks of the last completed frame.
type mapperViewer struct {
	smgr    *viewer.StatsMgr
	graph   *charts.Line
	monitor *Monitor
}

func newMapperViewer(monitor *Monitor) viewer.Viewer {
	graph := charts.NewLine()
	graph.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "MMC3 counter clocks per frame"}),
		charts.WithLegendOpts(opts.Legend{Show: true}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Time"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Count"}),
		charts.WithInitializationOpts(opts.Initialization{
			Width:  "600px",
			Height: "400px",
			Theme:  string(viewer.DefaultTheme),
		}),
	)
	graph.SetXAxis([]string{}).
		AddSeries("Natural edges", []opts.LineData{}).
		AddSeries("Synthetic edges", []opts.LineData{}).
		AddSeries("IRQs", []opts.LineData{})
	graph.AddJSFuncs(syncScript(graph.ChartID, viewMMC3))

	return &mapperViewer{graph: graph, monitor: monitor}
}

func (vr *mapperViewer) SetStatsMgr(smgr *viewer.StatsMgr) {
	vr.smgr = smgr
}

func (vr *mapperViewer) Name() string {
	return viewMMC3
}

func (vr *mapperViewer) View() *charts.Line {
	return vr.graph
}

func (vr *mapperViewer) Serve(w http.ResponseWriter, _ *http.Request) {
	if vr.smgr != nil {
		vr.smgr.Tick()
	}

	metrics := viewer.Metrics{
		Values: vr.monitor.Values(),
		Time:   time.Now().Format(viewer.DefaultTimeFormat),
	}

	bs, _ := json.Marshal(metrics)
	w.Write(bs)
}

// syncScript is the polling script the page runs for one chart.
func syncScript(chartID, route string) string {
	tpl := template.Must(template.New("view").Parse(viewer.DefaultTemplate))

	data := struct {
		Interval  int
		MaxPoints int
		Addr      string
		Route     string
		ViewID    string
	}{
		Interval:  viewer.Interval(),
		MaxPoints: viewer.DefaultMaxPoints,
		Addr:      viewer.LinkAddr(),
		Route:     route,
		ViewID:    chartID,
	}

	buf := bytes.Buffer{}
	if err := tpl.Execute(&buf, data); err != nil {
		panic("statsview: " + err.Error())
	}
	return buf.String()
}

func newHandler(ctx context.Context, monitor *Monitor) http.Handler {
	views := []viewer.Viewer{
		newMapperViewer(monitor),
		viewer.NewGoroutinesViewer(),
		viewer.NewHeapViewer(),
	}
	smgr := viewer.NewStatsMgr(ctx)

	page := components.NewPage()
	page.PageTitle = "txrom-trace"
	page.AssetsHost = fmt.Sprintf("http://%s%s/statics/", viewer.LinkAddr(), pagePath)
	page.Assets.JSAssets.Add("jquery.min.js")

	mux := http.NewServeMux()
	for _, v := range views {
		v.SetStatsMgr(smgr)
		page.AddCharts(v.View())
		mux.HandleFunc(pagePath+"/view/"+v.Name(), v.Serve)
	}

	mux.HandleFunc(pagePath, func(w http.ResponseWriter, _ *http.Request) {
		page.Render(w)
	})

	assets := map[string]string{
		"echarts.min.js":     statics.EchartJS,
		"jquery.min.js":      statics.JqueryJS,
		"themes/westeros.js": statics.WesterosJS,
		"themes/macarons.js": statics.MacaronsJS,
	}
	for name, js := range assets {
		js := js
		mux.HandleFunc(pagePath+"/statics/"+name, func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(js))
		})
	}

	return cors.AllowAll().Handler(mux)
}

// Launch starts the stats server in a new goroutine. The mapper chart shows
// whatever is published to monitor.
func Launch(output io.Writer, monitor *Monitor) {
	viewer.SetConfiguration(viewer.WithAddr(Address))
	handler := newHandler(context.Background(), monitor)

	go func() {
		if err := http.ListenAndServe(Address, handler); err != nil {
			log.Printf("statsview: %v\n", err)
		}
	}()

	fmt.Fprintf(output, "stats server available at http://%s%s\n", Address, pagePath)
}

// Available returns true if a statsview is available to launch.
func Available() bool {
	return true
}
