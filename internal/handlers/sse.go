package handlers

import (
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"ecom-infographic/internal/models"
	"ecom-infographic/internal/views"
)

var kpiTemplate = template.Must(template.New("kpi").Funcs(template.FuncMap{
	"rupiah": FormatRupiah,
	"comma":  formatComma,
}).Parse(`
<div id="kpi-content" class="kpi-cards">
<div class="kpi-card"><span class="kpi-label">Rows (transactions)</span><strong>{{comma .Rows}}</strong></div>
<div class="kpi-card"><span class="kpi-label">Total orders</span><strong>{{comma .Orders}}</strong></div>
<div class="kpi-card"><span class="kpi-label">Total revenue</span><strong>{{rupiah .Revenue}}</strong></div>
<div class="kpi-card"><span class="kpi-label">AOV</span><strong>{{rupiah .AOV}}</strong></div>
</div>`))

var tableTemplate = template.Must(template.New("table").Funcs(template.FuncMap{
	"rupiah": FormatRupiah,
}).Parse(`
<div id="table-content">
{{if .NoData}}<p class="no-data">No transactions match the current filters.</p>{{else}}
<table class="modern-table">
<thead><tr><th>Date</th><th>Region</th><th>Channel</th><th>Product</th><th>Orders</th><th>Revenue</th><th>AOV</th></tr></thead>
<tbody>
{{range .Rows}}<tr>
<td>{{.Date}}</td>
<td>{{.Region}}</td>
<td>{{.Channel}}</td>
<td><span class="tier-badge">{{.Product}}</span></td>
<td>{{.Orders}}</td>
<td><strong>{{rupiah .Revenue}}</strong></td>
<td>{{rupiah .AOV}}</td>
</tr>{{end}}
</tbody>
</table>
{{end}}
</div>`))

// FormatRupiah renders an IDR amount with dot thousand separators,
// e.g. "Rp 1.234.567".
func FormatRupiah(v float64) string {
	return "Rp " + strings.ReplaceAll(formatComma(int(v+0.5)), ",", ".")
}

func formatComma(n int) string {
	if n < 0 {
		return "-" + formatComma(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", formatComma(n/1000), n%1000)
}

// SSEHandlers stream recomputed view frames to the browser via datastar:
// KPI cards and the details table as element patches, chart frames as
// signal patches picked up by vega-embed.
type SSEHandlers struct {
	hub    *Hub
	logger *slog.Logger
}

func NewSSEHandlers(hub *Hub, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{hub: hub, logger: logger}
}

// HandleFrames is the long-lived stream: it replays the latest frame per
// view, then pushes every subsequent recompute until the client leaves.
func (h *SSEHandlers) HandleFrames(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	id, ch, replay := h.hub.register()
	defer h.hub.unregister(id)

	for _, f := range replay {
		if err := h.patch(sse, f); err != nil {
			return
		}
	}
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case frame, ok := <-ch:
			if !ok {
				return
			}
			if err := h.patch(sse, frame); err != nil {
				return
			}
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}
	}
}

func (h *SSEHandlers) patch(sse *datastar.ServerSentEventGenerator, frame views.Frame) error {
	switch frame.View {
	case views.NameKPI:
		summary, ok := frame.Data.(models.Summary)
		if !ok {
			return fmt.Errorf("unexpected kpi frame payload %T", frame.Data)
		}
		var buf strings.Builder
		if err := kpiTemplate.Execute(&buf, summary); err != nil {
			h.logger.Error("render kpi cards", "error", err)
			return err
		}
		return sse.PatchElements(buf.String())

	case views.NameTable:
		tbl, ok := frame.Data.(views.TableFrame)
		if !ok {
			return fmt.Errorf("unexpected table frame payload %T", frame.Data)
		}
		var buf strings.Builder
		if err := tableTemplate.Execute(&buf, tbl); err != nil {
			h.logger.Error("render details table", "error", err)
			return err
		}
		return sse.PatchElements(buf.String())

	default:
		signals, err := json.Marshal(map[string]any{frame.View + "Frame": frame.Data})
		if err != nil {
			h.logger.Error("marshal chart frame", "view", frame.View, "error", err)
			return err
		}
		return sse.PatchSignals(signals)
	}
}
