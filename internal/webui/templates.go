package webui

import (
	"fmt"
	"html/template"
)

// Templates contains all HTML templates for the dashboard
var Templates = template.Must(template.New("").Funcs(template.FuncMap{
	"levelClass": func(level string) string {
		switch level {
		case "error", "fatal", "panic":
			return "log-error"
		case "warn":
			return "log-warn"
		case "debug", "trace":
			return "log-debug"
		default:
			return "log-info"
		}
	},
	"percent": func(risk float64) string {
		return fmt.Sprintf("%.0f%%", risk*100)
	},
	"coord": func(v float64) string {
		return fmt.Sprintf("%.2f", v)
	},
}).Parse(`
{{define "base"}}
<!DOCTYPE html>
<html lang="ko">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <link rel="preconnect" href="https://fonts.googleapis.com">
    <link rel="preconnect" href="https://fonts.gstatic.com" crossorigin>
    <link href="https://fonts.googleapis.com/css2?family=JetBrains+Mono:wght@400;500;600&family=Outfit:wght@400;500;600;700&display=swap" rel="stylesheet">
    <link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
    <style>
        :root {
            --bg-primary: #0d1117;
            --bg-secondary: #161b22;
            --bg-tertiary: #21262d;
            --border-color: #30363d;
            --text-primary: #e6edf3;
            --text-secondary: #8b949e;
            --text-muted: #6e7681;
            --risk-high: #ef4444;
            --risk-medium: #eab308;
            --risk-low: #22c55e;
            --accent-blue: #58a6ff;
        }

        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        body {
            font-family: 'Outfit', -apple-system, BlinkMacSystemFont, sans-serif;
            background: var(--bg-primary);
            color: var(--text-primary);
            line-height: 1.5;
            height: 100vh;
            overflow: hidden;
        }

        .layout {
            display: grid;
            grid-template-columns: 380px 1fr;
            height: 100vh;
        }

        .panel {
            background: var(--bg-secondary);
            border-right: 1px solid var(--border-color);
            display: flex;
            flex-direction: column;
            min-height: 0;
        }

        .panel-header {
            padding: 1.25rem 1.25rem 1rem;
            border-bottom: 1px solid var(--border-color);
        }

        .panel-header h1 {
            font-size: 1.4rem;
            font-weight: 700;
            letter-spacing: 0.02em;
        }

        .panel-header .meta {
            font-family: 'JetBrains Mono', monospace;
            font-size: 0.75rem;
            color: var(--text-secondary);
            margin-top: 0.25rem;
        }

        .fir-buttons {
            display: flex;
            flex-wrap: wrap;
            gap: 0.4rem;
            padding: 0.75rem 1.25rem;
            border-bottom: 1px solid var(--border-color);
        }

        form.inline {
            display: inline;
        }

        button.chip {
            background: var(--bg-tertiary);
            border: 1px solid var(--border-color);
            color: var(--text-secondary);
            border-radius: 999px;
            padding: 0.25rem 0.75rem;
            font: inherit;
            font-size: 0.8rem;
            cursor: pointer;
        }

        button.chip.active {
            border-color: var(--accent-blue);
            color: var(--text-primary);
        }

        button.chip .count {
            font-family: 'JetBrains Mono', monospace;
            color: var(--text-muted);
            margin-left: 0.25rem;
        }

        .alert-list {
            flex: 1;
            overflow-y: auto;
            padding: 0.5rem 0.75rem;
        }

        .alert-item {
            width: 100%;
            text-align: left;
            background: var(--bg-tertiary);
            border: 1px solid var(--border-color);
            border-left: 4px solid var(--tier-color);
            border-radius: 6px;
            color: inherit;
            font: inherit;
            padding: 0.6rem 0.75rem;
            margin-bottom: 0.5rem;
            cursor: pointer;
        }

        .alert-item.selected {
            border-color: var(--accent-blue);
            box-shadow: 0 0 0 1px var(--accent-blue);
        }

        .alert-item .pair {
            font-weight: 600;
        }

        .alert-item .details {
            display: flex;
            justify-content: space-between;
            font-family: 'JetBrains Mono', monospace;
            font-size: 0.75rem;
            color: var(--text-secondary);
        }

        .badge {
            color: var(--tier-color);
            font-weight: 600;
        }

        .empty {
            color: var(--text-muted);
            text-align: center;
            padding: 2rem 0;
        }

        .log-container {
            height: 160px;
            overflow-y: auto;
            border-top: 1px solid var(--border-color);
            padding: 0.5rem 0.75rem;
            font-family: 'JetBrains Mono', monospace;
            font-size: 0.7rem;
        }

        .log-entry {
            display: flex;
            gap: 0.5rem;
            white-space: nowrap;
        }

        .log-time { color: var(--text-muted); }
        .log-level { width: 3.2rem; text-transform: uppercase; }
        .log-info .log-level { color: var(--accent-blue); }
        .log-warn .log-level { color: var(--risk-medium); }
        .log-error .log-level { color: var(--risk-high); }
        .log-debug .log-level { color: var(--text-muted); }

        .map-area {
            position: relative;
            min-height: 0;
        }

        #map {
            position: absolute;
            inset: 0;
            transition: transform 0.4s ease;
        }

        #map.mode-3D {
            transform: perspective(1200px) rotateX(25deg) scale(1.1);
        }

        .map-controls {
            position: absolute;
            top: 1rem;
            right: 1rem;
            z-index: 1000;
            display: flex;
            gap: 0.4rem;
        }

        .date-carousel {
            position: absolute;
            bottom: 1.25rem;
            left: 50%;
            transform: translateX(-50%);
            z-index: 1000;
            display: flex;
            align-items: center;
            gap: 0.5rem;
            background: rgba(22, 27, 34, 0.9);
            border: 1px solid var(--border-color);
            border-radius: 999px;
            padding: 0.35rem 0.75rem;
            font-family: 'JetBrains Mono', monospace;
        }

        .date-carousel .date {
            color: var(--text-muted);
            padding: 0 0.35rem;
        }

        .date-carousel .date.current {
            color: var(--text-primary);
            font-weight: 600;
        }

        button.arrow {
            background: none;
            border: none;
            color: var(--text-secondary);
            font-size: 1rem;
            cursor: pointer;
        }

        button.arrow:disabled {
            color: var(--border-color);
            cursor: default;
        }

        .focus-card {
            position: absolute;
            top: 1rem;
            left: 1rem;
            z-index: 1000;
            background: rgba(22, 27, 34, 0.92);
            border: 1px solid var(--border-color);
            border-left: 4px solid var(--tier-color);
            border-radius: 6px;
            padding: 0.6rem 0.8rem;
            font-size: 0.85rem;
        }

        .focus-card .coords {
            font-family: 'JetBrains Mono', monospace;
            color: var(--text-secondary);
            font-size: 0.75rem;
        }
    </style>
</head>
<body>
    {{template "dashboard" .}}
    <form id="select-form" method="post" action="/view/select" style="display:none">
        <input type="hidden" name="id" id="select-id">
    </form>
    <script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
    <script>
        const view = {{.View}};
        const regions = {{.Regions}};
        const defaultCenter = [36.5, 127.5];
        const defaultZoom = 7;
        const focusZoom = 8;

        const map = L.map('map', { zoomControl: false }).setView(defaultCenter, defaultZoom);
        L.tileLayer('https://{s}.basemaps.cartocdn.com/dark_all/{z}/{x}/{y}{r}.png', {
            attribution: '&copy; OpenStreetMap contributors &copy; CARTO',
            maxZoom: 18
        }).addTo(map);

        if (view.mapMode === 'FIR') {
            regions.forEach(r => {
                L.rectangle(r.bounds, { color: '#58a6ff', weight: 1, fillOpacity: 0.05 }).addTo(map);
                L.tooltip({ permanent: true, direction: 'center' })
                    .setLatLng(r.center)
                    .setContent(r.displayName + ' · ' + r.country)
                    .addTo(map);
            });
        }

        (view.alerts || []).forEach(a => {
            const marker = L.circleMarker(a.location, {
                radius: a.radius,
                color: a.color,
                fillColor: a.color,
                fillOpacity: a.selected ? 0.8 : 0.45,
                weight: a.selected ? 3 : 1
            }).addTo(map);
            marker.bindTooltip(a.satA + ' / ' + a.satB + ' (' + Math.round(a.risk * 100) + '%)');
            marker.on('click', () => selectAlert(a.id));
        });

        if (view.selected) {
            map.flyTo(view.selected.location, focusZoom);
        }

        function selectAlert(id) {
            document.getElementById('select-id').value = id;
            document.getElementById('select-form').submit();
        }

        // Reload when the poller has applied a new batch
        setInterval(() => {
            fetch('/api/view')
                .then(r => r.json())
                .then(data => {
                    if (data.lastUpdate !== view.lastUpdate) {
                        location.reload();
                    }
                })
                .catch(() => {});
        }, {{.RefreshSeconds}} * 1000);

        setInterval(() => {
            fetch('/api/logs')
                .then(r => r.json())
                .then(data => {
                    const container = document.querySelector('.log-container');
                    if (container && data.entries) {
                        const wasAtBottom = container.scrollHeight - container.scrollTop <= container.clientHeight + 50;
                        container.innerHTML = data.entries.map(e =>
                            '<div class="log-entry log-' + e.level + '">' +
                            '<span class="log-time">' + new Date(e.timestamp).toLocaleTimeString() + '</span>' +
                            '<span class="log-level">' + e.level + '</span>' +
                            '<span class="log-message">' + escapeHtml(e.message) + '</span>' +
                            '</div>'
                        ).join('');
                        if (wasAtBottom) container.scrollTop = container.scrollHeight;
                    }
                })
                .catch(() => {});
        }, {{.RefreshSeconds}} * 1000);

        function escapeHtml(text) {
            const div = document.createElement('div');
            div.textContent = text;
            return div.innerHTML;
        }
    </script>
</body>
</html>
{{end}}

{{define "dashboard"}}
<div class="layout">
    <aside class="panel">
        <div class="panel-header">
            <h1>{{.Title}}</h1>
            <div class="meta">
                업데이트: {{if .View.LastUpdate}}{{.View.LastUpdate}}{{else}}대기 중{{end}}
                · {{len .View.Alerts}}/{{.View.TotalAlerts}} alerts
            </div>
            <div class="meta">{{.Version}} · up {{.Uptime}}{{with .Upstream}} · API {{.}}{{end}}</div>
        </div>

        <div class="fir-buttons">
            <form class="inline" method="post" action="/view/fir">
                <input type="hidden" name="fir" value="all">
                <button class="chip {{if eq .View.Filter "all"}}active{{end}}" type="submit">전체<span class="count">{{.View.TotalAlerts}}</span></button>
            </form>
            {{range .Regions}}
            <form class="inline" method="post" action="/view/fir">
                <input type="hidden" name="fir" value="{{.Name}}">
                <button class="chip {{if .Active}}active{{end}}" type="submit" title="{{.Description}} · {{.Country}}">{{.DisplayName}}<span class="count">{{.Count}}</span></button>
            </form>
            {{end}}
        </div>

        <div class="alert-list">
            {{range .View.Alerts}}
            <form method="post" action="/view/select">
                <input type="hidden" name="id" value="{{.ID}}">
                <button type="submit" class="alert-item {{if .Selected}}selected{{end}}" style="--tier-color: {{.Color}}">
                    <div class="pair">{{.SatA}} ↔ {{.SatB}}</div>
                    <div class="details">
                        <span>{{.OwnerA}} / {{.OwnerB}} · {{.FIR}}</span>
                        <span class="badge">{{.Label}} {{percent .Risk}}</span>
                    </div>
                </button>
            </form>
            {{else}}
            <div class="empty">No conjunction alerts</div>
            {{end}}
        </div>

        <div class="log-container">
            {{range .Logs}}
            <div class="log-entry {{levelClass .Level}}">
                <span class="log-time">{{.Timestamp.Format "15:04:05"}}</span>
                <span class="log-level">{{.Level}}</span>
                <span class="log-message">{{.Message}}</span>
            </div>
            {{end}}
        </div>
    </aside>

    <main class="map-area">
        <div id="map" class="mode-{{.View.MapMode}}"></div>

        {{with .View.Selected}}
        <div class="focus-card" style="--tier-color: {{.Color}}">
            <div><strong>{{.SatA}}</strong> ↔ <strong>{{.SatB}}</strong></div>
            <div class="badge">{{.Label}} {{percent .Risk}}</div>
            <div class="coords">{{coord .Location.Lat}}, {{coord .Location.Lon}} · {{.Timestamp}}</div>
            <form class="inline" method="post" action="/view/clear">
                <button class="chip" type="submit">닫기</button>
            </form>
        </div>
        {{end}}

        <div class="map-controls">
            {{range .MapModes}}
            <form class="inline" method="post" action="/view/mode">
                <input type="hidden" name="mode" value="{{.}}">
                <button class="chip {{if eq . $.View.MapMode}}active{{end}}" type="submit">{{.}}</button>
            </form>
            {{end}}
        </div>

        <div class="date-carousel">
            <form class="inline" method="post" action="/view/date">
                <input type="hidden" name="dir" value="prev">
                <button class="arrow" type="submit" {{if not .View.CanPrev}}disabled{{end}}>‹</button>
            </form>
            {{range .View.Carousel}}
            <span class="date {{if eq . $.View.SelectedDate}}current{{end}}">{{.}}</span>
            {{end}}
            <form class="inline" method="post" action="/view/date">
                <input type="hidden" name="dir" value="next">
                <button class="arrow" type="submit" {{if not .View.CanNext}}disabled{{end}}>›</button>
            </form>
        </div>
    </main>
</div>
{{end}}
`))
