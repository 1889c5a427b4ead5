// Package report renders the end-of-run HTML summary: one table per outlet
// with score badges, dates, and verification verdicts, dark-mode styled for
// embedding in the digest view.
package report

import (
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/biocracy/urbanous/internal/domain"
)

const (
	badgeHighMin = 80
	badgeMidMin  = 50
)

var tmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"badge": badgeStyle,
}).Parse(`<h1 style="color:#e2e8f0;border-bottom:2px solid #3b82f6;padding-bottom:10px;margin-bottom:20px;">Deep Analysis: {{.Category}} ({{.Timeframe}})</h1>
{{range .Outlets}}<h2 style="color:#93c5fd;margin-top:24px;">{{.Name}}</h2>
<table style="width:100%;border-collapse:collapse;background-color:#0f172a;">
<tr>
<th style="text-align:left;padding:10px 16px;color:#94a3b8;border-bottom:1px solid #1e293b;">Score</th>
<th style="text-align:left;padding:10px 16px;color:#94a3b8;border-bottom:1px solid #1e293b;">Article</th>
<th style="text-align:left;padding:10px 16px;color:#94a3b8;border-bottom:1px solid #1e293b;">Date</th>
<th style="text-align:left;padding:10px 16px;color:#94a3b8;border-bottom:1px solid #1e293b;">Verdict</th>
</tr>
{{range .Articles}}<tr>
<td style="padding:10px 16px;border-bottom:1px solid #1e293b;"><span style="{{badge .Score}}">{{.Score}}</span></td>
<td style="padding:10px 16px;border-bottom:1px solid #1e293b;"><a href="{{.URL}}" style="color:#e2e8f0;text-decoration:none;">{{.Title}}</a></td>
<td style="padding:10px 16px;border-bottom:1px solid #1e293b;color:#94a3b8;">{{if .DateStr}}{{.DateStr}}{{else}}&ndash;{{end}}</td>
<td style="padding:10px 16px;border-bottom:1px solid #1e293b;color:#94a3b8;">{{.Verdict}}</td>
</tr>
{{end}}</table>
{{end}}`))

type outletSection struct {
	Name     string
	Articles []domain.ArticleRecord
}

type reportData struct {
	Category  string
	Timeframe string
	Outlets   []outletSection
}

// Build assembles the summary document. Outlets with no surviving articles
// are omitted; articles sort by descending score within each outlet.
func Build(policy domain.ScanPolicy, outlets []domain.Outlet, articles []domain.ArticleRecord) (string, error) {
	bySource := make(map[string][]domain.ArticleRecord)
	for _, a := range articles {
		bySource[a.Source] = append(bySource[a.Source], a)
	}

	data := reportData{Category: policy.Category, Timeframe: policy.Timeframe}
	for _, o := range outlets {
		rows := bySource[o.Name]
		if len(rows) == 0 {
			continue
		}
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Score > rows[j].Score })
		data.Outlets = append(data.Outlets, outletSection{Name: o.Name, Articles: rows})
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return b.String(), nil
}

func badgeStyle(score int) template.CSS {
	bg, fg, border := "#450a0a", "#f87171", "#b91c1c"
	switch {
	case score > badgeHighMin:
		bg, fg, border = "#052e16", "#4ade80", "#15803d"
	case score > badgeMidMin:
		bg, fg, border = "#422006", "#facc15", "#a16207"
	}
	return template.CSS(fmt.Sprintf(
		"display:inline-block;background-color:%s;color:%s;border:1px solid %s;padding:4px 8px;border-radius:6px;font-weight:bold;min-width:40px;text-align:center;",
		bg, fg, border))
}
