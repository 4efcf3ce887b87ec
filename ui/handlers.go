package ui

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "tabular/internal/errors"
	"tabular/internal/render"

	"tabular/domain/frame"
	"tabular/domain/series"
)

type frameSummary struct {
	Name string
	Rows int
	Cols int
}

type cellView struct {
	Value string
	NA    bool
}

type frameView struct {
	Name    string
	Rows    int
	Cols    int
	Header  []string
	Records [][]cellView
	Columns []frame.ColumnInfo
}

const maxDetailRows = 500

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/frames", http.StatusFound)
}

func (a *App) handleFrames(w http.ResponseWriter, r *http.Request) {
	summaries := make([]frameSummary, 0)
	for _, name := range a.registry.Names() {
		f, err := a.registry.Get(name)
		if err != nil {
			continue
		}
		rows, cols := f.Shape()
		summaries = append(summaries, frameSummary{Name: name, Rows: rows, Cols: cols})
	}
	a.renderTemplate(w, "frames.html", map[string]interface{}{
		"Frames": summaries,
	})
}

func (a *App) handleFrameDetail(w http.ResponseWriter, r *http.Request) {
	f, ok := a.lookupFrame(w, r)
	if !ok {
		return
	}

	shown := f
	if f.NRows() > maxDetailRows {
		shown = f.Head(maxDetailRows)
	}

	names := shown.Columns()
	cols := make([]*series.Series, len(names))
	for j, name := range names {
		cols[j], _ = shown.Column(name)
	}

	records := make([][]cellView, shown.NRows())
	for i := range records {
		row := make([]cellView, 0, len(names)+1)
		label, _ := shown.Index().Label(i)
		row = append(row, cellView{Value: label})
		for _, col := range cols {
			if col.IsNA(i) {
				row = append(row, cellView{NA: true})
				continue
			}
			row = append(row, cellView{Value: col.FormatAt(i)})
		}
		records[i] = row
	}

	nRows, nCols := f.Shape()
	a.renderTemplate(w, "frame.html", frameView{
		Name:    chi.URLParam(r, "name"),
		Rows:    nRows,
		Cols:    nCols,
		Header:  append([]string{f.Index().Name()}, names...),
		Records: records,
		Columns: f.Info(),
	})
}

func (a *App) handleFrameJSON(w http.ResponseWriter, r *http.Request) {
	f, ok := a.lookupFrame(w, r)
	if !ok {
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"name":    chi.URLParam(r, "name"),
		"columns": f.Columns(),
		"records": f.Records(),
	})
}

func (a *App) handleFrameDescribe(w http.ResponseWriter, r *http.Request) {
	f, ok := a.lookupFrame(w, r)
	if !ok {
		return
	}
	desc, err := f.Describe()
	if err != nil {
		a.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	names := desc.Columns()
	cols := make([]*series.Series, len(names))
	for j, name := range names {
		cols[j], _ = desc.Column(name)
	}

	records := make([][]cellView, desc.NRows())
	for i := range records {
		row := make([]cellView, 0, len(names)+1)
		label, _ := desc.Index().Label(i)
		row = append(row, cellView{Value: label})
		for _, col := range cols {
			row = append(row, cellView{Value: col.FormatAt(i)})
		}
		records[i] = row
	}

	a.renderTemplate(w, "describe.html", frameView{
		Name:    chi.URLParam(r, "name"),
		Header:  append([]string{"statistic"}, names...),
		Records: records,
	})
}

// handleFrameReport serves the frame as a standalone HTML report, the
// same document the describe --report flag writes to disk.
func (a *App) handleFrameReport(w http.ResponseWriter, r *http.Request) {
	f, ok := a.lookupFrame(w, r)
	if !ok {
		return
	}
	name := chi.URLParam(r, "name")

	nRows, nCols := f.Shape()
	report := render.NewReport(name, render.DefaultOptions()).
		AddText(fmt.Sprintf("%d rows × %d columns.", nRows, nCols))
	if desc, err := f.Describe(); err == nil {
		report.AddHeading(2, "Summary statistics").AddFrame("", desc)
	}
	report.AddHeading(2, "Preview").AddFrame("", f.Head(maxDetailRows))

	page, err := report.HTML()
	if err != nil {
		a.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(page); err != nil {
		a.logger.Error("writing report: %v", err)
	}
}

func (a *App) lookupFrame(w http.ResponseWriter, r *http.Request) (*frame.Frame, bool) {
	name := chi.URLParam(r, "name")
	f, err := a.registry.Get(name)
	if err != nil {
		a.writeError(w, http.StatusNotFound, err)
		return nil, false
	}
	return f, true
}

func (a *App) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		a.logger.Error("encoding response: %v", err)
	}
}

func (a *App) writeError(w http.ResponseWriter, status int, err error) {
	a.writeJSON(w, status, map[string]string{
		"error": err.Error(),
		"code":  apperrors.GetCode(err),
	})
}
