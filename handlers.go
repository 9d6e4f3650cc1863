package filterbox

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/eringen/filterbox/editor"
	"github.com/eringen/filterbox/filter"
	"github.com/eringen/filterbox/views"
)

// paramsResponse is returned after every parameter change. On a stale
// update it carries the session's current state instead.
type paramsResponse struct {
	Filter string             `json:"filter"`
	Params map[string]float64 `json:"params"`
	Rev    uint64             `json:"rev"`
	Stale  bool               `json:"stale,omitempty"`
}

type stageResponse struct {
	Stage string `json:"stage"`
}

func (a *App) handleHome(c echo.Context) error {
	_, ed, err := a.workspace(c, true)
	if err != nil {
		return err
	}
	if img, ok := ed.Image(); ok && ed.Stage() == editor.Editing {
		return Render(c, a.Views.Editor(views.EditorData{
			Site:      a.siteConfig(),
			CSRFToken: CsrfToken(c),
			ImageName: img.Name,
			ImageURL:  "/editor/image/",
			Filter:    ed.Filter(),
			Sliders:   sliders(ed.Params()),
			Order:     composeOrder(),
			Rev:       ed.Revision(),
		}))
	}
	return Render(c, a.Views.Intake(views.IntakeData{
		Site:        a.siteConfig(),
		CSRFToken:   CsrfToken(c),
		MaxUploadMB: a.Config.MaxUploadSize >> 20,
	}))
}

func (a *App) handleUpload(c echo.Context) error {
	if !a.limiter.Allow(c.RealIP()) {
		return jsonError(c, http.StatusTooManyRequests, "Too many requests. Try again later.")
	}
	id, ed, err := a.workspace(c, true)
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "No image file provided")
	}
	files := form.File[uploadField]
	if len(files) > 1 {
		a.Log.Debug().Str("workspace", id).Int("ignored", len(files)-1).Msg("extra files in drop ignored")
	}
	uploads, err := readUpload(files, a.Config.MaxUploadSize)
	switch {
	case errors.Is(err, editor.ErrNoFile):
		return jsonError(c, http.StatusBadRequest, "No image file provided")
	case errors.Is(err, errTooLarge):
		return jsonError(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("File too large (max %dMB)", a.Config.MaxUploadSize>>20))
	case err != nil:
		return err
	}

	if err := ed.Accept(uploads); err != nil {
		if errors.Is(err, editor.ErrStage) {
			return jsonError(c, http.StatusConflict, "An image is already loaded. Choose another image first.")
		}
		return err
	}
	a.Log.Info().Str("workspace", id).Str("file", uploads[0].Name).Int("bytes", len(uploads[0].Data)).Msg("image accepted")

	if wantsJSON(c) {
		return c.JSON(http.StatusOK, stageResponse{Stage: ed.Stage().String()})
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// handleImage serves the original bytes for the live preview.
func (a *App) handleImage(c echo.Context) error {
	_, ed, err := a.workspace(c, false)
	if err != nil {
		return echo.ErrNotFound
	}
	img, ok := ed.Image()
	if !ok {
		return echo.ErrNotFound
	}
	return c.Blob(http.StatusOK, img.ContentType, img.Data)
}

func (a *App) handleParams(c echo.Context) error {
	_, ed, err := a.workspace(c, false)
	if err != nil {
		return jsonError(c, http.StatusConflict, "No image loaded")
	}
	form, err := c.FormParams()
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid form")
	}
	p, err := filter.ParseParams(form)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err.Error())
	}
	var rev uint64
	if raw := form.Get(revField); raw != "" {
		if rev, err = strconv.ParseUint(raw, 10, 64); err != nil {
			return jsonError(c, http.StatusBadRequest, "Invalid revision")
		}
	}
	composed, cur, err := ed.SetParamsAt(p, rev)
	switch {
	case errors.Is(err, editor.ErrStale):
		return c.JSON(http.StatusOK, paramsResponse{Filter: composed, Params: ed.Params().Map(), Rev: cur, Stale: true})
	case errors.Is(err, editor.ErrStage):
		return jsonError(c, http.StatusConflict, "No image loaded")
	case err != nil:
		return err
	}
	return c.JSON(http.StatusOK, paramsResponse{Filter: composed, Params: p.Map(), Rev: cur})
}

func (a *App) handleExport(c echo.Context) error {
	if !a.limiter.Allow(c.RealIP()) {
		return jsonError(c, http.StatusTooManyRequests, "Too many requests. Try again later.")
	}
	id, ed, err := a.workspace(c, false)
	if err != nil {
		return jsonError(c, http.StatusConflict, "No image loaded")
	}

	// The page sends its slider values along so the export matches what the
	// preview shows at the moment Save is pressed.
	form, err := c.FormParams()
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid form")
	}
	if hasParams(form) {
		p, err := filter.ParseParams(form)
		if err != nil {
			return jsonError(c, http.StatusBadRequest, err.Error())
		}
		if _, err := ed.SetParams(p); err != nil && !errors.Is(err, editor.ErrStage) {
			return err
		}
	}

	out, err := ed.Export(c.Request().Context())
	if err != nil {
		return a.exportFailed(c, id, ed.Filter(), err)
	}
	a.recordExport(ExportRecord{
		Workspace: id,
		Width:     out.Width,
		Height:    out.Height,
		Filter:    out.Filter,
		Status:    ExportOK,
	})
	a.Log.Info().Str("workspace", id).Int("width", out.Width).Int("height", out.Height).Str("filter", out.Filter).Msg("exported")

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", out.Name))
	return c.Blob(http.StatusOK, "image/png", out.PNG)
}

func (a *App) exportFailed(c echo.Context, id, composed string, err error) error {
	switch {
	case errors.Is(err, editor.ErrNoImage):
		return jsonError(c, http.StatusConflict, "No image loaded")
	case errors.Is(err, editor.ErrBusy):
		return jsonError(c, http.StatusConflict, "An export is already running")
	case c.Request().Context().Err() != nil:
		// Client went away; nothing to report to it.
		return err
	}

	a.recordExport(ExportRecord{Workspace: id, Filter: composed, Status: ExportFailed, Error: err.Error()})
	if errors.Is(err, editor.ErrTooManyPixels) {
		a.Log.Warn().Str("workspace", id).Err(err).Msg("export too large")
		return jsonError(c, http.StatusUnprocessableEntity, fmt.Sprintf("The image is too large to save (max %s megapixels). Try a smaller file.", filter.FmtNum(float64(a.Config.MaxPixels)/1e6)))
	}
	if errors.Is(err, editor.ErrDecode) {
		a.Log.Warn().Str("workspace", id).Err(err).Msg("export decode failed")
		return jsonError(c, http.StatusUnprocessableEntity, "The image could not be decoded, so it cannot be saved. Try another file.")
	}
	return err
}

func (a *App) recordExport(r ExportRecord) {
	if err := a.Store.RecordExport(r); err != nil {
		a.Log.Error().Err(err).Msg("record export")
	}
}

// handleReset is "Choose Another Image".
func (a *App) handleReset(c echo.Context) error {
	if id, ed, err := a.workspace(c, false); err == nil {
		ed.ChooseAnother()
		a.Log.Info().Str("workspace", id).Msg("image released")
	}
	if wantsJSON(c) {
		return c.JSON(http.StatusOK, stageResponse{Stage: editor.Intake.String()})
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (a *App) handleExportLog(c echo.Context) error {
	records, err := a.Store.ListExports(50)
	if err != nil {
		return err
	}
	if records == nil {
		records = []ExportRecord{}
	}
	return c.JSON(http.StatusOK, records)
}

func handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.siteConfig()))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Log.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("server error")
		_ = RenderStatus(c, code, a.Views.ServerError(a.siteConfig()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
