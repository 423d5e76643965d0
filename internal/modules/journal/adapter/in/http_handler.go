package in

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"bjjflow/internal/modules/journal/dto"
	journalin "bjjflow/internal/modules/journal/port/in"
	apperrors "bjjflow/internal/platform/errors"
)

// HTTPHandler serves the journal over the local web surface.
type HTTPHandler struct {
	usecase journalin.Usecase
	page    *template.Template
}

func NewHTTPHandler(usecase journalin.Usecase) HTTPHandler {
	return HTTPHandler{usecase: usecase, page: template.Must(template.New("timeline").Parse(timelinePage))}
}

func (h HTTPHandler) Register(router gin.IRouter) {
	router.GET("/", h.index)

	api := router.Group("/api")
	{
		api.GET("/sessions", h.list)
		api.GET("/sessions/:id", h.get)
		api.POST("/sessions", h.create)
		api.DELETE("/sessions/:id", h.remove)
		api.GET("/stats", h.stats)
	}
}

type createSessionRequest struct {
	Title     string   `json:"title"`
	Date      string   `json:"date"`
	Type      string   `json:"type" binding:"required"`
	Duration  int      `json:"duration"`
	Intensity int      `json:"intensity"`
	Positions []string `json:"positions"`
	Drills    []string `json:"drills"`
	Partners  []string `json:"partners"`
	Coach     string   `json:"coach"`
	Notes     string   `json:"notes"`
}

func listInput(c *gin.Context) dto.ListInput {
	return dto.ListInput{Query: c.Query("q"), From: c.Query("from"), To: c.Query("to")}
}

func (h HTTPHandler) index(c *gin.Context) {
	input := listInput(c)
	list, err := h.usecase.List(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	stats, err := h.usecase.Stats(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Render(http.StatusOK, render.HTML{Template: h.page, Name: "timeline", Data: gin.H{
		"query":    input,
		"sessions": list.Sessions,
		"total":    list.Total,
		"stats":    stats,
	}})
}

func (h HTTPHandler) list(c *gin.Context) {
	out, err := h.usecase.List(c.Request.Context(), listInput(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h HTTPHandler) get(c *gin.Context) {
	out, err := h.usecase.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h HTTPHandler) create(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	out, err := h.usecase.Add(c.Request.Context(), dto.AddSessionInput{
		Title:     req.Title,
		Date:      req.Date,
		Type:      req.Type,
		Duration:  req.Duration,
		Intensity: req.Intensity,
		Positions: req.Positions,
		Drills:    req.Drills,
		Partners:  req.Partners,
		Coach:     req.Coach,
		Notes:     req.Notes,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h HTTPHandler) remove(c *gin.Context) {
	confirmed, _ := strconv.ParseBool(c.DefaultQuery("confirm", "false"))
	out, err := h.usecase.Remove(c.Request.Context(), dto.RemoveInput{ID: c.Param("id"), Confirmed: confirmed})
	if err != nil {
		writeError(c, err)
		return
	}
	if !out.Removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found", "id": out.ID})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h HTTPHandler) stats(c *gin.Context) {
	out, err := h.usecase.Stats(c.Request.Context(), listInput(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput), errors.Is(err, apperrors.ErrConfirmationRequired):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

const timelinePage = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>BJJ Flow</title>
<style>
body { font-family: system-ui, sans-serif; background: #0f172a; color: #e2e8f0; max-width: 880px; margin: 2rem auto; padding: 0 1rem; }
.card { background: #1e293b; border-radius: 10px; padding: 1rem 1.25rem; margin-bottom: 1rem; }
.meta { color: #94a3b8; font-size: 0.9rem; }
.tag { display: inline-block; background: #334155; border-radius: 6px; padding: 0 0.5rem; margin: 0.1rem; font-size: 0.85rem; }
.stats { display: flex; gap: 1.5rem; margin: 1rem 0 2rem; }
.stats div { background: #1e293b; border-radius: 10px; padding: 0.75rem 1rem; }
.i-low { color: #4ade80; } .i-mid { color: #facc15; } .i-high { color: #f87171; }
input { background: #1e293b; color: inherit; border: 1px solid #334155; border-radius: 6px; padding: 0.35rem 0.5rem; }
</style>
</head>
<body>
<h1>BJJ Flow</h1>
<form method="get" action="/">
<input name="q" placeholder="Search" value="{{.query.Query}}">
<input name="from" type="date" value="{{.query.From}}">
<input name="to" type="date" value="{{.query.To}}">
<button type="submit">Filter</button>
</form>
<section class="stats">
<div><strong>{{.stats.Count}}</strong><br>sessions</div>
<div><strong>{{.stats.MatTime}}</strong><br>mat time</div>
<div><strong>{{.stats.TotalPositions}}</strong><br>positions</div>
<div><strong>{{.stats.TotalDrills}}</strong><br>drills</div>
</section>
{{range .sessions}}
<article class="card">
<h2>{{.DisplayTitle}}</h2>
<p class="meta">{{.Date}} · {{.Type}} · {{.Duration}} min · <span class="{{if le .Intensity 2}}i-low{{else if le .Intensity 4}}i-mid{{else}}i-high{{end}}">intensity {{.Intensity}}/5</span>{{if .Coach}} · coach {{.Coach}}{{end}}</p>
{{if .Positions}}<p>{{range .Positions}}<span class="tag">{{.}}</span>{{end}}</p>{{end}}
{{if .Drills}}<p>Drills: {{range .Drills}}<span class="tag">{{.}}</span>{{end}}</p>{{end}}
{{if .Partners}}<p class="meta">Partners: {{range $i, $p := .Partners}}{{if $i}}, {{end}}{{$p}}{{end}}</p>{{end}}
{{if .Notes}}<p>{{.Notes}}</p>{{end}}
</article>
{{else}}
<p class="meta">{{if .total}}No sessions match the current filter.{{else}}No sessions yet. Log one with <code>bjjflow add</code>.{{end}}</p>
{{end}}
</body>
</html>
`
