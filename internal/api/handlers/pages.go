// SPDX-License-Identifier: AGPL-3.0-only
package handlers

import (
	"embed"
	"html/template"
	"log"
	"net/http"
	"strings"

	"github.com/fluffyriot/postdeck/internal/config"
	"github.com/fluffyriot/postdeck/internal/helpers"
	"github.com/fluffyriot/postdeck/internal/middleware"
	"github.com/fluffyriot/postdeck/internal/posts"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded page templates for gin's HTML renderer.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

type platformCard struct {
	Config   helpers.PlatformConfig
	Posts    int64
	Likes    string
	Comments string
}

type postView struct {
	Title     string
	Caption   string
	Image     template.URL
	Status    posts.Status
	Scheduled string
	Likes     string
	Comments  string
}

type statusOption struct {
	Value    posts.Status
	Label    string
	Selected bool
}

var statusLabels = []struct {
	value posts.Status
	label string
}{
	{posts.StatusAll, "Todos"},
	{posts.StatusPublished, "Publicados"},
	{posts.StatusScheduled, "Agendados"},
	{posts.StatusDraft, "Rascunhos"},
}

// imageSrc lets uploaded data URLs through the template escaper and drops any other scheme.
func imageSrc(ref string) template.URL {
	for _, prefix := range []string{"data:image/", "https://", "http://", "/"} {
		if strings.HasPrefix(ref, prefix) {
			return template.URL(ref)
		}
	}
	return ""
}

func (h *Handler) CommonData(c *gin.Context, data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	if user, ok := h.GetAuthenticatedUser(c); ok {
		data["user"] = user
	}
	data["platforms"] = helpers.AvailablePlatforms
	data["app_version"] = config.AppVersion
	return data
}

func (h *Handler) renderError(c *gin.Context, status int, msg string) {
	c.HTML(status, "error.html", h.CommonData(c, gin.H{"title": "Erro", "error": msg}))
}

func (h *Handler) RootHandler(c *gin.Context) {
	c.Redirect(http.StatusFound, middleware.DashboardPath)
}

func (h *Handler) SignInPageHandler(c *gin.Context) {
	c.HTML(http.StatusOK, "sign-in.html", h.CommonData(c, gin.H{
		"title": "Entrar",
		"error": c.Query("error"),
	}))
}

func (h *Handler) SignUpPageHandler(c *gin.Context) {
	c.HTML(http.StatusOK, "sign-up.html", h.CommonData(c, gin.H{
		"title": "Criar conta",
		"error": c.Query("error"),
	}))
}

func (h *Handler) TwoFactorPageHandler(c *gin.Context) {
	if sessions.Default(c).Get(middleware.SessionPending2FAUID) == nil {
		c.Redirect(http.StatusFound, middleware.SignInPath)
		return
	}

	c.HTML(http.StatusOK, "two-factor.html", h.CommonData(c, gin.H{
		"title": "Verificação em duas etapas",
		"error": c.Query("error"),
	}))
}

func (h *Handler) DashboardHandler(c *gin.Context) {
	summary, err := h.summary(c)
	if err != nil {
		log.Printf("Error getting analytics: %v", err)
		h.renderError(c, http.StatusInternalServerError, "Não foi possível carregar as estatísticas")
		return
	}

	cards := make([]platformCard, 0, len(helpers.AvailablePlatforms))
	for _, cfg := range helpers.AvailablePlatforms {
		ps := summary.ByPlatform[cfg.ID]
		cards = append(cards, platformCard{
			Config:   cfg,
			Posts:    ps.Posts,
			Likes:    helpers.FormatNumber(ps.Likes),
			Comments: helpers.FormatNumber(ps.Comments),
		})
	}

	c.HTML(http.StatusOK, "dashboard.html", h.CommonData(c, gin.H{
		"title":   "Dashboard",
		"summary": summary,
		"cards":   cards,
		"totals": gin.H{
			"Posts":    summary.TotalPosts,
			"Likes":    helpers.FormatNumber(summary.TotalLikes),
			"Comments": helpers.FormatNumber(summary.TotalComments),
		},
	}))
}

// PlatformPageHandler renders one platform's posts, filtered by the q and status query parameters.
func (h *Handler) PlatformPageHandler(platform posts.Platform) gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg, err := helpers.GetPlatformConfig(platform)
		if err != nil {
			h.renderError(c, http.StatusNotFound, err.Error())
			return
		}

		status, err := posts.ParseStatusFilter(c.Query("status"))
		if err != nil {
			status = posts.StatusAll
		}
		query := c.Query("q")

		list, err := h.Posts.List(c.Request.Context(), platform)
		if err != nil {
			log.Printf("Error fetching posts: %v", err)
			h.renderError(c, http.StatusInternalServerError, "Não foi possível carregar os posts")
			return
		}

		views := make([]postView, 0, len(list))
		for _, p := range posts.Filter(list, query, status) {
			v := postView{
				Title:    p.Title,
				Caption:  p.Caption,
				Image:    imageSrc(p.PrimaryImage()),
				Status:   p.Status,
				Likes:    helpers.FormatNumber(p.Likes),
				Comments: helpers.FormatNumber(p.Comments),
			}
			if p.ScheduledDate != nil {
				v.Scheduled = helpers.FormatScheduledDate(*p.ScheduledDate, h.Config.Location)
			}
			views = append(views, v)
		}

		options := make([]statusOption, 0, len(statusLabels))
		for _, s := range statusLabels {
			options = append(options, statusOption{Value: s.value, Label: s.label, Selected: s.value == status})
		}

		c.HTML(http.StatusOK, "platform.html", h.CommonData(c, gin.H{
			"title":    cfg.Label,
			"platform": cfg,
			"posts":    views,
			"query":    query,
			"statuses": options,
		}))
	}
}
