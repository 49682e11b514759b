package api

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/techdeck/app/database"
	"github.com/lysyi3m/techdeck/app/deck"
	"github.com/lysyi3m/techdeck/app/item"
)

// NewHandler builds the API handler. buildRepo may be nil, which turns
// off the build history endpoints.
func NewHandler(slideCtx deck.Context, buildRepo database.BuildRepositoryInterface, version string) *Handler {
	return &Handler{
		render:    deck.RenderSingleUpdateSlide,
		slideCtx:  slideCtx,
		buildRepo: buildRepo,
		version:   version,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"version":   h.version,
	}

	if h.buildRepo != nil {
		if buildCount, err := h.buildRepo.GetBuildCount(); err == nil {
			health["builds"] = buildCount
		}
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) RenderSlide(c *gin.Context) {
	var it item.Item
	if err := c.ShouldBindJSON(&it); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item", "message": err.Error()})
		return
	}

	data, err := h.render(it, h.slideCtx)
	if errors.Is(err, deck.ErrEmptyItem) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item", "message": err.Error()})
		return
	}
	if err != nil {
		slog.Error("Slide render error", "title", it.Title, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("update-%s.pptx", cmp.Or(it.RoadmapID, "slide"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, pptxContentType, data)
}

func (h *Handler) APIListBuilds(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = n
	}

	builds, err := h.buildRepo.GetRecentBuilds(limit)
	if err != nil {
		slog.Error("Database error", "operation", "list_builds", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	out := make([]map[string]interface{}, 0, len(builds))
	for _, b := range builds {
		out = append(out, buildJSON(b))
	}

	c.JSON(http.StatusOK, gin.H{"builds": out, "count": len(out)})
}

func (h *Handler) APIGetBuild(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	build, err := h.buildRepo.GetBuild(id)
	if err != nil {
		slog.Error("Database error", "operation", "get_build", "build_id", id, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	if build == nil {
		c.Status(http.StatusNotFound)
		return
	}

	items, err := h.buildRepo.GetBuildItems(id)
	if err != nil {
		slog.Error("Database error", "operation", "get_build_items", "build_id", id, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	out := make([]map[string]interface{}, 0, len(items))
	for _, bi := range items {
		out = append(out, map[string]interface{}{
			"position":   bi.Position,
			"roadmap_id": bi.RoadmapID,
			"title":      bi.Title,
			"url":        bi.URL,
			"product":    bi.Product,
			"status":     bi.Status,
			"source":     bi.Source,
		})
	}

	details := buildJSON(*build)
	details["items"] = out
	c.JSON(http.StatusOK, details)
}

func buildJSON(b database.Build) map[string]interface{} {
	return map[string]interface{}{
		"id":          b.ID,
		"month":       b.Month,
		"output_path": b.OutputPath,
		"item_count":  b.ItemCount,
		"created_at":  b.CreatedAt.Format(time.RFC3339),
	}
}
