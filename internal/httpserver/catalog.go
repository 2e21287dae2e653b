package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"bracelet-customizer/internal/catalog"
	"bracelet-customizer/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type handlers struct {
	deps Deps
	log  zerolog.Logger
}

type listingResponse struct {
	Data     any    `json:"data"`
	Source   string `json:"source"`
	Total    int    `json:"total"`
	Category string `json:"category,omitempty"`
	Error    string `json:"error,omitempty"`
}

func queryFromRequest(c *gin.Context) catalog.Query {
	return catalog.Query{
		Category:        c.DefaultQuery("category", catalog.CategoryAll),
		BestsellersOnly: queryBool(c, "bestsellersOnly"),
		NewOnly:         queryBool(c, "newOnly"),
	}
}

func queryBool(c *gin.Context, key string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(c.Query(key)))
	return err == nil && v
}

// forceStatic reports whether the operator pinned the built-in catalog. Settings failures fall
// back to the live catalog.
func (h *handlers) forceStatic(c *gin.Context) bool {
	st, err := h.deps.SettingsSvc.Current(c.Request.Context())
	if err != nil {
		h.log.Warn().Err(err).Msg("settings unavailable for catalog listing")
		return false
	}
	return st.Advanced.UseStaticCatalog
}

func (h *handlers) listBracelets(c *gin.Context) {
	q := queryFromRequest(c)
	listing, err := h.deps.Catalog.Bracelets(c.Request.Context(), q, h.forceStatic(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	resp := listingResponse{Data: listing.Items, Source: listing.Source, Total: len(listing.Items), Category: q.Category}
	if listing.Err != nil {
		resp.Error = "live catalog unavailable"
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handlers) listCharms(c *gin.Context) {
	q := queryFromRequest(c)
	listing, err := h.deps.Catalog.Charms(c.Request.Context(), q, h.forceStatic(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	resp := listingResponse{Data: listing.Items, Source: listing.Source, Total: len(listing.Items), Category: q.Category}
	if listing.Err != nil {
		resp.Error = "live catalog unavailable"
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handlers) listCategories(c *gin.Context) {
	kind := domain.ProductType(strings.ToLower(c.DefaultQuery("kind", string(domain.ProductTypeCharm))))
	if !kind.Valid() {
		writeError(c, h.log, domain.ErrInvalidInput)
		return
	}
	cats, err := h.deps.CategorySvc.List(c.Request.Context(), kind)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	if cats == nil {
		cats = []domain.Category{}
	}
	writeData(c, http.StatusOK, cats)
}
