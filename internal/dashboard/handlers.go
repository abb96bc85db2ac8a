package dashboard

import (
	"errors"
	"net/http"

	"github.com/KaramelBytes/mhdash/internal/aggregate"
	"github.com/KaramelBytes/mhdash/internal/analysis"
	"github.com/KaramelBytes/mhdash/internal/dataset"
	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

func (s *Server) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", s.page)
}

func (s *Server) handleHealth(c *gin.Context) {
	ds, err := s.Dataset(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "dataset": ds.Name(), "rows": ds.Len()})
}

// selected returns the cached dataset filtered by the condition and country
// query parameters.
func (s *Server) selected(c *gin.Context) (*dataset.Dataset, aggregate.Selection, bool) {
	var sel aggregate.Selection
	if err := c.ShouldBindQuery(&sel); err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return nil, sel, false
	}
	sel = sel.Normalize()
	sel.ConditionColumn = s.condition
	ds, err := s.Dataset(c.Request.Context())
	if err != nil {
		s.fail(c, http.StatusServiceUnavailable, err)
		return nil, sel, false
	}
	sub, err := sel.Apply(ds)
	if err != nil {
		s.fail(c, statusFor(err), err)
		return nil, sel, false
	}
	return sub, sel, true
}

func (s *Server) handleOptions(c *gin.Context) {
	ds, err := s.Dataset(c.Request.Context())
	if err != nil {
		s.fail(c, http.StatusServiceUnavailable, err)
		return
	}
	conditions, err := aggregate.Options(ds, s.condition)
	if err != nil {
		s.fail(c, statusFor(err), err)
		return
	}
	countries, err := aggregate.Options(ds, dataset.ColCountry)
	if err != nil {
		s.fail(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"condition": conditions, "country": countries})
}

func (s *Server) handleViews(c *gin.Context) {
	var sel aggregate.Selection
	if err := c.ShouldBindQuery(&sel); err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	ds, err := s.Dataset(c.Request.Context())
	if err != nil {
		s.fail(c, http.StatusServiceUnavailable, err)
		return
	}
	sel.ConditionColumn = s.condition
	views, err := aggregate.BuildViews(ds, sel)
	if err != nil {
		s.fail(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (s *Server) handleCount(c *gin.Context) {
	column := c.Query("column")
	if column == "" {
		s.fail(c, http.StatusBadRequest, errors.New("column is required"))
		return
	}
	sub, sel, ok := s.selected(c)
	if !ok {
		return
	}
	counts, err := aggregate.CountBy(sub, column)
	if err != nil {
		s.fail(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"selection": sel, "column": column, "counts": counts})
}

func (s *Server) handleProportions(c *gin.Context) {
	group, category := c.Query("group"), c.Query("category")
	if group == "" || category == "" {
		s.fail(c, http.StatusBadRequest, errors.New("group and category are required"))
		return
	}
	sub, sel, ok := s.selected(c)
	if !ok {
		return
	}
	shares, err := aggregate.ProportionsByGroup(sub, group, category)
	if err != nil {
		s.fail(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"selection": sel, "group": group, "category": category, "groups": shares})
}

func (s *Server) handleReport(c *gin.Context) {
	ds, err := s.Dataset(c.Request.Context())
	if err != nil {
		s.fail(c, http.StatusServiceUnavailable, err)
		return
	}
	schema := dataset.SurveySchema()
	var numeric, categorical []string
	for _, n := range schema.Names(dataset.Numeric) {
		if ds.HasColumn(n) {
			numeric = append(numeric, n)
		}
	}
	for _, n := range schema.Names(dataset.Categorical) {
		if ds.HasColumn(n) {
			categorical = append(categorical, n)
		}
	}
	if s.condition != dataset.ColCondition && ds.HasColumn(s.condition) {
		categorical = append(categorical, s.condition)
	}
	summary, err := analysis.Summarize(ds, numeric, categorical)
	if err != nil {
		s.fail(c, statusFor(err), err)
		return
	}

	p := parser.NewWithExtensions(parser.CommonExtensions)
	r := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: "Dataset report: " + ds.Name(),
	})
	body := markdown.ToHTML([]byte(summary.Markdown()), p, r)
	c.Data(http.StatusOK, "text/html; charset=utf-8", body)
}

func (s *Server) fail(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	var se *dataset.SchemaError
	if errors.Is(err, dataset.ErrColumnNotFound) || errors.As(err, &se) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
