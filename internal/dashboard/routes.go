package dashboard

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/haulyard/internal/dispatch"
	"github.com/zulandar/haulyard/internal/page"
	"github.com/zulandar/haulyard/internal/store"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// registerRoutes sets up all dashboard routes on the Gin router.
func registerRoutes(router *gin.Engine, opts StartOpts, limiter *ipRateLimiter) {
	router.GET("/", handleCompanyPage(opts.Pages))
	router.GET("/archive/:truck/:name", handleArchive(opts.Notices))
	router.GET("/live/:truck", handleLive(opts.Notices))
	router.GET("/export", handleExport(opts.Service))
	router.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	router.POST("/submit", rateLimitByIP(limiter), handleSubmit(opts.Service))
}

// handleCompanyPage serves a published page. Failures are plain text.
func handleCompanyPage(pages store.PageReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		company := c.Query("company")
		if company == "" {
			c.String(http.StatusBadRequest, "Error: Missing company parameter.")
			return
		}

		fileName := company + "_dispatch_list.html"
		p, err := pages.Page(c.Request.Context(), fileName)
		if errors.Is(err, store.ErrNotFound) {
			log.Printf("dashboard: page %s not found", fileName)
			c.String(http.StatusNotFound, "No dispatch list found for company: %s.", company)
			return
		}
		if err != nil {
			log.Printf("dashboard: page %s: %v", fileName, err)
			c.String(http.StatusInternalServerError, "Error: could not load dispatch list.")
			return
		}
		c.Header("Cache-Control", "no-cache")
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(p.HTML))
	}
}

func handleArchive(notices NoticeReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		truck, name := c.Param("truck"), c.Param("name")
		doc, err := notices.Get(c.Request.Context(), truck, name)
		if errors.Is(err, store.ErrNotFound) {
			c.String(http.StatusNotFound, "No dispatch found: %s.", name)
			return
		}
		if err != nil {
			log.Printf("dashboard: archive %s/%s: %v", truck, name, err)
			c.String(http.StatusInternalServerError, "Error: could not load dispatch.")
			return
		}
		c.HTML(http.StatusOK, "notice.html", gin.H{
			"Title": name,
			"Body":  doc.HTML(),
		})
	}
}

func handleLive(notices NoticeReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		truck := c.Param("truck")
		doc, name, err := notices.Live(c.Request.Context(), truck)
		if errors.Is(err, store.ErrNotFound) {
			c.String(http.StatusNotFound, "No live dispatch for truck: %s.", truck)
			return
		}
		if err != nil {
			log.Printf("dashboard: live %s: %v", truck, err)
			c.String(http.StatusInternalServerError, "Error: could not load dispatch.")
			return
		}
		c.HTML(http.StatusOK, "notice.html", gin.H{
			"Title": fmt.Sprintf("%s (live) %s", truck, name),
			"Body":  doc.HTML(),
		})
	}
}

// handleExport writes a company's current report as a spreadsheet.
func handleExport(svc *dispatch.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := c.Query("company")
		if slug == "" {
			c.String(http.StatusBadRequest, "Error: Missing company parameter.")
			return
		}
		company, ok := svc.Fleet().CompanyBySlug(slug)
		if !ok {
			c.String(http.StatusNotFound, "No dispatch list found for company: %s.", slug)
			return
		}

		r, err := svc.Report(c.Request.Context(), company)
		if err != nil {
			log.Printf("dashboard: export %s: %v", company, err)
			c.String(http.StatusInternalServerError, "Error: could not build report.")
			return
		}
		fileName := strings.TrimSuffix(page.FileName(company), ".html") + ".xlsx"
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
		c.Header("Content-Type", xlsxContentType)
		c.Status(http.StatusOK)
		if err := page.WriteXLSX(c.Writer, r); err != nil {
			log.Printf("dashboard: export %s: %v", company, err)
		}
	}
}

// submitBody is the JSON accepted by POST /submit.
type submitBody struct {
	dispatch.FormSubmission
	Live bool `json:"live"`
}

type truckOutcome struct {
	Truck   string `json:"truck"`
	Company string `json:"company,omitempty"`
	Key     string `json:"key"`
	URL     string `json:"url,omitempty"`
	Error   string `json:"error,omitempty"`
}

func handleSubmit(svc *dispatch.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body submitBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body: " + err.Error()})
			return
		}
		req, err := dispatch.ParseFormValues(body.Values, svc.Location())
		if err != nil {
			log.Printf("dashboard: submit rejected: %v (values=%q)", err, body.Values)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		targets := dispatch.TargetArchive
		if body.Live {
			targets |= dispatch.TargetLive
		}
		res, err := svc.Submit(c.Request.Context(), req, targets)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		trucks := make([]truckOutcome, 0, len(res.Trucks))
		for _, t := range res.Trucks {
			o := truckOutcome{Truck: t.Truck, Company: t.Company, Key: t.Key, URL: t.Entry.URL}
			if t.Err != nil {
				o.Error = t.Err.Error()
			}
			trucks = append(trucks, o)
		}
		refreshErrs := make([]string, 0, len(res.RefreshErrs))
		for _, e := range res.RefreshErrs {
			refreshErrs = append(refreshErrs, e.Error())
		}

		status := http.StatusOK
		if len(res.Archived()) == 0 {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{
			"submission_id":  res.SubmissionID,
			"trucks":         trucks,
			"refreshed":      res.Refreshed,
			"refresh_errors": refreshErrs,
		})
	}
}
