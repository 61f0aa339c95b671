package report

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"worktime.app/worktime/core"
	"worktime.app/worktime/export"
	"worktime.app/worktime/model"
	"worktime.app/worktime/render"
	"worktime.app/worktime/web/common"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Endpoint struct {
	db       *gorm.DB
	renderer *render.Client
	policy   core.DurationPolicy
}

func Register(r *gin.RouterGroup, db *gorm.DB, renderer *render.Client, policy core.DurationPolicy) {
	endpoint := &Endpoint{db: db, renderer: renderer, policy: policy}
	r.GET("/period", endpoint.ResolvePeriod)
	r.GET("/report", endpoint.Get)
	r.GET("/report/bulk", endpoint.Bulk)
}

// ResolvePeriod maps a date to its enclosing period under a mode.
func (ep *Endpoint) ResolvePeriod(c *gin.Context) {
	mode, err := core.ParseMode(c.Query("mode"))
	if err != nil {
		common.RespondError(c, err)
		return
	}
	period, err := core.PeriodAt(c.Query("date"), mode)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(period))
}

// Get builds the report for the period containing the given monday and
// returns it as JSON, a workbook, or a rendered PDF.
func (ep *Endpoint) Get(c *gin.Context) {
	userID, ok := common.QueryUserID(c)
	if !ok {
		return
	}
	mode, err := core.ParseMode(c.Query("mode"))
	if err != nil {
		common.RespondError(c, err)
		return
	}

	db := ep.db.WithContext(c.Request.Context())

	data, err := core.BuildReport(db, userID, c.Query("monday"), mode, ep.policy)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	switch c.Query("format") {
	case "json":
		c.JSON(http.StatusOK, common.NewSuccessResponse(data))

	case "excel":
		sheet, err := export.SessionSheet("Timesheet", data, ep.policy)
		if err != nil {
			common.RespondError(c, err)
			return
		}
		ep.writeWorkbook(c, []export.Sheet{sheet},
			fmt.Sprintf("report-%s.xlsx", data.Period.Start))

	default: // pdf
		user, ok := ep.findUser(c, userID)
		if !ok {
			return
		}
		html, err := buildReportHTML(data, user.Username, ep.policy)
		if err != nil {
			common.RespondError(c, err)
			return
		}
		pdf, err := ep.renderer.RenderPDF(c.Request.Context(), html)
		if err != nil {
			common.RespondError(c, err)
			return
		}
		c.Header("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("report-%s.pdf", data.Period.Start)))
		c.Data(http.StatusOK, "application/pdf", pdf)
	}
}

// Bulk exports every non-empty period in [from, to] as one workbook with a
// sheet per period, or as JSON.
func (ep *Endpoint) Bulk(c *gin.Context) {
	userID, ok := common.QueryUserID(c)
	if !ok {
		return
	}
	mode, err := core.ParseMode(c.Query("mode"))
	if err != nil {
		common.RespondError(c, err)
		return
	}
	from, to := c.Query("from"), c.Query("to")

	db := ep.db.WithContext(c.Request.Context())

	units, err := core.BuildBulkExport(db, userID, from, to, mode, ep.policy)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	if c.Query("format") == "json" {
		c.JSON(http.StatusOK, common.NewSuccessResponse(units))
		return
	}

	sheets, err := export.UnitSheets(units, ep.policy)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	ep.writeWorkbook(c, sheets, fmt.Sprintf("export-%s-to-%s.xlsx", from, to))
}

func (ep *Endpoint) writeWorkbook(c *gin.Context, sheets []export.Sheet, filename string) {
	workbook, err := export.WriteWorkbook(sheets)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	defer workbook.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", xlsxContentType)
	c.Status(http.StatusOK)
	if err := workbook.Write(c.Writer); err != nil {
		// headers are gone at this point; log through gin's error sink
		_ = c.Error(err)
	}
}

func (ep *Endpoint) findUser(c *gin.Context, userID uint) (*model.User, bool) {
	var user model.User
	if err := ep.db.WithContext(c.Request.Context()).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, common.NewErrorResponse("User not found"))
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return nil, false
	}
	return &user, true
}
