package session

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"worktime.app/worktime/core"
	"worktime.app/worktime/model"
	"worktime.app/worktime/utils"
	"worktime.app/worktime/web/common"
)

type Endpoint struct {
	db *gorm.DB
}

func Register(r *gin.RouterGroup, db *gorm.DB) {
	endpoint := &Endpoint{db: db}
	r.GET("/sessions", endpoint.List)
	r.POST("/sessions", endpoint.Create)
	r.POST("/sessions/bulk", endpoint.BulkReconcile)
	r.PUT("/sessions/:id", endpoint.Update)
	r.DELETE("/sessions/all", endpoint.DeleteAll)
	r.DELETE("/sessions/period", endpoint.DeletePeriod)
	r.DELETE("/sessions/:id", endpoint.Delete)
}

type SessionDTO struct {
	UserID        uint    `json:"user_id"`
	Date          string  `json:"date" binding:"required"`
	ArrivalTime   string  `json:"arrival_time" binding:"required"`
	DepartureTime string  `json:"departure_time" binding:"required"`
	BreakMinutes  int     `json:"break_minutes" binding:"min=0"`
	RemoteMinutes *int    `json:"remote_minutes"`
	Notes         *string `json:"notes"`
}

func (dto *SessionDTO) validate() error {
	if _, err := utils.ParseISODate(dto.Date); err != nil {
		return err
	}
	if _, err := utils.ParseClock(dto.ArrivalTime); err != nil {
		return err
	}
	if _, err := utils.ParseClock(dto.DepartureTime); err != nil {
		return err
	}
	return nil
}

// List returns a user's sessions, optionally bounded by from/to, most
// recent first.
func (ep *Endpoint) List(c *gin.Context) {
	userID, ok := common.QueryUserID(c)
	if !ok {
		return
	}

	query := ep.db.WithContext(c.Request.Context()).Where("user_id = ?", userID)
	if from := c.Query("from"); from != "" {
		if !utils.IsValidDate(from) {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse("from must be YYYY-MM-DD"))
			return
		}
		query = query.Where("date >= ?", from)
	}
	if to := c.Query("to"); to != "" {
		if !utils.IsValidDate(to) {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse("to must be YYYY-MM-DD"))
			return
		}
		query = query.Where("date <= ?", to)
	}

	var sessions []model.WorkSession
	if err := query.Order("date DESC").Find(&sessions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(sessions))
}

func (ep *Endpoint) Create(c *gin.Context) {
	var dto SessionDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}
	if dto.UserID == 0 {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("user_id is required"))
		return
	}
	if err := dto.validate(); err != nil {
		common.RespondError(c, err)
		return
	}

	row := model.WorkSession{
		UserID:        dto.UserID,
		Date:          dto.Date,
		ArrivalTime:   dto.ArrivalTime,
		DepartureTime: dto.DepartureTime,
		BreakMinutes:  dto.BreakMinutes,
		RemoteMinutes: dto.RemoteMinutes,
		Notes:         dto.Notes,
	}
	if err := ep.db.WithContext(c.Request.Context()).Create(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, common.NewSuccessResponse(row))
}

func (ep *Endpoint) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid id"))
		return
	}

	var dto SessionDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}
	if err := dto.validate(); err != nil {
		common.RespondError(c, err)
		return
	}

	db := ep.db.WithContext(c.Request.Context())

	var row model.WorkSession
	if err := db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, common.NewErrorResponse("Session not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	row.Date = dto.Date
	row.ArrivalTime = dto.ArrivalTime
	row.DepartureTime = dto.DepartureTime
	row.BreakMinutes = dto.BreakMinutes
	row.RemoteMinutes = dto.RemoteMinutes
	row.Notes = dto.Notes
	if err := db.Save(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(row))
}

func (ep *Endpoint) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid id"))
		return
	}

	result := ep.db.WithContext(c.Request.Context()).Delete(&model.WorkSession{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(result.Error.Error()))
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Session not found"))
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteAll wipes a user's whole history.
func (ep *Endpoint) DeleteAll(c *gin.Context) {
	userID, ok := common.QueryUserID(c)
	if !ok {
		return
	}

	result := ep.db.WithContext(c.Request.Context()).
		Where("user_id = ?", userID).
		Delete(&model.WorkSession{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(result.Error.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{"deleted": result.RowsAffected}))
}

// DeletePeriod removes every session inside the period containing the given
// monday, under the given mode (bi-weekly by default).
func (ep *Endpoint) DeletePeriod(c *gin.Context) {
	userID, ok := common.QueryUserID(c)
	if !ok {
		return
	}

	mode, err := core.ParseMode(c.Query("mode"))
	if err != nil {
		common.RespondError(c, err)
		return
	}
	period, err := core.PeriodAt(c.Query("monday"), mode)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	result := ep.db.WithContext(c.Request.Context()).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, period.Start, period.End).
		Delete(&model.WorkSession{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(result.Error.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{"deleted": result.RowsAffected}))
}

type BulkReconcileDTO struct {
	UserID   uint               `json:"user_id"`
	Sessions []core.SessionEdit `json:"sessions" binding:"required"`
}

// BulkReconcile saves a whole working-day set at once, deferring the
// per-date insert/update/delete decision to the reconciler.
func (ep *Endpoint) BulkReconcile(c *gin.Context) {
	var dto BulkReconcileDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}
	if dto.UserID == 0 {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("user_id is required"))
		return
	}

	db := ep.db.WithContext(c.Request.Context())

	var user model.User
	if err := db.First(&user, dto.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, common.NewErrorResponse("User not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	results, err := core.Reconcile(db, dto.UserID, user.WorkingDayMask(), dto.Sessions)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(results))
}
