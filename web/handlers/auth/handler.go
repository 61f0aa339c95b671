package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"worktime.app/worktime/core"
	"worktime.app/worktime/model"
	"worktime.app/worktime/security"
	"worktime.app/worktime/utils"
	"worktime.app/worktime/web/common"
)

const tokenTTL = 12 * time.Hour

// unknownUserHash is compared against when the username does not exist, so
// both login failure branches cost one bcrypt verification. Same cost factor
// as stored hashes (DefaultCost).
var unknownUserHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

type Endpoint struct {
	db     *gorm.DB
	secret []byte
}

// Register wires the login route on the public group and the profile routes
// on the authenticated group.
func Register(public, protected *gin.RouterGroup, db *gorm.DB, secret []byte) {
	endpoint := &Endpoint{db: db, secret: secret}
	public.POST("/auth/login", endpoint.Login)
	protected.GET("/auth/profile", endpoint.Profile)
	protected.PUT("/auth/profile", endpoint.UpdateProfile)
	protected.POST("/auth/change-password", endpoint.ChangePassword)
}

type ProfileDTO struct {
	ID               uint   `json:"id"`
	Username         string `json:"username"`
	TimesheetMode    string `json:"timesheet_mode"`
	WorkingDays      []int  `json:"working_days"`
	DefaultArrival   string `json:"default_arrival"`
	DefaultDeparture string `json:"default_departure"`
}

func profileDTO(u *model.User) ProfileDTO {
	arrival := u.DefaultArrival
	if arrival == "" {
		arrival = model.DefaultArrival
	}
	departure := u.DefaultDeparture
	if departure == "" {
		departure = model.DefaultDeparture
	}
	return ProfileDTO{
		ID:               u.ID,
		Username:         u.Username,
		TimesheetMode:    u.Mode(),
		WorkingDays:      u.WorkingDayMask(),
		DefaultArrival:   arrival,
		DefaultDeparture: departure,
	}
}

type LoginDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (ep *Endpoint) Login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	var user model.User
	err := ep.db.WithContext(c.Request.Context()).
		Where("username = ?", dto.Username).
		Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		_ = bcrypt.CompareHashAndPassword(unknownUserHash, []byte(dto.Password))
		c.JSON(http.StatusUnauthorized, common.NewErrorResponse("Invalid credentials"))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(dto.Password)) != nil {
		c.JSON(http.StatusUnauthorized, common.NewErrorResponse("Invalid credentials"))
		return
	}

	token, err := security.CreateSessionToken(
		security.Identity{ID: user.ID, Username: user.Username}, ep.secret, tokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{
		"token":   token,
		"profile": profileDTO(&user),
	}))
}

func (ep *Endpoint) Profile(c *gin.Context) {
	user, ok := ep.currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(profileDTO(user)))
}

type ProfileUpdateDTO struct {
	TimesheetMode    *string `json:"timesheet_mode,omitempty"`
	WorkingDays      *[]int  `json:"working_days,omitempty"`
	DefaultArrival   *string `json:"default_arrival,omitempty"`
	DefaultDeparture *string `json:"default_departure,omitempty"`
}

func (ep *Endpoint) UpdateProfile(c *gin.Context) {
	user, ok := ep.currentUser(c)
	if !ok {
		return
	}

	var dto ProfileUpdateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	if dto.TimesheetMode != nil {
		mode, err := core.ParseMode(*dto.TimesheetMode)
		if err != nil {
			common.RespondError(c, err)
			return
		}
		user.TimesheetMode = string(mode)
	}
	if dto.WorkingDays != nil {
		for _, day := range *dto.WorkingDays {
			if day < 0 || day > 6 {
				c.JSON(http.StatusBadRequest, common.NewErrorResponse("working_days entries must be 0..6"))
				return
			}
		}
		user.SetWorkingDayMask(*dto.WorkingDays)
	}
	if dto.DefaultArrival != nil {
		if !utils.IsValidClock(*dto.DefaultArrival) {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse("default_arrival must be HH:MM"))
			return
		}
		user.DefaultArrival = *dto.DefaultArrival
	}
	if dto.DefaultDeparture != nil {
		if !utils.IsValidClock(*dto.DefaultDeparture) {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse("default_departure must be HH:MM"))
			return
		}
		user.DefaultDeparture = *dto.DefaultDeparture
	}

	if err := ep.db.WithContext(c.Request.Context()).Save(user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(profileDTO(user)))
}

type ChangePasswordDTO struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

func (ep *Endpoint) ChangePassword(c *gin.Context) {
	user, ok := ep.currentUser(c)
	if !ok {
		return
	}

	var dto ChangePasswordDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(dto.CurrentPassword)) != nil {
		c.JSON(http.StatusUnauthorized, common.NewErrorResponse("Current password is incorrect"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	user.PasswordHash = string(hash)
	if err := ep.db.WithContext(c.Request.Context()).Save(user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{"ok": true}))
}

// currentUser loads the authenticated user using the identity stashed by
// the authentication middleware.
func (ep *Endpoint) currentUser(c *gin.Context) (*model.User, bool) {
	value, exists := c.Get("identity")
	identity, ok := value.(security.Identity)
	if !exists || !ok {
		c.JSON(http.StatusUnauthorized, common.NewErrorResponse("not authenticated"))
		return nil, false
	}

	var user model.User
	if err := ep.db.WithContext(c.Request.Context()).First(&user, identity.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, common.NewErrorResponse("User not found"))
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return nil, false
	}
	return &user, true
}
