package controllers

import (
	"net/http"

	"github.com/chenweihao/weishop/app/events"
	"github.com/chenweihao/weishop/app/services"
	"github.com/chenweihao/weishop/pkg/response"
	"github.com/chenweihao/weishop/pkg/ws"
	"gorm.io/gorm"
)

// AdminStatsController serves the dashboard numbers and the live order
// feed websocket.
type AdminStatsController struct {
	service *services.StatsService
}

func NewAdminStatsController(db *gorm.DB) *AdminStatsController {
	return &AdminStatsController{service: services.NewStatsService(db)}
}

func (c *AdminStatsController) Core(w http.ResponseWriter, r *http.Request) {
	stats, err := c.service.Core()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.Success(w, stats)
}

func (c *AdminStatsController) DailySales(w http.ResponseWriter, r *http.Request) {
	series, err := c.service.Last7DaysSales()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.Success(w, series)
}

// OrdersFeed upgrades the connection and subscribes the admin panel to
// live order events.
func (c *AdminStatsController) OrdersFeed(w http.ResponseWriter, r *http.Request) {
	ws.Upgrade(w, r, events.OrdersFeed)
}
