package services

import (
	"fmt"
	"time"

	"github.com/chenweihao/weishop/app/events"
	"github.com/chenweihao/weishop/app/models"
	"github.com/chenweihao/weishop/pkg/cache"
	"github.com/chenweihao/weishop/pkg/collection"
	"github.com/chenweihao/weishop/pkg/logger"
	"gorm.io/gorm"
)

const statsCacheTTL = 10 * time.Minute

// CoreStats is the headline block on the admin dashboard.
type CoreStats struct {
	UserCount     int64   `json:"user_count"`
	ProductCount  int64   `json:"product_count"`
	OrderCount    int64   `json:"order_count"`
	TotalRevenue  float64 `json:"total_revenue"`
	PendingOrders int64   `json:"pending_orders"`
}

// DailySales is one bucket of the seven-day revenue chart.
type DailySales struct {
	Date    string  `json:"date"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// StatsService computes the admin dashboard numbers. Results are cached
// in Redis; order events invalidate the keys, so the numbers refresh
// on the next dashboard load after a sale.
type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// Core returns the headline counts. Cancelled orders are excluded from
// the counts and the revenue.
func (s *StatsService) Core() (CoreStats, error) {
	var stats CoreStats
	if cache.Get(events.StatsCoreKey, &stats) {
		return stats, nil
	}

	if err := s.db.Model(&models.User{}).Count(&stats.UserCount).Error; err != nil {
		return CoreStats{}, fmt.Errorf("stats: count users: %w", err)
	}
	if err := s.db.Model(&models.Product{}).
		Where("is_deleted = ?", false).
		Count(&stats.ProductCount).Error; err != nil {
		return CoreStats{}, fmt.Errorf("stats: count products: %w", err)
	}

	sold := s.db.Model(&models.Order{}).Where("status <> ?", models.OrderStatusCancelled)
	if err := sold.Count(&stats.OrderCount).Error; err != nil {
		return CoreStats{}, fmt.Errorf("stats: count orders: %w", err)
	}
	if err := s.db.Model(&models.Order{}).
		Where("status <> ?", models.OrderStatusCancelled).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&stats.TotalRevenue).Error; err != nil {
		return CoreStats{}, fmt.Errorf("stats: sum revenue: %w", err)
	}
	if err := s.db.Model(&models.Order{}).
		Where("status = ?", models.OrderStatusPaid).
		Count(&stats.PendingOrders).Error; err != nil {
		return CoreStats{}, fmt.Errorf("stats: count pending: %w", err)
	}

	if err := cache.Set(events.StatsCoreKey, stats, statsCacheTTL); err != nil {
		logger.Warn("stats cache write failed", "key", events.StatsCoreKey, "error", err)
	}
	return stats, nil
}

// Last7DaysSales returns one bucket per calendar day (UTC) for the past
// seven days, today included and days with no sales zero-filled.
func (s *StatsService) Last7DaysSales() ([]DailySales, error) {
	var series []DailySales
	if cache.Get(events.StatsDailyKey, &series) {
		return series, nil
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	since := today.AddDate(0, 0, -6)

	var orders []models.Order
	if err := s.db.
		Where("status <> ? AND order_date >= ?", models.OrderStatusCancelled, since).
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("stats: load recent orders: %w", err)
	}

	byDay := collection.GroupBy(orders, func(o models.Order) string {
		return o.OrderDate.UTC().Format("2006-01-02")
	})

	series = make([]DailySales, 0, 7)
	for d := 0; d < 7; d++ {
		day := since.AddDate(0, 0, d).Format("2006-01-02")
		bucket := byDay[day]
		series = append(series, DailySales{
			Date:    day,
			Orders:  len(bucket),
			Revenue: collection.Sum(bucket, func(o models.Order) float64 { return o.TotalAmount }),
		})
	}

	if err := cache.Set(events.StatsDailyKey, series, statsCacheTTL); err != nil {
		logger.Warn("stats cache write failed", "key", events.StatsDailyKey, "error", err)
	}
	return series, nil
}
