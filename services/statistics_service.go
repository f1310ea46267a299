package services

import (
	"time"

	"buildflow-backend/models"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StatisticsService recomputes the monthly company statistics. It runs as
// a cron job and can be triggered manually. Statistic rows are append-only:
// a (month, category) pair, once written, is never updated; later runs
// only fill gaps, so re-running over unchanged or changed source data is
// always safe.
type StatisticsService struct {
	db   *gorm.DB
	cron *cron.Cron
	log  *zap.Logger
}

func NewStatisticsService(db *gorm.DB, logger *zap.Logger) *StatisticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatisticsService{
		db:   db,
		cron: cron.New(),
		log:  logger,
	}
}

// StartScheduler registers the recompute job with the given cron spec.
func (s *StatisticsService) StartScheduler(spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		inserted, err := s.Refresh()
		if err != nil {
			s.log.Error("statistics refresh failed", zap.Error(err))
			return
		}
		s.log.Info("statistics refreshed", zap.Int("inserted", inserted))
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

func (s *StatisticsService) Stop() {
	s.cron.Stop()
}

type monthKey struct {
	Year  int
	Month time.Month
}

func monthOf(t time.Time) monthKey {
	return monthKey{Year: t.Year(), Month: t.Month()}
}

// collectMonthly walks the source records into (month, category) buckets.
// Revenue groups by invoice date; labor cost and hours by work component
// start month; the area-based labor revenue is filed under Materialkosten
// for historical compatibility. Order counts group by order start month;
// every new customer counts as both an inquiry and a new customer.
func collectMonthly(invoices []models.Invoice, work []models.WorkComponent, orders []models.Order, customers []models.Customer) map[monthKey]map[models.StatCategory]float64 {
	buckets := make(map[monthKey]map[models.StatCategory]float64)
	add := func(key monthKey, cat models.StatCategory, value float64) {
		if buckets[key] == nil {
			buckets[key] = make(map[models.StatCategory]float64)
		}
		buckets[key][cat] += value
	}

	for _, inv := range invoices {
		total, _ := inv.GrandTotal.Float64()
		add(monthOf(inv.InvoiceDate), models.StatRevenue, total)
	}

	for _, wc := range work {
		if wc.StartDate == nil {
			continue
		}
		key := monthOf(*wc.StartDate)
		if !wc.Hours.IsZero() && !wc.HourlyRate.IsZero() {
			cost, _ := wc.Hours.Mul(wc.HourlyRate).Float64()
			hours, _ := wc.Hours.Float64()
			add(key, models.StatLaborCost, cost)
			add(key, models.StatHours, hours)
		}
		if !wc.Area.IsZero() && !wc.PricePerArea.IsZero() {
			cost, _ := wc.Area.Mul(wc.PricePerArea).Float64()
			add(key, models.StatMaterialCost, cost)
		}
	}

	for _, o := range orders {
		if o.StartDate == nil {
			continue
		}
		add(monthOf(*o.StartDate), models.StatOrders, 1)
	}

	for _, c := range customers {
		if c.CustomerSince == nil {
			continue
		}
		key := monthOf(*c.CustomerSince)
		add(key, models.StatInquiries, 1)
		add(key, models.StatNewCustomers, 1)
	}

	return buckets
}

// Refresh recomputes all buckets and inserts the rows that do not exist
// yet. The whole run executes in one transaction. Returns the number of
// rows inserted.
func (s *StatisticsService) Refresh() (int, error) {
	inserted := 0
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var invoices []models.Invoice
		if err := tx.Find(&invoices).Error; err != nil {
			return err
		}
		var work []models.WorkComponent
		if err := tx.Where("start_date IS NOT NULL").Find(&work).Error; err != nil {
			return err
		}
		var orders []models.Order
		if err := tx.Where("start_date IS NOT NULL").Find(&orders).Error; err != nil {
			return err
		}
		var customers []models.Customer
		if err := tx.Where("customer_since IS NOT NULL").Find(&customers).Error; err != nil {
			return err
		}

		buckets := collectMonthly(invoices, work, orders, customers)

		for key, values := range buckets {
			monthStart := time.Date(key.Year, key.Month, 1, 0, 0, 0, 0, time.UTC)
			for cat, value := range values {
				var count int64
				if err := tx.Model(&models.MonthlyStatistic{}).
					Where("date = ? AND category = ?", monthStart, cat).
					Count(&count).Error; err != nil {
					return err
				}
				if count > 0 {
					continue
				}
				stat := models.MonthlyStatistic{
					Date:     monthStart,
					Category: cat,
					Value:    value,
					Unit:     cat.Unit(),
				}
				if err := tx.Create(&stat).Error; err != nil {
					return err
				}
				inserted++
			}
		}
		return nil
	})
	return inserted, err
}
