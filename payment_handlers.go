package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"rentledger/models"
	"rentledger/pkg/ledger"
)

// withEffectiveStatus overlays the time-aware derived status onto dues before
// they leave the API. The stored status column is only a snapshot.
func withEffectiveStatus(dues []models.RentPayment, asOf time.Time) []models.RentPayment {
	asOfMonth := ledger.MonthOf(asOf)
	for i := range dues {
		dues[i].Status = string(ledger.Derive(dues[i].PaidAmount, dues[i].TotalAmount, dues[i].Month, asOfMonth))
	}
	return dues
}

func listTenantDuesHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var tenant models.Tenant
	if err := db.Where("id = ? AND owner_id = ?", c.Param("id"), user.ID).First(&tenant).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "tenant not found"})
		return
	}
	var dues []models.RentPayment
	if err := db.Where("tenant_id = ?", tenant.ID).Order("month asc, id asc").Find(&dues).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, withEffectiveStatus(dues, time.Now()))
}

func recordPaymentHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req struct {
		Amount        *int64 `json:"amount" binding:"required"`
		Method        string `json:"method" binding:"required"`
		UseAdvance    bool   `json:"use_advance"`
		AdvanceAmount int64  `json:"advance_amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	advance := int64(0)
	if req.UseAdvance {
		advance = req.AdvanceAmount
	}
	affected, err := RecordPayment(user.ID, c.Param("id"), *req.Amount, req.Method, advance)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ledger.ErrExceedsOutstanding):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "tenant not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "settlement failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"affected_dues": withEffectiveStatus(affected, time.Now())})
}

// listPaymentsHandler lists dues, optionally filtered by month (admin sees all owners)
func listPaymentsHandler(c *gin.Context) {
	role, _ := c.Get("role")
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	q := db.Model(&models.RentPayment{})
	if role != roleAdministrator {
		q = q.Where("owner_id = ?", user.ID)
	}
	if month := c.Query("month"); month != "" {
		if !ledger.ValidMonth(month) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
			return
		}
		q = q.Where("month = ?", month)
	}
	var dues []models.RentPayment
	if err := q.Order("month asc, id asc").Find(&dues).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, withEffectiveStatus(dues, time.Now()))
}

func startMonthHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	status, err := StartMonth(user.ID, c.Param("month"))
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidMonth) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "start month failed"})
		return
	}
	c.JSON(http.StatusOK, status)
}

func closeMonthHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	status, err := CloseMonth(user.ID, c.Param("month"))
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInvalidMonth):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ledger.ErrMonthNotStarted):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, ledger.ErrUnresolvedDues):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "close month failed"})
		}
		return
	}
	c.JSON(http.StatusOK, status)
}

// getMonthHandler returns the lifecycle state plus a due rollup for one month.
func getMonthHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	month := c.Param("month")
	if !ledger.ValidMonth(month) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
		return
	}
	var status models.MonthlyStatus
	err := db.Where("owner_id = ? AND month = ?", user.ID, month).First(&status).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	var dues []models.RentPayment
	if err := db.Where("owner_id = ? AND month = ?", user.ID, month).Find(&dues).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	counts := map[ledger.Status]int{}
	var collected, outstanding int64
	asOf := ledger.MonthOf(time.Now())
	for _, d := range dues {
		counts[ledger.Derive(d.PaidAmount, d.TotalAmount, d.Month, asOf)]++
		collected += d.PaidAmount
		outstanding += d.TotalAmount - d.PaidAmount
	}
	c.JSON(http.StatusOK, gin.H{
		"month":       month,
		"is_started":  status.IsStarted,
		"is_closed":   status.IsClosed,
		"started_at":  status.StartedAt,
		"closed_at":   status.ClosedAt,
		"dues":        len(dues),
		"paid":        counts[ledger.StatusPaid],
		"partial":     counts[ledger.StatusPartial],
		"pending":     counts[ledger.StatusPending],
		"overdue":     counts[ledger.StatusOverdue],
		"collected":   collected,
		"outstanding": outstanding,
	})
}

// summaryHandler aggregates collection and spend, per month or overall.
func summaryHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	type row struct {
		Month       string `json:"month"`
		Collected   int64  `json:"collected"`
		Outstanding int64  `json:"outstanding"`
		Expenses    int64  `json:"expenses"`
	}
	dueQ := db.Model(&models.RentPayment{}).Where("owner_id = ?", user.ID)
	expQ := db.Model(&models.Expense{}).Where("owner_id = ?", user.ID)
	if month := c.Query("month"); month != "" {
		if !ledger.ValidMonth(month) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
			return
		}
		dueQ = dueQ.Where("month = ?", month)
		expQ = expQ.Where("month = ?", month)
	}
	var results []row
	if err := dueQ.Select("month, sum(paid_amount) as collected, sum(total_amount - paid_amount) as outstanding").
		Group("month").Order("month asc").Scan(&results).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	type expRow struct {
		Month string
		Total int64
	}
	var expenses []expRow
	if err := expQ.Select("month, sum(amount) as total").Group("month").Scan(&expenses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	byMonth := map[string]int64{}
	for _, e := range expenses {
		byMonth[e.Month] = e.Total
	}
	for i := range results {
		results[i].Expenses = byMonth[results[i].Month]
	}
	c.JSON(http.StatusOK, results)
}
