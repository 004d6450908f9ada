package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
)

// --------------------------------------------------
// Períodos no fuso da barbearia
// --------------------------------------------------

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// dateRange reads two inclusive YYYY-MM-DD query params and returns the
// half-open interval [from, to+1 day). Missing params fall back to the defaults.
func dateRange(
	c *gin.Context,
	fromKey, toKey string,
	defFrom, defTo time.Time,
) (time.Time, time.Time, error) {

	loc := timezone.Business()

	from := defFrom
	if v := c.Query(fromKey); v != "" {
		d, err := timezone.ParseDate(v, loc)
		if err != nil {
			return time.Time{}, time.Time{}, httperr.Validation("INVALID_DATE", fromKey+" must be YYYY-MM-DD")
		}
		from = d
	}

	to := defTo
	if v := c.Query(toKey); v != "" {
		d, err := timezone.ParseDate(v, loc)
		if err != nil {
			return time.Time{}, time.Time{}, httperr.Validation("INVALID_DATE", toKey+" must be YYYY-MM-DD")
		}
		to = d
	}

	if to.Before(from) {
		return time.Time{}, time.Time{}, httperr.Validation("INVALID_PERIOD", toKey+" is before "+fromKey)
	}

	return startOfDay(from), startOfDay(to).AddDate(0, 0, 1), nil
}

func pageParam(c *gin.Context) int {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	return page
}

func idParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, httperr.Validation("INVALID_ID", name+" must be a positive integer")
	}
	return uint(id), nil
}

// optionalUint parses a query param that may be absent; zero means unset.
func optionalUint(c *gin.Context, name string) (uint, error) {
	v := c.Query(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, httperr.Validation("INVALID_"+strings.ToUpper(name), name+" must be a positive integer")
	}
	return uint(n), nil
}
