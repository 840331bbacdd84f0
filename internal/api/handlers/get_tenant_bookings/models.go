package get_tenant_bookings

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/venuegrid/VG-ReservationEngine/internal/domain"
	"github.com/venuegrid/VG-ReservationEngine/internal/service/bookings/models"
)

// parseQuery разбирает query параметры фильтрации списка бронирований
// Поддерживаются: resourceId, startDate, endDate (YYYY-MM-DD), status, includeInactive
func parseQuery(tenantID int64, query url.Values) (*models.GetTenantBookingsRequest, error) {
	req := &models.GetTenantBookingsRequest{TenantID: tenantID}

	if raw := query.Get("resourceId"); raw != "" {
		resourceID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || resourceID <= 0 {
			return nil, fmt.Errorf("invalid resourceId %q", raw)
		}
		req.ResourceID = &resourceID
	}

	if raw := query.Get("startDate"); raw != "" {
		startDate, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid startDate %q", raw)
		}
		req.StartDate = &startDate
	}

	if raw := query.Get("endDate"); raw != "" {
		endDate, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid endDate %q", raw)
		}
		req.EndDate = &endDate
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	if raw := query.Get("includeInactive"); raw != "" {
		includeInactive, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive %q", raw)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
