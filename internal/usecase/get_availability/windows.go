package get_availability

import (
	"sort"
	"time"

	"github.com/venuegrid/VG-ReservationEngine/internal/domain"
)

// freeWindows вычисляет свободные окна дня вычитанием занятых интервалов
// Занятые интервалы обрезаются по границам дня, сливаются при пересечении
// или стыковке, затем промежутки между ними становятся свободными окнами
func freeWindows(dayStart, dayEnd time.Time, busy []domain.TimeInterval) []Window {
	clipped := make([]domain.TimeInterval, 0, len(busy))
	for _, iv := range busy {
		start, end := iv.Start, iv.End
		if !end.After(dayStart) || !start.Before(dayEnd) {
			continue
		}
		if start.Before(dayStart) {
			start = dayStart
		}
		if end.After(dayEnd) {
			end = dayEnd
		}
		clipped = append(clipped, domain.TimeInterval{Start: start, End: end})
	}

	sort.Slice(clipped, func(i, j int) bool { return clipped[i].Start.Before(clipped[j].Start) })

	// Сливаем пересекающиеся и стыкующиеся интервалы
	merged := make([]domain.TimeInterval, 0, len(clipped))
	for _, iv := range clipped {
		if len(merged) == 0 || iv.Start.After(merged[len(merged)-1].End) {
			merged = append(merged, iv)
			continue
		}
		last := &merged[len(merged)-1]
		if iv.End.After(last.End) {
			last.End = iv.End
		}
	}

	windows := make([]Window, 0, len(merged)+1)
	cursor := dayStart
	for _, iv := range merged {
		if iv.Start.After(cursor) {
			windows = append(windows, Window{Start: cursor, End: iv.Start})
		}
		cursor = iv.End
	}
	if cursor.Before(dayEnd) {
		windows = append(windows, Window{Start: cursor, End: dayEnd})
	}

	return windows
}
