package occupancy

import "strconv"

func formatVenueID(id int64) string {
	return strconv.FormatInt(id, 10)
}
