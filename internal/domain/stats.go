package domain

import "time"

// ChartRow is one element of a dashboard time series. It marshals as a JSON
// array so the payload can feed a chart component directly, e.g.
// ["Day","Sales"] or ["5/3",100].
type ChartRow = []any

type AdminStats struct {
	TotalUsers    int64      `json:"totalUsers"`
	TotalRooms    int64      `json:"totalRooms"`
	TotalBookings int        `json:"totalBookings"`
	TotalPrice    float64    `json:"totalPrice"`
	ChartData     []ChartRow `json:"chartData"`
}

type HostStats struct {
	TotalRooms    int64      `json:"totalRooms"`
	TotalBookings int        `json:"totalBookings"`
	TotalPrice    float64    `json:"totalPrice"`
	ChartData     []ChartRow `json:"chartData"`
	HostSince     *time.Time `json:"hostSince,omitempty"`
}

type GuestStats struct {
	TotalBookings int        `json:"totalBookings"`
	TotalPrice    float64    `json:"totalPrice"`
	ChartData     []ChartRow `json:"chartData"`
	GuestSince    *time.Time `json:"guestSince,omitempty"`
}
