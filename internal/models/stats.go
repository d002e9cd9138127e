package models

type Stats struct {
	Total    int            `json:"total"`
	ByStatus map[Status]int `json:"by_status"`
	Overdue  int            `json:"overdue"`
}
